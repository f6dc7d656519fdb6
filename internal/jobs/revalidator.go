// Package jobs runs the console's background work.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/security"
)

// Sessions is the part of the session store the revalidator touches.
type Sessions interface {
	IsAuthenticated() bool
	Token() string
	Logout(ctx context.Context) error
}

// Profiles fetches the signed-in account. A rejected token is expected to log
// the session out as a side effect.
type Profiles interface {
	Me(ctx context.Context) (models.Account, error)
}

type Outcome string

const (
	OutcomeIdle    Outcome = "idle"
	OutcomeValid   Outcome = "valid"
	OutcomeExpired Outcome = "expired"
	OutcomeRevoked Outcome = "revoked"
	OutcomeFailed  Outcome = "failed"
)

// Revalidator periodically confirms that the stored token is still accepted.
// It never renews a token.
type Revalidator struct {
	cron     *cron.Cron
	schedule string
	sessions Sessions
	profiles Profiles
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewRevalidator(schedule string, sessions Sessions, profiles Profiles, timeout time.Duration, log zerolog.Logger) *Revalidator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Revalidator{
		cron:     cron.New(cron.WithSeconds()),
		schedule: schedule,
		sessions: sessions,
		profiles: profiles,
		timeout:  timeout,
		now:      time.Now,
		log:      log,
	}
}

func (r *Revalidator) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info().Str("schedule", r.schedule).Msg("session revalidation scheduled")
	return nil
}

// Stop waits for a running check to finish or ctx to end.
func (r *Revalidator) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (r *Revalidator) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.Check(ctx)
}

// Check runs one revalidation pass.
func (r *Revalidator) Check(ctx context.Context) Outcome {
	if !r.sessions.IsAuthenticated() {
		return OutcomeIdle
	}

	if security.Expired(r.sessions.Token(), r.now()) {
		r.log.Info().Msg("token expired, logging out")
		if err := r.sessions.Logout(ctx); err != nil {
			r.log.Error().Err(err).Msg("logout after expiry failed")
		}
		return OutcomeExpired
	}

	if _, err := r.profiles.Me(ctx); err != nil {
		if apiclient.IsUnauthorized(err) {
			r.log.Info().Err(err).Msg("token rejected by backend")
			return OutcomeRevoked
		}
		r.log.Warn().Err(err).Msg("session revalidation failed")
		return OutcomeFailed
	}
	return OutcomeValid
}

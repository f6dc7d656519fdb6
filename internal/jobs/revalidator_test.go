package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/storage"
)

var ann = models.UserRecord{ID: "u1", Name: "Ann", Email: "a@x.com", Role: models.UserRoleUser}

type fixture struct {
	sessions *session.Store
	calls    atomic.Int32
	status   int
	reval    *Revalidator
}

func newFixture(t *testing.T, status int) *fixture {
	t.Helper()
	f := &fixture{status: status}
	f.sessions = session.NewStore(storage.NewMemoryStore(), zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		if f.status == http.StatusOK {
			_, _ = w.Write([]byte(`{"_id":"u1","name":"Ann","email":"a@x.com","role":"user"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, time.Second, f.sessions, zerolog.Nop())
	f.reval = NewRevalidator("0 */5 * * * *", f.sessions, client, time.Second, zerolog.Nop())
	return f
}

func jwtExpiring(t *testing.T, at time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(at),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func TestCheckIdleWhenLoggedOut(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	assert.Equal(t, OutcomeIdle, f.reval.Check(context.Background()))
	assert.Zero(t, f.calls.Load())
}

func TestCheckValid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, http.StatusOK)
	require.NoError(t, f.sessions.Login(ctx, "opaque-token", ann))

	assert.Equal(t, OutcomeValid, f.reval.Check(ctx))
	assert.EqualValues(t, 1, f.calls.Load())
	assert.True(t, f.sessions.IsAuthenticated())
}

func TestCheckExpiredJWTLogsOutLocally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, http.StatusOK)
	require.NoError(t, f.sessions.Login(ctx, jwtExpiring(t, time.Now().Add(-time.Minute)), ann))

	assert.Equal(t, OutcomeExpired, f.reval.Check(ctx))
	assert.Zero(t, f.calls.Load())
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestCheckRevokedToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, http.StatusUnauthorized)
	require.NoError(t, f.sessions.Login(ctx, jwtExpiring(t, time.Now().Add(time.Hour)), ann))

	assert.Equal(t, OutcomeRevoked, f.reval.Check(ctx))
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestCheckBackendFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, http.StatusInternalServerError)
	require.NoError(t, f.sessions.Login(ctx, "opaque-token", ann))

	assert.Equal(t, OutcomeFailed, f.reval.Check(ctx))
	assert.True(t, f.sessions.IsAuthenticated())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	f := newFixture(t, http.StatusOK)
	f.reval.schedule = "every now and then"
	assert.Error(t, f.reval.Start())

	f.reval.schedule = "*/1 * * * * *"
	require.NoError(t, f.reval.Start())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f.reval.Stop(ctx)
}

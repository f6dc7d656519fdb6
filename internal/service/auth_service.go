package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/notify"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

const (
	noticeLoginOK        = "Login successful!"
	noticeLoginMalformed = "Login failed. Invalid response from server."
	noticeLoginFailed    = "Invalid email or password!"
	noticeSignUpOK       = "Registration successful! Please sign in."
	noticeSignUpFailed   = "Signup failed. Please try again."
)

type AuthService struct {
	api      Backend
	sessions *session.Store
	notices  notify.Notifier
	log      zerolog.Logger
}

func NewAuthService(api Backend, sessions *session.Store, notices notify.Notifier, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		notices:  notices,
		log:      log,
	}
}

// SignIn exchanges credentials for a session. Only a response carrying both a
// token and a user logs in.
func (s *AuthService) SignIn(ctx context.Context, form validation.SignIn) error {
	if err := validate(form); err != nil {
		return err
	}

	resp, err := s.api.Login(ctx, apiclient.LoginRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		s.log.Info().Err(err).Msg("sign in rejected")
		s.notices.Error(apiclient.MessageOr(err, noticeLoginFailed))
		return err
	}

	if resp.Token == "" || resp.User == nil {
		s.log.Warn().Msg("login response without token or user")
		s.notices.Error(noticeLoginMalformed)
		return ErrMalformedLogin
	}

	if err := s.sessions.Login(ctx, resp.Token, *resp.User); err != nil {
		if errors.Is(err, session.ErrInvalidLogin) {
			s.notices.Error(noticeLoginMalformed)
			return ErrMalformedLogin
		}
		s.log.Error().Err(err).Msg("persist session")
		s.notices.Error("Login failed. Could not save the session.")
		return err
	}

	s.notices.Success(messageOr(resp.Message, noticeLoginOK))
	return nil
}

// SignUp registers an account. It never logs in.
func (s *AuthService) SignUp(ctx context.Context, form validation.SignUp) error {
	if err := validate(form); err != nil {
		return err
	}

	resp, err := s.api.SignUp(ctx, apiclient.SignUpRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
		Role:     models.UserRole(form.Role),
	})
	if err != nil {
		s.notices.Error(apiclient.MessageOr(err, noticeSignUpFailed))
		return err
	}

	s.notices.Success(messageOr(resp.Message, noticeSignUpOK))
	return nil
}

func (s *AuthService) SignOut(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

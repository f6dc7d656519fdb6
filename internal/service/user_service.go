package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/notify"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

const (
	noticeFetchFailed   = "Failed to fetch data"
	noticeCreated       = "User created successfully!"
	noticeUpdated       = "User updated successfully!"
	noticeDeleted       = "User deleted successfully!"
	noticeDeleteFailed  = "Failed to delete user!"
	noticeRequestFailed = "Request failed. Please try again."
)

type UserService struct {
	api      Backend
	sessions *session.Store
	notices  notify.Notifier
	log      zerolog.Logger
}

func NewUserService(api Backend, sessions *session.Store, notices notify.Notifier, log zerolog.Logger) *UserService {
	return &UserService{
		api:      api,
		sessions: sessions,
		notices:  notices,
		log:      log,
	}
}

// UsersView is what the users screen renders. FetchError is set instead of
// failing the page.
type UsersView struct {
	Admin      bool
	Self       models.UserRecord
	Accounts   []models.Account
	FetchError string
}

func (v UsersView) ActiveCount() int {
	return len(v.Accounts)
}

// Directory lists every user for admins and only the caller otherwise.
func (s *UserService) Directory(ctx context.Context) UsersView {
	self, _ := s.sessions.User()
	view := UsersView{Admin: s.sessions.IsAdmin(), Self: self}

	if view.Admin {
		accounts, err := s.api.ListUsers(ctx)
		if err != nil {
			view.FetchError = apiclient.MessageOr(err, noticeFetchFailed)
			return view
		}
		view.Accounts = accounts
		return view
	}

	me, err := s.api.Me(ctx)
	if err != nil {
		view.FetchError = apiclient.MessageOr(err, noticeFetchFailed)
		return view
	}
	view.Accounts = []models.Account{me}
	return view
}

// Get loads one account for the edit form. Non-admins may only load
// themselves.
func (s *UserService) Get(ctx context.Context, id string) (models.Account, error) {
	if !s.sessions.IsAdmin() {
		self, _ := s.sessions.User()
		if id != self.ID {
			return models.Account{}, ErrForbidden
		}
		return s.api.Me(ctx)
	}

	accounts, err := s.api.ListUsers(ctx)
	if err != nil {
		return models.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Account{}, ErrUserNotFound
}

func (s *UserService) Create(ctx context.Context, form validation.UserForm) error {
	if !s.sessions.IsAdmin() {
		return ErrForbidden
	}
	form.Editing = false
	if err := validate(form); err != nil {
		return err
	}

	resp, err := s.api.AddUser(ctx, apiclient.CreateUserRequest{
		Name:            strings.TrimSpace(form.Name),
		Email:           strings.TrimSpace(form.Email),
		Phone:           strings.TrimSpace(form.Phone),
		Country:         form.Country,
		State:           form.State,
		City:            form.City,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		Organization:    strings.TrimSpace(form.Organization),
		Role:            models.UserRole(form.Role),
	})
	if err != nil {
		s.notices.Error(apiclient.MessageOr(err, noticeRequestFailed))
		return err
	}
	s.notices.Success(messageOr(resp.Message, noticeCreated))
	return nil
}

// Update sends name, email and role, plus the password when one was entered.
// Editing the signed-in user also updates the session.
func (s *UserService) Update(ctx context.Context, id string, form validation.UserForm) error {
	self, _ := s.sessions.User()
	isSelf := id == self.ID
	if !s.sessions.IsAdmin() {
		if !isSelf {
			return ErrForbidden
		}
		form.Role = string(self.Role)
	}
	form.Editing = true
	if err := validate(form); err != nil {
		return err
	}

	req := apiclient.UpdateUserRequest{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Role:     models.UserRole(form.Role),
		Password: form.Password,
	}
	resp, err := s.api.UpdateUser(ctx, id, req)
	if err != nil {
		s.notices.Error(apiclient.MessageOr(err, noticeRequestFailed))
		return err
	}

	if isSelf {
		patch := models.UserPatch{Name: &req.Name, Email: &req.Email, Role: &req.Role}
		if _, err := s.sessions.UpdateUser(ctx, patch); err != nil {
			s.log.Warn().Err(err).Msg("sync session user after profile edit")
		}
	}
	s.notices.Success(messageOr(resp.Message, noticeUpdated))
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if !s.sessions.IsAdmin() {
		return ErrForbidden
	}
	if self, _ := s.sessions.User(); id == self.ID {
		s.notices.Error("You cannot delete your own account.")
		return ErrSelfDelete
	}

	resp, err := s.api.DeleteUser(ctx, id)
	if err != nil {
		s.log.Info().Err(err).Str("user_id", id).Msg("delete user failed")
		s.notices.Error(apiclient.MessageOr(err, noticeDeleteFailed))
		return err
	}
	s.notices.Success(messageOr(resp.Message, noticeDeleted))
	return nil
}

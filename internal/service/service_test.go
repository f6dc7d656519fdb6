package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/notify"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/storage"
	"github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, in apiclient.LoginRequest) (apiclient.LoginResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(apiclient.LoginResponse), args.Error(1)
}

func (m *MockBackend) SignUp(ctx context.Context, in apiclient.SignUpRequest) (apiclient.MessageResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(apiclient.MessageResponse), args.Error(1)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]models.Account)
	return accounts, args.Error(1)
}

func (m *MockBackend) Me(ctx context.Context) (models.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockBackend) AddUser(ctx context.Context, in apiclient.CreateUserRequest) (apiclient.MessageResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(apiclient.MessageResponse), args.Error(1)
}

func (m *MockBackend) UpdateUser(ctx context.Context, id string, in apiclient.UpdateUserRequest) (apiclient.MessageResponse, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(apiclient.MessageResponse), args.Error(1)
}

func (m *MockBackend) DeleteUser(ctx context.Context, id string) (apiclient.MessageResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(apiclient.MessageResponse), args.Error(1)
}

var (
	ann   = models.UserRecord{ID: "u1", Name: "Ann", Email: "a@x.com", Role: models.UserRoleUser}
	admin = models.UserRecord{ID: "a1", Name: "Root", Email: "root@x.com", Role: models.UserRoleAdmin}
)

type harness struct {
	api      *MockBackend
	sessions *session.Store
	notices  *notify.Queue
	auth     *AuthService
	users    *UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api:      new(MockBackend),
		sessions: session.NewStore(storage.NewMemoryStore(), zerolog.Nop()),
		notices:  notify.NewQueue(0),
	}
	h.auth = NewAuthService(h.api, h.sessions, h.notices, zerolog.Nop())
	h.users = NewUserService(h.api, h.sessions, h.notices, zerolog.Nop())
	t.Cleanup(func() { h.api.AssertExpectations(t) })
	return h
}

func (h *harness) loginAs(t *testing.T, u models.UserRecord) {
	t.Helper()
	require.NoError(t, h.sessions.Login(context.Background(), "tok", u))
}

func (h *harness) lastNotice(t *testing.T) notify.Notice {
	t.Helper()
	notices := h.notices.Drain()
	require.NotEmpty(t, notices)
	return notices[len(notices)-1]
}

var goodSignIn = validation.SignIn{Email: "a@x.com", Password: "secret", Consent: true}

func TestSignInSuccess(t *testing.T) {
	h := newHarness(t)
	user := ann
	h.api.On("Login", mock.Anything, apiclient.LoginRequest{Email: "a@x.com", Password: "secret"}).
		Return(apiclient.LoginResponse{Token: "t1", User: &user}, nil)

	require.NoError(t, h.auth.SignIn(context.Background(), goodSignIn))

	snap := h.sessions.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "t1", snap.Token)
	assert.Equal(t, ann, *snap.User)

	n := h.lastNotice(t)
	assert.Equal(t, notify.LevelSuccess, n.Level)
	assert.Equal(t, "Login successful!", n.Text)
}

func TestSignInMalformedResponse(t *testing.T) {
	h := newHarness(t)
	h.api.On("Login", mock.Anything, mock.Anything).Return(apiclient.LoginResponse{Token: "t1"}, nil)

	err := h.auth.SignIn(context.Background(), goodSignIn)
	assert.ErrorIs(t, err, ErrMalformedLogin)
	assert.False(t, h.sessions.IsAuthenticated())
	assert.Equal(t, "Login failed. Invalid response from server.", h.lastNotice(t).Text)
}

func TestSignInRejected(t *testing.T) {
	h := newHarness(t)
	h.api.On("Login", mock.Anything, mock.Anything).
		Return(apiclient.LoginResponse{}, &apiclient.RequestFailed{Status: http.StatusBadRequest, Message: "Wrong password"}).Once()
	h.api.On("Login", mock.Anything, mock.Anything).
		Return(apiclient.LoginResponse{}, &apiclient.RequestFailed{Code: apiclient.CodeNetwork}).Once()

	require.Error(t, h.auth.SignIn(context.Background(), goodSignIn))
	assert.Equal(t, "Wrong password", h.lastNotice(t).Text)

	require.Error(t, h.auth.SignIn(context.Background(), goodSignIn))
	assert.Equal(t, "Invalid email or password!", h.lastNotice(t).Text)
	assert.False(t, h.sessions.IsAuthenticated())
}

func TestSignInInvalidForm(t *testing.T) {
	h := newHarness(t)
	err := h.auth.SignIn(context.Background(), validation.SignIn{Email: "bad"})
	require.Error(t, err)
	fields := Fields(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "consent")
	h.api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestSignUp(t *testing.T) {
	h := newHarness(t)
	form := validation.SignUp{Name: "Ann", Email: "a@x.com", Password: "secret", Role: "user", Consent: true}
	h.api.On("SignUp", mock.Anything, apiclient.SignUpRequest{Name: "Ann", Email: "a@x.com", Password: "secret", Role: models.UserRoleUser}).
		Return(apiclient.MessageResponse{Message: "User registered"}, nil)

	require.NoError(t, h.auth.SignUp(context.Background(), form))
	assert.Equal(t, "User registered", h.lastNotice(t).Text)
	assert.False(t, h.sessions.IsAuthenticated())
}

func TestSignOut(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	require.NoError(t, h.auth.SignOut(context.Background()))
	assert.False(t, h.sessions.IsAuthenticated())
}

func TestDirectoryAdmin(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, admin)
	h.api.On("ListUsers", mock.Anything).Return([]models.Account{{ID: "a1"}, {ID: "u1"}}, nil)

	view := h.users.Directory(context.Background())
	assert.True(t, view.Admin)
	assert.Equal(t, 2, view.ActiveCount())
	assert.Empty(t, view.FetchError)
}

func TestDirectoryUserAndFetchError(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	h.api.On("Me", mock.Anything).Return(models.Account{ID: "u1", Name: "Ann"}, nil).Once()
	h.api.On("Me", mock.Anything).Return(models.Account{}, &apiclient.RequestFailed{Status: 500}).Once()

	view := h.users.Directory(context.Background())
	assert.False(t, view.Admin)
	require.Len(t, view.Accounts, 1)

	view = h.users.Directory(context.Background())
	assert.Equal(t, "Failed to fetch data", view.FetchError)
}

func TestGet(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	_, err := h.users.Get(context.Background(), "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)

	h.loginAs(t, admin)
	h.api.On("ListUsers", mock.Anything).Return([]models.Account{{ID: "u1", Name: "Ann"}}, nil)
	acc, err := h.users.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", acc.Name)

	_, err = h.users.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreate(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, admin)
	form := validation.UserForm{Name: "Bob", Email: "b@x.com", Password: "secret", ConfirmPassword: "secret", Role: "user"}
	h.api.On("AddUser", mock.Anything, mock.MatchedBy(func(r apiclient.CreateUserRequest) bool {
		return r.Name == "Bob" && r.ConfirmPassword == "secret"
	})).Return(apiclient.MessageResponse{}, nil)

	require.NoError(t, h.users.Create(context.Background(), form))
	assert.Equal(t, "User created successfully!", h.lastNotice(t).Text)

	form.ConfirmPassword = "nope"
	assert.Contains(t, Fields(h.users.Create(context.Background(), form)), "confirmPassword")
}

func TestCreateRequiresAdmin(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	assert.ErrorIs(t, h.users.Create(context.Background(), validation.UserForm{}), ErrForbidden)
}

func TestSelfUpdateSyncsSession(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	form := validation.UserForm{Name: "Annie", Email: "a@x.com", Role: "admin"}
	h.api.On("UpdateUser", mock.Anything, "u1", apiclient.UpdateUserRequest{Name: "Annie", Email: "a@x.com", Role: models.UserRoleUser}).
		Return(apiclient.MessageResponse{Message: "Updated"}, nil)

	require.NoError(t, h.users.Update(context.Background(), "u1", form))

	user, ok := h.sessions.User()
	require.True(t, ok)
	assert.Equal(t, "Annie", user.Name)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.Equal(t, "Updated", h.lastNotice(t).Text)
}

func TestUpdateOtherUserLeavesSession(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, admin)
	h.api.On("UpdateUser", mock.Anything, "u1", apiclient.UpdateUserRequest{Name: "Ann", Email: "a@x.com", Role: models.UserRoleAdmin, Password: "newpass"}).
		Return(apiclient.MessageResponse{}, nil)

	form := validation.UserForm{Name: "Ann", Email: "a@x.com", Role: "admin", Password: "newpass", ConfirmPassword: "newpass"}
	require.NoError(t, h.users.Update(context.Background(), "u1", form))

	user, _ := h.sessions.User()
	assert.Equal(t, admin, user)
}

func TestUpdateForbiddenForOthers(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, ann)
	assert.ErrorIs(t, h.users.Update(context.Background(), "a1", validation.UserForm{}), ErrForbidden)
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, admin)

	assert.ErrorIs(t, h.users.Delete(context.Background(), "a1"), ErrSelfDelete)
	h.notices.Drain()

	h.api.On("DeleteUser", mock.Anything, "u1").Return(apiclient.MessageResponse{}, nil).Once()
	require.NoError(t, h.users.Delete(context.Background(), "u1"))
	assert.Equal(t, "User deleted successfully!", h.lastNotice(t).Text)

	h.api.On("DeleteUser", mock.Anything, "u2").Return(apiclient.MessageResponse{}, &apiclient.RequestFailed{Status: 500}).Once()
	require.Error(t, h.users.Delete(context.Background(), "u2"))
	assert.Equal(t, "Failed to delete user!", h.lastNotice(t).Text)
}

package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string             `json:"token"`
	User    *models.UserRecord `json:"user"`
	Message string             `json:"message"`
}

type SignUpRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

// CreateUserRequest is the full add-user form as the API expects it.
type CreateUserRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Country         string          `json:"country"`
	State           string          `json:"state"`
	City            string          `json:"city"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirmPassword"`
	Organization    string          `json:"organization"`
	Role            models.UserRole `json:"role"`
}

// UpdateUserRequest only sends the password when one was entered.
type UpdateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	Password string          `json:"password,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type listResponse struct {
	Data []models.Account `json:"data"`
}

type accountResponse struct {
	Data models.Account `json:"data"`
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/login", in, &out)
	return out, err
}

func (c *Client) SignUp(ctx context.Context, in SignUpRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/submit", in, &out)
	return out, err
}

// ListUsers is admin-only on the API side.
func (c *Client) ListUsers(ctx context.Context) ([]models.Account, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return []models.Account{}, nil
	}
	return out.Data, nil
}

func (c *Client) Me(ctx context.Context) (models.Account, error) {
	var out accountResponse
	err := c.do(ctx, http.MethodGet, "/me", nil, &out)
	return out.Data, err
}

func (c *Client) AddUser(ctx context.Context, in CreateUserRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPost, "/add", in, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UpdateUserRequest) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodPut, "/update/"+url.PathEscape(id), in, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) (MessageResponse, error) {
	var out MessageResponse
	err := c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, &out)
	return out, err
}

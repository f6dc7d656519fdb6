package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/geo"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/routes"
	"github.com/Faiz-1107/AMK-Project-Management/internal/service"
	"github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

// RenderedSelection is the geography choice the form was last rendered with.
type RenderedSelection struct {
	Country string `form:"prev_country"`
	State   string `form:"prev_state"`
	City    string `form:"prev_city"`
}

// userFormPost is one posted user form together with the selection it was
// rendered with.
type userFormPost struct {
	validation.UserForm
	RenderedSelection
}

func (h HandlerSet) Users(c *gin.Context) {
	h.directory(c, "Users")
}

func (h HandlerSet) directory(c *gin.Context, title string) {
	view := h.userService.Directory(c.Request.Context())
	if h.redirectIfLoggedOut(c) {
		return
	}
	h.render(c, http.StatusOK, "users.tmpl", gin.H{
		"Title": title,
		"View":  view,
	})
}

func (h HandlerSet) NewUser(c *gin.Context) {
	h.userForm(c, http.StatusOK, validation.UserForm{Role: string(models.UserRoleUser)}, routes.Users, nil)
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	form, ok := h.bindUserForm(c, routes.Users, false)
	if !ok {
		return
	}

	err := h.userService.Create(c.Request.Context(), form)
	h.afterSave(c, form, routes.Users, err)
}

func (h HandlerSet) EditUser(c *gin.Context) {
	id := c.Param("id")
	account, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.loadFailed(c, err)
		return
	}

	form := validation.UserForm{
		Name:         account.Name,
		Email:        account.Email,
		Phone:        account.Phone,
		Country:      account.Country,
		State:        account.State,
		City:         account.City,
		Organization: account.Organization,
		Role:         string(account.Role),
		Editing:      true,
	}
	h.userForm(c, http.StatusOK, form, routes.UserUpdate(id), nil)
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	action := routes.UserUpdate(id)
	form, ok := h.bindUserForm(c, action, true)
	if !ok {
		return
	}

	err := h.userService.Update(c.Request.Context(), id, form)
	if errors.Is(err, service.ErrForbidden) {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}
	h.afterSave(c, form, action, err)
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Info().Err(err).Str("user_id", c.Param("id")).Msg("delete user")
	}
	if h.redirectIfLoggedOut(c) {
		return
	}
	c.Redirect(http.StatusSeeOther, routes.Users)
}

// bindUserForm binds the posted form and applies the geography cascade. When
// the cascade changed the selection the form is re-rendered with the new
// options instead of being submitted.
func (h HandlerSet) bindUserForm(c *gin.Context, action string, editing bool) (validation.UserForm, bool) {
	var post userFormPost
	if err := c.ShouldBind(&post); err != nil {
		h.log.Info().Err(err).Str("path", c.Request.URL.Path).Msg("bind user form")
		form := post.UserForm
		form.Editing = editing
		h.userForm(c, http.StatusBadRequest, form, action, map[string]string{"form": "Failed to parse form"})
		return form, false
	}
	form := post.UserForm
	form.Editing = editing

	submitted := geo.Selection{Country: form.Country, State: form.State, City: form.City}
	next := geo.Cascade(h.geo, geo.Selection(post.RenderedSelection), submitted)
	form.Country, form.State, form.City = next.Country, next.State, next.City
	if next != submitted {
		h.userForm(c, http.StatusOK, form, action, nil)
		return form, false
	}
	return form, true
}

func (h HandlerSet) afterSave(c *gin.Context, form validation.UserForm, action string, err error) {
	if h.redirectIfLoggedOut(c) {
		return
	}
	if err != nil {
		form.Password, form.ConfirmPassword = "", ""
		h.userForm(c, formStatus(err, http.StatusBadGateway), form, action, service.Fields(err))
		return
	}
	c.Redirect(http.StatusSeeOther, routes.Users)
}

func (h HandlerSet) loadFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.AbortWithStatus(http.StatusForbidden)
	case errors.Is(err, service.ErrUserNotFound):
		c.AbortWithStatus(http.StatusNotFound)
	default:
		if h.redirectIfLoggedOut(c) {
			return
		}
		h.notices.Error(apiclient.MessageOr(err, "Failed to fetch data"))
		c.Redirect(http.StatusSeeOther, routes.Users)
	}
}

func (h HandlerSet) userForm(c *gin.Context, status int, form validation.UserForm, action string, errs map[string]string) {
	sel := geo.Selection{Country: form.Country, State: form.State, City: form.City}
	h.render(c, status, "user_form.tmpl", gin.H{
		"Title":   "User",
		"Form":    form,
		"Editing": form.Editing,
		"Action":  action,
		"Geo":     geo.OptionsFor(h.geo, sel),
		"Errors":  errs,
	})
}

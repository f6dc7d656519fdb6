package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Faiz-1107/AMK-Project-Management/internal/routes"
	"github.com/Faiz-1107/AMK-Project-Management/internal/service"
	"github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

func (h HandlerSet) SignInPage(c *gin.Context) {
	if h.sessions.IsAuthenticated() {
		c.Redirect(http.StatusFound, routes.Dashboard)
		return
	}
	h.render(c, http.StatusOK, "signin.tmpl", gin.H{
		"Title": "Sign In",
		"Form":  validation.SignIn{},
	})
}

func (h HandlerSet) SignIn(c *gin.Context) {
	var form validation.SignIn
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "signin.tmpl", gin.H{
			"Title":  "Sign In",
			"Form":   form,
			"Errors": map[string]string{"form": "Failed to parse form"},
		})
		return
	}

	if err := h.authService.SignIn(c.Request.Context(), form); err != nil {
		form.Password = ""
		h.render(c, formStatus(err, http.StatusUnauthorized), "signin.tmpl", gin.H{
			"Title":  "Sign In",
			"Form":   form,
			"Errors": service.Fields(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, routes.Dashboard)
}

func (h HandlerSet) SignUpPage(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.tmpl", gin.H{
		"Title": "Sign Up",
		"Form":  validation.SignUp{},
	})
}

func (h HandlerSet) SignUp(c *gin.Context) {
	var form validation.SignUp
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "signup.tmpl", gin.H{
			"Title":  "Sign Up",
			"Form":   form,
			"Errors": map[string]string{"form": "Failed to parse form"},
		})
		return
	}

	if err := h.authService.SignUp(c.Request.Context(), form); err != nil {
		form.Password = ""
		h.render(c, formStatus(err, http.StatusBadRequest), "signup.tmpl", gin.H{
			"Title":  "Sign Up",
			"Form":   form,
			"Errors": service.Fields(err),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, routes.SignIn)
}

func (h HandlerSet) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("sign out")
	}
	c.Redirect(http.StatusSeeOther, routes.SignIn)
}

// formStatus is 422 for field errors and fallback for everything else.
func formStatus(err error, fallback int) int {
	if service.Fields(err) != nil {
		return http.StatusUnprocessableEntity
	}
	return fallback
}

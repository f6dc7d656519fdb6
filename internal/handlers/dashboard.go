package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Home is the users directory: the full table for admins, the caller's own
// record with "Edit Profile" for everyone else.
func (h HandlerSet) Home(c *gin.Context) {
	h.directory(c, "Dashboard")
}

func (h HandlerSet) Projects(c *gin.Context) {
	h.section(c, "Projects", "projects")
}

func (h HandlerSet) Settings(c *gin.Context) {
	h.section(c, "Settings", "settings")
}

func (h HandlerSet) section(c *gin.Context, title, section string) {
	h.render(c, http.StatusOK, "dashboard.tmpl", gin.H{
		"Title":   title,
		"Section": section,
	})
}

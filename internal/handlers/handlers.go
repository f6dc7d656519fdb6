package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/config"
	"github.com/Faiz-1107/AMK-Project-Management/internal/geo"
	"github.com/Faiz-1107/AMK-Project-Management/internal/guard"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/notify"
	"github.com/Faiz-1107/AMK-Project-Management/internal/routes"
	"github.com/Faiz-1107/AMK-Project-Management/internal/service"
	"github.com/Faiz-1107/AMK-Project-Management/internal/session"
	"github.com/Faiz-1107/AMK-Project-Management/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	userService *service.UserService
	sessions    *session.Store
	store       storage.Storage
	notices     *notify.Queue
	geo         geo.Directory
	guard       *guard.Guard
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	api service.Backend,
	sessions *session.Store,
	store storage.Storage,
	notices *notify.Queue,
	dir geo.Directory,
	g *guard.Guard,
) HandlerSet {
	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: service.NewAuthService(api, sessions, notices, log),
		userService: service.NewUserService(api, sessions, notices, log),
		sessions:    sessions,
		store:       store,
		notices:     notices,
		geo:         dir,
		guard:       g,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET(routes.Health, h.Health)
	router.GET(routes.SessionEvents, h.guard.Watch)

	router.GET(routes.SignIn, h.SignInPage)
	router.POST(routes.SignIn, h.SignIn)
	router.GET(routes.SignUp, h.SignUpPage)
	router.POST(routes.SignUp, h.SignUp)
	router.POST(routes.SignOut, h.SignOut)

	router.GET(routes.GeoStates, h.States)
	router.GET(routes.GeoCities, h.Cities)

	dashboard := router.Group(routes.Dashboard)
	{
		dashboard.GET("", h.Home)
		dashboard.GET("/projects", h.Projects)
		dashboard.GET("/settings", h.Settings)

		dashboard.GET("/users", h.Users)
		dashboard.GET("/users/:id/edit", h.EditUser)
		dashboard.POST("/users/:id", h.UpdateUser)

		admin := dashboard.Group("/users")
		admin.Use(h.guard.RequireRoles(models.UserRoleAdmin))
		admin.GET("/new", h.NewUser)
		admin.POST("", h.CreateUser)
		admin.POST("/:id/delete", h.DeleteUser)
	}
}

// render fills in what every page needs: pending notices, the session user
// and an error map the templates can index.
func (h HandlerSet) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok || data["Errors"] == nil {
		data["Errors"] = map[string]string{}
	}
	if user, ok := h.sessions.User(); ok {
		data["User"] = user
	}
	data["Notices"] = h.notices.Drain()
	c.HTML(status, page, data)
}

// redirectIfLoggedOut handles a session that ended while the request was
// running, typically after a 401 from the API.
func (h HandlerSet) redirectIfLoggedOut(c *gin.Context) bool {
	if h.sessions.IsAuthenticated() {
		return false
	}
	c.Redirect(http.StatusSeeOther, routes.SignIn)
	return true
}

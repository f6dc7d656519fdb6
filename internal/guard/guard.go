// Package guard decides whether a navigation may render. It reads the session
// store on every request and watches it so open pages leave as soon as the
// session ends.
package guard

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	"github.com/Faiz-1107/AMK-Project-Management/internal/routes"
)

type Decision int

const (
	Allowed Decision = iota
	Denied
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Verdict is the outcome for one navigation. Redirect is set when Denied.
// The requested path is never carried over to sign-in.
type Verdict struct {
	Decision Decision
	Redirect string
}

// SessionView is what the guard reads from the session store.
type SessionView interface {
	IsAuthenticated() bool
	Role() models.UserRole
	Subscribe(fn func(models.Session)) (cancel func())
}

type Guard struct {
	sessions  SessionView
	signIn    string
	heartbeat time.Duration
	log       zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func New(sessions SessionView, log zerolog.Logger) *Guard {
	return &Guard{
		sessions:  sessions,
		signIn:    routes.SignIn,
		heartbeat: 25 * time.Second,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Close ends every open Watch stream.
func (g *Guard) Close() {
	g.closeOnce.Do(func() { close(g.done) })
}

func (g *Guard) Evaluate(path string) Verdict {
	if !routes.IsProtected(path) || g.sessions.IsAuthenticated() {
		return Verdict{Decision: Allowed}
	}
	return Verdict{Decision: Denied, Redirect: g.signIn}
}

// Middleware evaluates every request. Denied navigations are redirected to
// sign-in and never reach their handler.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		verdict := g.Evaluate(c.Request.URL.Path)
		if verdict.Decision == Denied {
			g.log.Debug().Str("path", c.Request.URL.Path).Msg("navigation denied")
			c.Redirect(http.StatusFound, verdict.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles rejects sessions whose role is not listed.
func (g *Guard) RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		if !g.sessions.IsAuthenticated() {
			c.Redirect(http.StatusFound, g.signIn)
			c.Abort()
			return
		}
		if _, ok := roleSet[g.sessions.Role()]; !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

package guard

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
)

// Watch streams session changes to an open page as server-sent events. When
// the session ends the client gets a "redirect" event carrying the sign-in
// path and the stream closes.
func (g *Guard) Watch(c *gin.Context) {
	changed := make(chan struct{}, 1)
	cancel := g.sessions.Subscribe(func(models.Session) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	if !g.sessions.IsAuthenticated() {
		g.send(c, "redirect", g.signIn)
		return
	}
	g.send(c, "session", "authenticated")

	ticker := time.NewTicker(g.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-g.done:
			return
		case <-ticker.C:
			_, _ = c.Writer.WriteString(": ping\n\n")
			c.Writer.Flush()
		case <-changed:
			if !g.sessions.IsAuthenticated() {
				g.log.Debug().Msg("session ended, redirecting watcher")
				g.send(c, "redirect", g.signIn)
				return
			}
		}
	}
}

func (g *Guard) send(c *gin.Context, event, data string) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}

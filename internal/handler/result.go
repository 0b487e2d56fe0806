package handler

import (
	"net/http"

	"github.com/feedback-board/internal/middleware"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
)

// Result is the outcome of a mutating or gated handler: where to send the
// client and the one-shot status message to show once it gets there.
type Result struct {
	RedirectTo string
	Message    string
	Kind       string
}

// finish consumes a Result at the rendering boundary: the message is queued
// as a flash on the session and the client is redirected.
func finish(c *gin.Context, store session.Store, res Result) {
	if res.Message != "" {
		_ = store.AddFlash(c.Request.Context(), middleware.GetSessionID(c), session.Flash{
			Message: res.Message,
			Kind:    res.Kind,
		})
	}
	c.Redirect(http.StatusFound, res.RedirectTo)
}

// render draws a template with the session's pending flashes and the current
// identity attached to the context data.
func render(c *gin.Context, store session.Store, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	flashes, err := store.PopFlashes(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		flashes = nil
	}
	data["Flashes"] = flashes
	data["CurrentUser"] = middleware.GetUsername(c)

	c.HTML(status, name, data)
}

// renderNotFound draws the error page with a 404 status.
func renderNotFound(c *gin.Context, store session.Store, message string) {
	render(c, store, http.StatusNotFound, "error.html", gin.H{
		"Status":  http.StatusNotFound,
		"Message": message,
	})
}

// renderInternalError draws the error page with a 500 status.
func renderInternalError(c *gin.Context, store session.Store) {
	render(c, store, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong. Please try again.",
	})
}

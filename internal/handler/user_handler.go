package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/feedback-board/internal/middleware"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/internal/service"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile pages and account deletion
type UserHandler struct {
	userService *service.UserService
	sessions    session.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, sessions session.Store) *UserHandler {
	return &UserHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// ShowProfile handles GET /users/:username
// Any authenticated identity may view any profile.
func (h *UserHandler) ShowProfile(c *gin.Context) {
	username := c.Param("username")

	user, feedbacks, err := h.userService.Profile(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			renderNotFound(c, h.sessions, "User "+username+" does not exist.")
			return
		}
		renderInternalError(c, h.sessions)
		return
	}

	render(c, h.sessions, http.StatusOK, "user_detail.html", gin.H{
		"User":      user,
		"Feedbacks": feedbacks,
	})
}

// DeleteUser handles POST /users/:username/delete
// Only the account owner may delete it; deletion cascades to all owned
// feedback and clears every session for the username.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	actor := middleware.GetUsername(c)

	if username != actor {
		finish(c, h.sessions, Result{
			RedirectTo: "/users/" + actor,
			Message:    "You can only delete your own account",
			Kind:       session.KindDanger,
		})
		return
	}

	if err := h.userService.Delete(c.Request.Context(), username); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			renderNotFound(c, h.sessions, "User "+username+" does not exist.")
			return
		}
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/",
		Message:    fmt.Sprintf("User %s deleted!", username),
		Kind:       session.KindInfo,
	})
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/users/:username", requireAuth, h.ShowProfile)
	r.POST("/users/:username/delete", requireAuth, h.DeleteUser)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/feedback-board/internal/forms"
	"github.com/feedback-board/internal/middleware"
	"github.com/feedback-board/internal/models"
	"github.com/feedback-board/internal/repository"
	"github.com/feedback-board/internal/service"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler handles feedback CRUD pages
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	sessions        session.Store
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(feedbackService *service.FeedbackService, sessions session.Store) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		sessions:        sessions,
	}
}

// ShowAdd handles GET /users/:username/feedback/add
func (h *FeedbackHandler) ShowAdd(c *gin.Context) {
	username := c.Param("username")
	if res, ok := h.requireSelf(c, username, "You can only add feedback to your own profile!"); !ok {
		finish(c, h.sessions, res)
		return
	}

	render(c, h.sessions, http.StatusOK, "add_feedback.html", gin.H{
		"Form":     &forms.FeedbackForm{Errors: forms.Errors{}},
		"Username": username,
	})
}

// Add handles POST /users/:username/feedback/add
func (h *FeedbackHandler) Add(c *gin.Context) {
	username := c.Param("username")
	if res, ok := h.requireSelf(c, username, "You can only add feedback to your own profile!"); !ok {
		finish(c, h.sessions, res)
		return
	}

	var form forms.FeedbackForm
	if err := c.ShouldBind(&form); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	if !form.Validate() {
		render(c, h.sessions, http.StatusOK, "add_feedback.html", gin.H{
			"Form":     &form,
			"Username": username,
		})
		return
	}

	if _, err := h.feedbackService.Add(username, form.Title, form.Content); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/users/" + username,
		Message:    "Feedback added!",
		Kind:       session.KindSuccess,
	})
}

// ShowUpdate handles GET /feedback/:id/update
// The form is pre-filled with the existing title and content.
func (h *FeedbackHandler) ShowUpdate(c *gin.Context) {
	feedback, ok := h.lookup(c)
	if !ok {
		return
	}
	if res, owned := h.requireOwner(c, feedback, "You can only update your own feedback"); !owned {
		finish(c, h.sessions, res)
		return
	}

	render(c, h.sessions, http.StatusOK, "update_feedback.html", gin.H{
		"Form": &forms.FeedbackForm{
			Title:   feedback.Title,
			Content: feedback.Content,
			Errors:  forms.Errors{},
		},
		"Feedback": feedback,
	})
}

// Update handles POST /feedback/:id/update
func (h *FeedbackHandler) Update(c *gin.Context) {
	feedback, ok := h.lookup(c)
	if !ok {
		return
	}
	if res, owned := h.requireOwner(c, feedback, "You can only update your own feedback"); !owned {
		finish(c, h.sessions, res)
		return
	}

	var form forms.FeedbackForm
	if err := c.ShouldBind(&form); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	if !form.Validate() {
		render(c, h.sessions, http.StatusOK, "update_feedback.html", gin.H{
			"Form":     &form,
			"Feedback": feedback,
		})
		return
	}

	if err := h.feedbackService.Update(feedback, form.Title, form.Content); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/users/" + feedback.Username,
		Message:    "Feedback updated!",
		Kind:       session.KindSuccess,
	})
}

// Delete handles POST /feedback/:id/delete
func (h *FeedbackHandler) Delete(c *gin.Context) {
	feedback, ok := h.lookup(c)
	if !ok {
		return
	}
	if res, owned := h.requireOwner(c, feedback, "You can only delete your own feedback"); !owned {
		finish(c, h.sessions, res)
		return
	}

	if err := h.feedbackService.Delete(feedback.ID); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/users/" + feedback.Username,
		Message:    "Feedback deleted!",
		Kind:       session.KindInfo,
	})
}

// lookup resolves the :id param to a feedback row, rendering the error page
// itself when the id is malformed or unknown.
func (h *FeedbackHandler) lookup(c *gin.Context) (*models.Feedback, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		renderNotFound(c, h.sessions, "Feedback not found.")
		return nil, false
	}

	feedback, err := h.feedbackService.Get(uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			renderNotFound(c, h.sessions, "Feedback not found.")
		} else {
			renderInternalError(c, h.sessions)
		}
		return nil, false
	}
	return feedback, true
}

// requireSelf checks that the acting identity matches the target username.
// Authentication itself is already guaranteed by the RequireAuth middleware.
func (h *FeedbackHandler) requireSelf(c *gin.Context, username, message string) (Result, bool) {
	actor := middleware.GetUsername(c)
	if username == actor {
		return Result{}, true
	}
	return Result{
		RedirectTo: "/users/" + actor,
		Message:    message,
		Kind:       session.KindDanger,
	}, false
}

// requireOwner checks that the acting identity owns the feedback row.
func (h *FeedbackHandler) requireOwner(c *gin.Context, feedback *models.Feedback, message string) (Result, bool) {
	return h.requireSelf(c, feedback.Username, message)
}

// RegisterRoutes registers feedback routes
func (h *FeedbackHandler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/users/:username/feedback/add", requireAuth, h.ShowAdd)
	r.POST("/users/:username/feedback/add", requireAuth, h.Add)
	r.GET("/feedback/:id/update", requireAuth, h.ShowUpdate)
	r.POST("/feedback/:id/update", requireAuth, h.Update)
	r.POST("/feedback/:id/delete", requireAuth, h.Delete)
}

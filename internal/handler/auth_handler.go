package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/feedback-board/internal/forms"
	"github.com/feedback-board/internal/middleware"
	"github.com/feedback-board/internal/service"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	authService *service.AuthService
	sessions    session.Store
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, sessions session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// ShowRegister handles GET /register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, h.sessions, http.StatusOK, "register.html", gin.H{
		"Form": &forms.RegisterForm{Errors: forms.Errors{}},
	})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var form forms.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	if !form.Validate() {
		render(c, h.sessions, http.StatusOK, "register.html", gin.H{"Form": &form})
		return
	}

	user, err := h.authService.Register(&form)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			form.Errors.Add("username", "Username taken.  Please pick another")
		case errors.Is(err, service.ErrEmailTaken):
			form.Errors.Add("email", "Email already registered.")
		default:
			renderInternalError(c, h.sessions)
			return
		}
		render(c, h.sessions, http.StatusOK, "register.html", gin.H{"Form": &form})
		return
	}

	if err := h.sessions.SetIdentity(c.Request.Context(), middleware.GetSessionID(c), user.Username); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/users/" + user.Username,
		Message:    "Welcome! Successfully Created Your Account!",
		Kind:       session.KindSuccess,
	})
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	render(c, h.sessions, http.StatusOK, "login.html", gin.H{
		"Form": &forms.LoginForm{Errors: forms.Errors{}},
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	if !form.Validate() {
		render(c, h.sessions, http.StatusOK, "login.html", gin.H{"Form": &form})
		return
	}

	user, err := h.authService.Authenticate(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One generic error; unknown username and wrong password
			// are indistinguishable.
			form.Errors.Add("username", "Invalid username/password.")
			render(c, h.sessions, http.StatusOK, "login.html", gin.H{"Form": &form})
			return
		}
		renderInternalError(c, h.sessions)
		return
	}

	if err := h.sessions.SetIdentity(c.Request.Context(), middleware.GetSessionID(c), user.Username); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/users/" + user.Username,
		Message:    fmt.Sprintf("Welcome Back, %s!", user.Username),
		Kind:       session.KindSuccess,
	})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.ClearIdentity(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		renderInternalError(c, h.sessions)
		return
	}

	finish(c, h.sessions, Result{
		RedirectTo: "/",
		Message:    "Goodbye!",
		Kind:       session.KindInfo,
	})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.POST("/logout", requireAuth, h.Logout)
}

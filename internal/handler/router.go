package handler

import (
	"net/http"

	"github.com/feedback-board/internal/config"
	"github.com/feedback-board/internal/middleware"
	"github.com/feedback-board/internal/session"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the full route table. The templates glob points at the
// server-rendered page templates.
func NewRouter(
	sessionCfg config.SessionConfig,
	templatesGlob string,
	store session.Store,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	feedbackHandler *FeedbackHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())

	router.LoadHTMLGlob(templatesGlob)

	router.Use(middleware.SessionMiddleware(store, sessionCfg))
	requireAuth := middleware.RequireAuth(store)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/register")
	})

	authHandler.RegisterRoutes(router, requireAuth)
	userHandler.RegisterRoutes(router, requireAuth)
	feedbackHandler.RegisterRoutes(router, requireAuth)

	return router
}

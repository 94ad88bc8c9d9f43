package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envelopes/internal/auth"
	"envelopes/internal/middleware"
)

// NewRouter builds the Gin engine with all routes and middleware wired.
//
// Creating a user and logging in are the only unauthenticated operations.
// Reads enforce Accept, writes enforce Content-Type, and every route under
// /envelopes and /expenses requires a valid token.
func NewRouter(
	tokens *auth.Manager,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	envelopeHandler *EnvelopeHandler,
	expenseHandler *ExpenseHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth", middleware.ContentTypeJSON(), authHandler.Login)

	users := router.Group("/users")
	users.POST("", middleware.ContentTypeJSON(), userHandler.CreateUser)
	users.GET("", middleware.Auth(tokens), middleware.AcceptJSON(), userHandler.GetUsers)
	users.GET("/:id", middleware.Auth(tokens), middleware.AcceptJSON(), userHandler.GetUser)
	users.PATCH("/:id", middleware.Auth(tokens), middleware.ContentTypeJSON(), userHandler.UpdateUser)
	users.DELETE("/:id", middleware.Auth(tokens), userHandler.DeleteUser)
	users.GET("/:id/envelopes", middleware.Auth(tokens), middleware.AcceptJSON(), userHandler.GetUserEnvelopes)
	users.GET("/:id/expenses", middleware.Auth(tokens), middleware.AcceptJSON(), userHandler.GetUserExpenses)

	envelopes := router.Group("/envelopes")
	envelopes.Use(middleware.Auth(tokens))
	envelopes.POST("", middleware.ContentTypeJSON(), envelopeHandler.CreateEnvelope)
	envelopes.GET("", middleware.AcceptJSON(), envelopeHandler.GetEnvelopes)
	envelopes.GET("/:id", middleware.AcceptJSON(), envelopeHandler.GetEnvelope)
	envelopes.PATCH("/:id", middleware.ContentTypeJSON(), envelopeHandler.UpdateEnvelope)
	envelopes.DELETE("/:id", envelopeHandler.DeleteEnvelope)
	envelopes.GET("/:id/expenses", middleware.AcceptJSON(), envelopeHandler.GetEnvelopeExpenses)
	envelopes.PUT("/:id/expenses/:expenseId", envelopeHandler.AssignExpense)
	envelopes.DELETE("/:id/expenses/:expenseId", envelopeHandler.UnassignExpense)

	expenses := router.Group("/expenses")
	expenses.Use(middleware.Auth(tokens))
	expenses.POST("", middleware.ContentTypeJSON(), expenseHandler.CreateExpense)
	expenses.GET("", middleware.AcceptJSON(), expenseHandler.GetExpenses)
	expenses.GET("/:id", middleware.AcceptJSON(), expenseHandler.GetExpense)
	expenses.PATCH("/:id", middleware.ContentTypeJSON(), expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	return router
}

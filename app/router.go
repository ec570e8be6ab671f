// Package app wires shared HTTP routes for both local and Lambda execution.
package app

import (
	"errors"
	"log"
	"time"

	"github.com/rwforest/chess-eval/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the shared HTTP router for both local and Lambda execution.
// The evaluate route is protected by bearer auth only when AUTH_ISSUER and
// AUTH_AUDIENCE are set; unconfigured it stays public, like the original
// serverless deployment.
func NewRouter() (*gin.Engine, error) {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)

	api := router.Group("/")
	verifier, err := auth.NewVerifierFromEnv()
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		log.Print("auth not configured; /evaluate is public")
	case err != nil:
		return nil, err
	default:
		api.Use(auth.Middleware(verifier))
	}
	api.POST("/evaluate", EvaluateLLMMove)

	return router, nil
}

package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"

	"codeberg.org/promptdesk/server/api/rest/auth"
	"codeberg.org/promptdesk/server/api/rest/health"
	"codeberg.org/promptdesk/server/api/rest/prompts"
	restsessions "codeberg.org/promptdesk/server/api/rest/sessions"
	"codeberg.org/promptdesk/server/api/websocket"
	"codeberg.org/promptdesk/server/internal/config"
	"codeberg.org/promptdesk/server/internal/ratelimit"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware())
	router.GET("/health", health.Handler)

	// rate limiter state lives in Redis when available so limits survive
	// restarts and span replicas
	var redisClient *libredis.Client
	if server.cache != nil {
		redisClient = server.cache.Client()
	}

	rateLimiter, err := ratelimit.Middleware(redisClient)
	if err != nil {
		return err
	}

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, server.userRepo)
		prompts.RegisterRoutes(v1, server.completer, server.sessionStore, server.hub, rateLimiter)
		restsessions.RegisterRoutes(v1, server.sessionStore)
		websocket.RegisterRoutes(v1, server.hub)
	}

	return nil
}

// builds the CORS middleware from ALLOWED_ORIGINS. development allows all
// origins so local frontends can talk to the API without configuration.
func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if origins := config.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	return cors.New(corsConfig)
}

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptdesk/server/internal/completion"
	"codeberg.org/promptdesk/server/internal/config"
	"codeberg.org/promptdesk/server/internal/feed"
	"codeberg.org/promptdesk/server/internal/sessions"
	"codeberg.org/promptdesk/server/internal/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db           *pgxpool.Pool
	config       *config.Config
	userRepo     *users.Repository
	sessionStore sessions.Store
	cache        *sessions.RecentCache
	completer    completion.Completer
	hub          *feed.Hub
	router       *gin.Engine
}

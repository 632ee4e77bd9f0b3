package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/session"
)

// writeError maps service errors onto HTTP responses
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id must be a UUID"})
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, directory.ErrSourceUnavailable):
		log.Error().Err(err).Msg("Seed source unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user list source is unavailable, try again later"})
	case errors.Is(err, session.ErrTooManySessions):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many active sessions, try again later"})
	case errors.Is(err, directory.ErrNotSeeded):
		c.JSON(http.StatusConflict, gin.H{"error": "directory not seeded"})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

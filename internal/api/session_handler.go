package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/service"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(services *service.Services, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		services: services,
		log:      log.With().Str("handler", "session").Logger(),
	}
}

// CreateSession handles POST /v1/sessions
// Seeds a fresh directory; no session is created if the seed source fails
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess, err := h.services.Session.CreateSession(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("session_id", sess.ID).
		Int("count", sess.Count).
		Msg("Session started")

	c.JSON(http.StatusCreated, sess)
}

// EndSession handles DELETE /v1/sessions/:session_id
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.services.Session.EndSession(c.Request.Context(), sessionID); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/models"
	"github.com/user-directory/internal/service"
)

// DirectoryHandler handles search and insert endpoints
type DirectoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(services *service.Services, log zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		services: services,
		log:      log.With().Str("handler", "directory").Logger(),
	}
}

// SearchUsers handles GET /v1/sessions/:session_id/users?q=...&fields=...&format=...
// Without a fields parameter both columns are searched; an empty fields
// parameter searches no column and returns no rows.
func (h *DirectoryHandler) SearchUsers(c *gin.Context) {
	sessionID := c.Param("session_id")
	term := c.Query("q")

	fields := models.SearchableFields
	if raw, ok := c.GetQuery("fields"); ok {
		parsed, unknown := models.ParseFields(raw)
		if len(unknown) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("unknown fields: %s (allowed: name, email)", strings.Join(unknown, ", ")),
			})
			return
		}
		fields = parsed
	}

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: json, csv"})
		return
	}

	resp, err := h.services.Directory.Search(c.Request.Context(), sessionID, term, fields)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if format == "csv" {
		h.writeCSV(c, sessionID, resp.Users)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *DirectoryHandler) writeCSV(c *gin.Context, sessionID string, users []models.User) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=users_%s.csv", sessionID))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{string(models.FieldName), string(models.FieldEmail)})
	for _, u := range users {
		writer.Write([]string{u.Name, u.Email})
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("session_id", sessionID).Msg("CSV write failed")
	}
}

// AddUser handles POST /v1/sessions/:session_id/users
// A rejected input is answered with 422 and echoed back so the caller can
// re-prompt without losing what was typed.
func (h *DirectoryHandler) AddUser(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req models.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.services.Directory.Insert(c.Request.Context(), sessionID, req.Name, req.Email)

	var verr *directory.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
			"errors": verr.Errors,
			"input":  req,
		})
		return
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

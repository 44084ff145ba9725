package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/display"
	"github.com/vovakirdan/left4translate/internal/proto"
	"github.com/vovakirdan/left4translate/internal/store"
)

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 500
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	deps Deps
	log  *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(deps Deps, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		deps: deps,
		log:  logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessagesResponse lists translated entries, newest first.
type MessagesResponse struct {
	Entries []proto.Entry `json:"entries"`
}

// TranscriptRequest is a speech transcript posted by a recognizer.
type TranscriptRequest struct {
	Speaker  string `json:"speaker"`
	Text     string `json:"text" binding:"required,max=2000"`
	Language string `json:"language" binding:"max=35"`
}

// ClassifyRequest carries one raw log line.
type ClassifyRequest struct {
	Line string `json:"line" binding:"required"`
}

// ClassifiedMessage is a chat message extracted from a log line.
type ClassifiedMessage struct {
	Player   string `json:"player"`
	Content  string `json:"content"`
	Team     string `json:"team,omitempty"`
	TeamChat bool   `json:"team_chat"`
}

// ClassifyResponse reports whether a line was chat.
type ClassifyResponse struct {
	Chat    bool               `json:"chat"`
	Message *ClassifiedMessage `json:"message"`
}

// Messages lists recent entries from the history store, or from the overlay
// hub when no store is configured.
// GET /api/messages?limit=&player=&source=&team_only=
func (h *APIHandlers) Messages(c *gin.Context) {
	limit := defaultMessagesLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit", Code: core.ErrCodeBadRequest})
			return
		}
		limit = min(n, maxMessagesLimit)
	}
	teamOnly := c.Query("team_only") == "true" || c.Query("team_only") == "1"

	if h.deps.History == nil {
		h.recentFromHub(c, limit, teamOnly)
		return
	}

	entries, err := h.deps.History.ListEntries(c.Request.Context(), store.EntryQuery{
		Player:   c.Query("player"),
		Source:   c.Query("source"),
		TeamOnly: teamOnly,
		Limit:    limit,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := MessagesResponse{Entries: make([]proto.Entry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryPayload(display.FromStore(e)))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *APIHandlers) recentFromHub(c *gin.Context, limit int, teamOnly bool) {
	entries, err := h.deps.Hub.Recent(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to read recent entries")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "overlay unavailable", Code: core.ErrCodeUnavailable})
		return
	}

	resp := MessagesResponse{Entries: make([]proto.Entry, 0, len(entries))}
	// Hub history is oldest first.
	for i := len(entries) - 1; i >= 0 && len(resp.Entries) < limit; i-- {
		if teamOnly && !entries[i].TeamChat {
			continue
		}
		resp.Entries = append(resp.Entries, entryPayload(entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CacheStats reports translation cache usage.
// GET /api/cache
func (h *APIHandlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Cache.CacheStats())
}

// ClearCache drops every cached translation.
// DELETE /api/cache
func (h *APIHandlers) ClearCache(c *gin.Context) {
	h.deps.Cache.ClearCache()
	h.log.Info().Msg("translation cache cleared")
	c.Status(http.StatusNoContent)
}

// Transcript translates a speech transcript and shows it on every sink.
// POST /api/transcripts
func (h *APIHandlers) Transcript(c *gin.Context) {
	var req TranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid transcript request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: core.ErrCodeBadRequest})
		return
	}

	entry, err := h.deps.Transcripts.HandleTranscript(c.Request.Context(), req.Speaker, req.Text, req.Language)
	if err != nil {
		if errors.Is(err, core.ErrBadRequest) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: core.ErrCodeBadRequest})
			return
		}
		h.log.Error().Err(err).Msg("failed to handle transcript")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "transcript not handled", Code: core.ErrCodeUnavailable})
		return
	}

	c.JSON(http.StatusCreated, entryPayload(entry))
}

// Classify runs one log line through the chat classifier.
// POST /api/classify
func (h *APIHandlers) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: core.ErrCodeBadRequest})
		return
	}

	msg, ok := h.deps.Classifier.Classify(req.Line)
	if !ok {
		c.JSON(http.StatusOK, ClassifyResponse{})
		return
	}
	c.JSON(http.StatusOK, ClassifyResponse{
		Chat: true,
		Message: &ClassifiedMessage{
			Player:   msg.Player,
			Content:  msg.Content,
			Team:     string(msg.Team),
			TeamChat: msg.IsTeamChat(),
		},
	})
}

// Package handler exposes read-only HTTP endpoints for supervisors and
// operators: liveness and sync statistics.
package handler

import (
	"log"
	"net/http"

	"github.com/qwf666/GroupMsgSyncTools/internal/query"

	"github.com/gin-gonic/gin"
)

// Handler holds the query service the endpoints read from.
type Handler struct {
	Query *query.Service
}

func NewHandler(q *query.Service) *Handler {
	return &Handler{Query: q}
}

// Healthz answers liveness probes.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats returns the sync counters as JSON.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Query.Stats()
	if err != nil {
		log.Printf("ERROR: Failed to get stats for HTTP endpoint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

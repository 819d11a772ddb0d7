package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"zenith-npc-service/internal/model"
	"zenith-npc-service/internal/service"
)

// Static service identity reported by the health probe. The probe never
// checks downstream dependencies.
const (
	ServiceName    = "zenith-npc-generator-service"
	ServiceVersion = "1.0.0"
)

// HTTPHandler exposes the generation pipeline over HTTP.
type HTTPHandler struct {
	pipeline *service.Service
	logger   zerolog.Logger
}

// NewHTTPHandler creates the HTTP adapter for the pipeline.
func NewHTTPHandler(pipeline *service.Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		pipeline: pipeline,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

// Router builds the gin engine with all routes registered.
func (h *HTTPHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(h.requestLogger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("panic in handler")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	router.Use(cors.Default())

	router.GET("/health", h.health)
	router.POST("/generate-npc", h.generateSingle)
	router.POST("/generate-npcs", h.generateMultiple)
	router.GET("/npcs", h.listNPCs)
	router.GET("/storage-stats", h.storageStats)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return router
}

func (h *HTTPHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": ServiceName,
		"version": ServiceVersion,
	})
}

func (h *HTTPHandler) generateSingle(c *gin.Context) {
	var req model.GenerationRequest
	// An empty body is a valid unconstrained request.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	req.Count = 1

	npc, id, err := h.pipeline.GenerateSingle(c.Request.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("single NPC generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"npc":      npc,
		"saved_to": id,
	})
}

func (h *HTTPHandler) generateMultiple(c *gin.Context) {
	var req model.GenerationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	result, err := h.pipeline.Generate(c.Request.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Int("requested", result.RequestedCount).Msg("batch NPC generation failed")
		msg := err.Error()
		if errors.Is(err, model.ErrNoRecordsGenerated) {
			msg = model.ErrNoRecordsMessage
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"generated_count": result.GeneratedCount,
		"requested_count": result.RequestedCount,
		"npcs":            result.NPCs,
		"individual_ids":  result.IndividualIDs,
		"collection_id":   result.CollectionID,
	})
}

func (h *HTTPHandler) listNPCs(c *gin.Context) {
	npcs := h.pipeline.ListNPCs(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(npcs),
		"npcs":    npcs,
	})
}

func (h *HTTPHandler) storageStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.pipeline.Stats(c.Request.Context()),
	})
}

// requestLogger logs one line per request with method, path, status and
// latency.
func (h *HTTPHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// CORS opens the inference endpoints to any origin and answers preflight
// requests with an empty 200.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Register mounts POST and OPTIONS for both inference endpoints.
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("")
	g.Use(CORS())
	{
		g.POST("/predict-demand", h.PredictDemand)
		g.OPTIONS("/predict-demand", func(*gin.Context) {})
		g.POST("/analyze-wastage", h.AnalyzeWastage)
		g.OPTIONS("/analyze-wastage", func(*gin.Context) {})
	}
}

// POST /predict-demand
func (h *Handler) PredictDemand(c *gin.Context) {
	task := PredictDemandTask

	var req DemandPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, task.Name, task.FailureMessage, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}

	predictions, err := h.service.PredictDemand(c.Request.Context(), req)
	if err != nil {
		RespondError(c, h.log, task.Name, task.FailureMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{task.ResultField: predictions})
}

// POST /analyze-wastage
func (h *Handler) AnalyzeWastage(c *gin.Context) {
	task := AnalyzeWastageTask

	var req WastageAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, h.log, task.Name, task.FailureMessage, fmt.Errorf("%w: %v", ErrValidation, err))
		return
	}

	analysis, err := h.service.AnalyzeWastage(c.Request.Context(), req)
	if err != nil {
		RespondError(c, h.log, task.Name, task.FailureMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{task.ResultField: analysis})
}

// RespondError writes the {error: message} envelope with the mapped status.
func RespondError(c *gin.Context, log *zap.Logger, tool, fallback string, err error) {
	status := StatusCode(err)

	fields := []zap.Field{
		zap.String("tool", tool),
		zap.Int("status", status),
		zap.Error(err),
	}
	if errors.Is(err, ErrValidation) || status != http.StatusInternalServerError {
		log.Warn("inference request rejected", fields...)
	} else {
		log.Error("inference request failed", fields...)
	}

	c.JSON(status, gin.H{"error": Message(err, fallback)})
}

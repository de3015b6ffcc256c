package analytics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ishaan583/foodshare/internal/llm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func queryDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		return 0
	}
	return days
}

// POST /analytics/meals
func (h *Handler) RecordMeal(c *gin.Context) {
	var req RecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.service.Record(c.Request.Context(), req)
	if errors.Is(err, ErrInvalidRecord) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("record meal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record meal"})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// GET /analytics/summary
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), queryDays(c))
	if err != nil {
		h.log.Error("summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GET /analytics/trends
func (h *Handler) Trends(c *gin.Context) {
	trends, err := h.service.Trends(c.Request.Context(), queryDays(c))
	if err != nil {
		h.log.Error("trends failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build trends"})
		return
	}

	c.JSON(http.StatusOK, trends)
}

// POST /analytics/analyze
func (h *Handler) Analyze(c *gin.Context) {
	task := llm.AnalyzeWastageTask

	analysis, data, err := h.service.Analyze(c.Request.Context(), queryDays(c))
	if errors.Is(err, ErrNoData) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		llm.RespondError(c, h.log, task.Name, task.FailureMessage, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		task.ResultField: analysis,
		"historicalData": data,
	})
}

package donation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Ishaan583/foodshare/internal/auth"

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

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, action string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotAvailable), errors.Is(err, ErrNotReserved):
		status = http.StatusConflict
	case errors.Is(err, ErrExpired):
		status = http.StatusGone
	case errors.Is(err, ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPhotoExtension):
		status = http.StatusBadRequest
	case errors.Is(err, ErrStorageOff):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.log.Error(action+" failed", zap.Error(err))
		c.JSON(status, gin.H{"error": action + " failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// POST /donations
func (h *Handler) Create(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	d, err := h.service.Create(c.Request.Context(), c.GetString(auth.ContextUserID), req)
	if err != nil {
		h.respondError(c, "create donation", err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// GET /donations/mine
func (h *Handler) ListMine(c *gin.Context) {
	donations, err := h.service.ListMine(c.Request.Context(), c.GetString(auth.ContextUserID), queryLimit(c))
	if err != nil {
		h.respondError(c, "list donations", err)
		return
	}

	c.JSON(http.StatusOK, donations)
}

// GET /donations/impact
func (h *Handler) Impact(c *gin.Context) {
	impact, err := h.service.Impact(c.Request.Context(), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, "load impact", err)
		return
	}

	c.JSON(http.StatusOK, impact)
}

// GET /donations/available
func (h *Handler) ListAvailable(c *gin.Context) {
	listings, err := h.service.ListAvailable(c.Request.Context(), queryLimit(c))
	if err != nil {
		h.respondError(c, "list available donations", err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// POST /donations/:id/request
func (h *Handler) Request(c *gin.Context) {
	d, err := h.service.Request(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, "request donation", err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// POST /donations/:id/pickup
func (h *Handler) ConfirmPickup(c *gin.Context) {
	d, err := h.service.ConfirmPickup(c.Request.Context(), c.Param("id"), c.GetString(auth.ContextUserID))
	if err != nil {
		h.respondError(c, "confirm pickup", err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// POST /donations/:id/photo
func (h *Handler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read photo"})
		return
	}
	defer file.Close()

	url, err := h.service.AttachPhoto(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(auth.ContextUserID),
		fileHeader.Filename,
		file,
	)
	if err != nil {
		h.respondError(c, "upload photo", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

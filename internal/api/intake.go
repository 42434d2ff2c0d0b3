package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proteintrack/backend/internal/service"
)

// maxPhotoSize caps meal photo uploads at 5MB.
const maxPhotoSize = 5 << 20

type IntakeHandler struct {
	intakeService *service.IntakeService
	photoService  *service.PhotoService
}

func NewIntakeHandler(intakeService *service.IntakeService, photoService *service.PhotoService) *IntakeHandler {
	return &IntakeHandler{
		intakeService: intakeService,
		photoService:  photoService,
	}
}

func (h *IntakeHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.LogEntry)
		entries.DELETE("/:id", h.RemoveEntry)
		entries.POST("/:id/photo", h.UploadPhoto)
	}
	intake := router.Group("/intake")
	{
		intake.GET("", h.ListDays)
		intake.GET("/:date", h.GetDay)
	}
}

func (h *IntakeHandler) LogEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	foodItemID, err := uuid.Parse(req.FoodItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food item ID"})
		return
	}

	entry, err := h.intakeService.LogEntry(c.Request.Context(), userID, foodItemID, req.AmountGrams, req.MealType, req.Date)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *IntakeHandler) RemoveEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.intakeService.RemoveEntry(c.Request.Context(), userID, entryID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry removed"})
}

// UploadPhoto attaches a meal photo to one of the user's entries.
func (h *IntakeHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be smaller than 5MB"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}

	url, err := h.photoService.AttachMealPhoto(c.Request.Context(), userID, entryID, data, header.Header.Get("Content-Type"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

func (h *IntakeHandler) GetDay(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.intakeService.GetDay(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *IntakeHandler) ListDays(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	days, err := h.intakeService.ListDays(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/contactbook/contactbook/internal/dto"
	apperrors "github.com/contactbook/contactbook/internal/errors"
	"github.com/contactbook/contactbook/internal/middleware"
	"github.com/contactbook/contactbook/internal/service"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List returns the caller's contacts with pagination and optional
// case-insensitive substring filters.
func (h *ContactHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrInvalidToken.Message})
		return
	}

	var filter dto.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), userID, &filter)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// UpcomingBirthdays returns contacts with a birthday in the next 7 days,
// today and day seven inclusive.
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrInvalidToken.Message})
		return
	}

	contacts, err := h.contactService.UpcomingBirthdays(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	userID, contactID, ok := h.pathParams(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), userID, contactID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrInvalidToken.Message})
		return
	}

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	userID, contactID, ok := h.pathParams(c)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), userID, contactID, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	userID, contactID, ok := h.pathParams(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Delete(c.Request.Context(), userID, contactID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), gin.H{"message": apperrors.GetErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) pathParams(c *gin.Context) (userID, contactID uint, ok bool) {
	userID, ok = middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": apperrors.ErrInvalidToken.Message})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid contact id"})
		return 0, 0, false
	}

	return userID, uint(id), true
}

package api

import (
	"strconv"

	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"
	"cashbook/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BusinessHandler serves the business list, creation and switching.
type BusinessHandler struct {
	sessions service.SessionStore
}

// NewBusinessHandler creates the business handler.
func NewBusinessHandler(sessions service.SessionStore) *BusinessHandler {
	return &BusinessHandler{sessions: sessions}
}

// CreateBusinessRequest is the business creation payload. Lookup references
// are optional.
type CreateBusinessRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=120"`
	CategoryID     *uint  `json:"category_id"`
	BusinessTypeID *uint  `json:"business_type_id"`
}

// List returns the caller's memberships with businesses resolved.
func (h *BusinessHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var memberships []models.Membership
	if err := database.DB.Preload("Business").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, memberships)
}

// Lookups returns the business categories and types for the creation form.
func (h *BusinessHandler) Lookups(c *gin.Context) {
	var categories []models.BusinessCategory
	var types []models.BusinessType
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if err := database.DB.Order("name ASC").Find(&types).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, gin.H{
		"categories":     categories,
		"business_types": types,
	})
}

// Create creates a business, grants the creator OWNER and selects it.
func (h *BusinessHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var existing models.Business
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		BadRequest(c, "a business with this name already exists")
		return
	}

	business := models.Business{
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		BusinessTypeID: req.BusinessTypeID,
	}
	if err := database.DB.Create(&business).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create business failed"))
		return
	}

	membership := models.Membership{
		UserID:     userID,
		BusinessID: business.ID,
		Role:       models.RoleOwner,
	}
	if err := database.DB.Create(&membership).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create membership failed"))
		return
	}

	if err := h.sessions.SetActiveBusiness(c.Request.Context(), userID, business.ID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("select new business failed")
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"business_id": business.ID,
	}).Info("business created")
	SuccessWithMessage(c, "business created and you are OWNER", gin.H{
		"business": business,
		"redirect": "dashboard",
	})
}

// Switch selects a business the caller belongs to and reports the
// role-appropriate landing view.
func (h *BusinessHandler) Switch(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid business id")
		return
	}
	bizID := uint(id64)

	var membership models.Membership
	if err := database.DB.Where("user_id = ? AND business_id = ?", userID, bizID).
		First(&membership).Error; err != nil {
		Forbidden(c, "you are not a member of this business")
		return
	}

	if err := h.sessions.SetActiveBusiness(c.Request.Context(), userID, bizID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("set selection failed")
		InternalError(c, "switch failed")
		return
	}

	// OWNER/ADMIN land on the dashboard, STAFF on the transaction list.
	redirect := "transactions"
	if membership.Role == models.RoleOwner || membership.Role == models.RoleAdmin {
		redirect = "dashboard"
	}

	Success(c, gin.H{
		"business_id": bizID,
		"role":        membership.Role,
		"redirect":    redirect,
	})
}

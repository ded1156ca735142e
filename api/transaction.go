package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cashbook/config"
	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TransactionHandler serves the listing and the two recording flows.
type TransactionHandler struct {
	cfg *config.Config
}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler(cfg *config.Config) *TransactionHandler {
	return &TransactionHandler{cfg: cfg}
}

// CreateTransactionRequest is the recording form. Amount is accepted as raw
// text; kind and creator are stamped server-side.
type CreateTransactionRequest struct {
	BusinessID uint   `form:"business_id" binding:"required"`
	CategoryID uint   `form:"category_id" binding:"required"`
	Amount     string `form:"amount" binding:"required,max=40"`
	Details    string `form:"details" binding:"omitempty,max=240"`
	Date       string `form:"date" binding:"required"`
}

// List returns the active business's transactions with category and creator
// resolved, newest first. Query params: period, date_from, date_to, kind.
func (h *TransactionHandler) List(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)

	r := resolveDateFilter(c)

	query := database.DB.Preload("Category").Preload("CreatedBy").
		Where("business_id = ?", bizID)
	if r.From != nil {
		query = query.Where("date >= ?", r.From)
	}
	if r.To != nil {
		query = query.Where("date <= ?", r.To)
	}
	if kind := c.Query("kind"); models.ValidKind(kind) {
		query = query.Where("kind = ?", kind)
	}

	var transactions []models.Transaction
	if err := query.Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	// Categories feed the record-transaction forms on the same page.
	var categories []models.TransactionCategory
	if err := database.DB.Where("business_id = ?", bizID).Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	membership := middleware.GetMembership(c)

	Success(c, gin.H{
		"transactions": transactions,
		"categories":   categories,
		"current_role": membership.Role,
	})
}

// CreateCashIn records a cash-in entry. OWNER/ADMIN only (gated in the
// router's role table).
func (h *TransactionHandler) CreateCashIn(c *gin.Context) {
	h.create(c, models.KindCashIn, "cash in recorded")
}

// CreateCashOut records a cash-out entry. STAFF/OWNER only (gated in the
// router's role table).
func (h *TransactionHandler) CreateCashOut(c *gin.Context) {
	h.create(c, models.KindCashOut, "cash out recorded")
}

func (h *TransactionHandler) create(c *gin.Context, kind, successMessage string) {
	userID := middleware.GetCurrentUserID(c)
	bizID := middleware.GetBusinessID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	// Never trust the submitted business: it must match the selection.
	if req.BusinessID != bizID {
		Forbidden(c, "wrong business selected")
		return
	}

	var category models.TransactionCategory
	if err := database.DB.Where("id = ? AND business_id = ?", req.CategoryID, bizID).
		First(&category).Error; err != nil {
		BadRequest(c, "invalid category for this business")
		return
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		BadRequest(c, "invalid date, expected format: 2006-01-02")
		return
	}

	photoPath, err := h.savePhoto(c)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "photo upload failed"))
		return
	}

	tx := models.Transaction{
		BusinessID:  bizID,
		CategoryID:  category.ID,
		Kind:        kind,
		Amount:      strings.TrimSpace(req.Amount),
		Details:     req.Details,
		Photo:       photoPath,
		Date:        date,
		CreatedByID: userID,
	}

	if err := database.DB.Create(&tx).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "create transaction failed"))
		return
	}

	logrus.WithFields(logrus.Fields{
		"business_id":    bizID,
		"transaction_id": tx.ID,
		"kind":           kind,
	}).Info("transaction recorded")
	SuccessWithMessage(c, successMessage, tx)
}

// savePhoto stores an optional uploaded photo under the media dir and returns
// its relative path, "" when no photo was sent.
func (h *TransactionHandler) savePhoto(c *gin.Context) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return "", nil
	}
	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	rel := filepath.Join("transactions", name)
	if err := c.SaveUploadedFile(file, filepath.Join(h.cfg.Media.UploadDir, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

// CreateCategoryRequest is the inline category creation payload.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Kind string `json:"kind" binding:"required"`
}

// CreateCategory creates a transaction category for the active business.
// Meant to be called from the recording forms, so it answers with a
// structured success/error body instead of a full page.
func (h *TransactionHandler) CreateCategory(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"form": SafeErrorMessage(err, "invalid request")},
		})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"name": "name must not be empty"},
		})
		return
	}
	if !models.ValidCategoryKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"kind": "kind must be INCOME or EXPENSE"},
		})
		return
	}

	var existing models.TransactionCategory
	if err := database.DB.Where("business_id = ? AND name = ? AND kind = ?", bizID, req.Name, req.Kind).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  gin.H{"name": "category already exists for this business"},
		})
		return
	}

	category := models.TransactionCategory{
		BusinessID: bizID,
		Name:       req.Name,
		Kind:       req.Kind,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": SafeErrorMessage(err, "create category failed"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"category_id":   category.ID,
		"category_name": category.Name,
		"message":       "category created",
	})
}

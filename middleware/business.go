package middleware

import (
	"net/http"

	"cashbook/database"
	"cashbook/models"
	"cashbook/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Operation names gate every business-scoped endpoint through one role table
// instead of ad-hoc checks inside each handler.
const (
	OpDashboardView   = "dashboard.view"
	OpTransactionList = "transactions.list"
	OpCashInCreate    = "transactions.cash_in.create"
	OpCashOutCreate   = "transactions.cash_out.create"
	OpCategoryCreate  = "transactions.category.create"
	OpExportExcel     = "export.excel"
	OpExportPDF       = "export.pdf"
	OpMemberAdd       = "members.add"
)

// operationRoles is the declarative operation -> allowed-role-set policy.
var operationRoles = map[string][]string{
	OpDashboardView:   {models.RoleOwner, models.RoleAdmin},
	OpTransactionList: {models.RoleOwner, models.RoleAdmin, models.RoleStaff},
	OpCashInCreate:    {models.RoleOwner, models.RoleAdmin},
	OpCashOutCreate:   {models.RoleStaff, models.RoleOwner},
	OpCategoryCreate:  {models.RoleOwner, models.RoleAdmin, models.RoleStaff},
	OpExportExcel:     {models.RoleOwner, models.RoleAdmin, models.RoleStaff},
	OpExportPDF:       {models.RoleOwner, models.RoleAdmin, models.RoleStaff},
	OpMemberAdd:       {models.RoleOwner, models.RoleAdmin},
}

// AllowedRoles exposes the policy for an operation.
func AllowedRoles(op string) []string {
	return operationRoles[op]
}

// RequireBusiness fails with 403 unless the caller has an active business
// selection and a membership in it. On success the selection and membership
// are stashed in the context for the handler.
func RequireBusiness(store service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)

		bizID, err := store.GetActiveBusiness(c.Request.Context(), userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("session store lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "session lookup failed",
			})
			return
		}
		if bizID == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "select a business first",
			})
			return
		}

		var membership models.Membership
		if err := database.DB.Where("user_id = ? AND business_id = ?", userID, bizID).
			First(&membership).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "no membership for this business",
			})
			return
		}

		c.Set("businessID", bizID)
		c.Set("membership", membership)
		c.Next()
	}
}

// RequireOperation fails with 403 unless the caller's role for the active
// business is in the operation's allowed set. Must run after RequireBusiness.
func RequireOperation(op string) gin.HandlerFunc {
	allowed := operationRoles[op]
	return func(c *gin.Context) {
		membership := GetMembership(c)
		for _, role := range allowed {
			if membership.Role == role {
				c.Next()
				return
			}
		}
		logrus.WithFields(logrus.Fields{
			"user_id":     membership.UserID,
			"business_id": membership.BusinessID,
			"role":        membership.Role,
			"operation":   op,
		}).Warn("operation denied")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "insufficient role",
		})
	}
}

// GetBusinessID returns the active business id set by RequireBusiness.
func GetBusinessID(c *gin.Context) uint {
	if v, ok := c.Get("businessID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetMembership returns the caller's membership set by RequireBusiness.
func GetMembership(c *gin.Context) models.Membership {
	if v, ok := c.Get("membership"); ok {
		if m, ok := v.(models.Membership); ok {
			return m
		}
	}
	return models.Membership{}
}

package api

import (
	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MemberHandler serves team membership management.
type MemberHandler struct{}

// NewMemberHandler creates the member handler.
func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

// AddMemberRequest invites an existing account into the active business.
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// Add creates a membership for an existing user. The assignable roles are
// capped one tier below the assigner: OWNER grants ADMIN or STAFF, ADMIN
// grants STAFF only, OWNER is never grantable here.
func (h *MemberHandler) Add(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)
	membership := middleware.GetMembership(c)

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.CanAssign(membership.Role, req.Role) {
		Forbidden(c, "you cannot assign this role")
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		BadRequest(c, "user with this email does not exist, please ask them to register first")
		return
	}

	var existing models.Membership
	if err := database.DB.Where("user_id = ? AND business_id = ?", user.ID, bizID).
		First(&existing).Error; err == nil {
		BadRequest(c, "this user is already a member of this business")
		return
	}

	// Concurrent submissions can both pass the precheck; the unique
	// (user, business) index is the backstop.
	newMembership := models.Membership{
		UserID:     user.ID,
		BusinessID: bizID,
		Role:       req.Role,
	}
	if err := database.DB.Create(&newMembership).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "add member failed"))
		return
	}

	logrus.WithFields(logrus.Fields{
		"business_id": bizID,
		"user_id":     user.ID,
		"role":        req.Role,
	}).Info("member added")
	SuccessWithMessage(c, "successfully added "+user.FullName()+" as "+req.Role, gin.H{
		"membership": newMembership,
		"redirect":   "dashboard",
	})
}

package api

import (
	"sort"

	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DashboardHandler aggregates a business's transactions for the overview.
type DashboardHandler struct{}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// monthBucket accumulates per-month cash-in/out sums for the chart.
type monthBucket struct {
	in  decimal.Decimal
	out decimal.Decimal
}

// Get returns totals, the month-bucketed series, the 10 most recent
// transactions and the team roster for the active business.
// Query params: period, date_from, date_to.
func (h *DashboardHandler) Get(c *gin.Context) {
	bizID := middleware.GetBusinessID(c)

	var business models.Business
	if err := database.DB.First(&business, bizID).Error; err != nil {
		NotFound(c, "business not found")
		return
	}

	r := resolveDateFilter(c)

	query := database.DB.Model(&models.Transaction{}).Where("business_id = ?", bizID)
	if r.From != nil {
		query = query.Where("date >= ?", r.From)
	}
	if r.To != nil {
		query = query.Where("date <= ?", r.To)
	}

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	// Amounts are free text; rows that fail numeric coercion are skipped
	// from every aggregate without surfacing an error.
	totalIn := decimal.Zero
	totalOut := decimal.Zero
	buckets := make(map[string]*monthBucket)

	for _, tx := range transactions {
		amount, ok := models.ParseAmount(tx.Amount)
		if !ok {
			continue
		}
		label := tx.Date.Format("2006-01")
		b := buckets[label]
		if b == nil {
			b = &monthBucket{}
			buckets[label] = b
		}
		switch tx.Kind {
		case models.KindCashIn:
			totalIn = totalIn.Add(amount)
			b.in = b.in.Add(amount)
		case models.KindCashOut:
			totalOut = totalOut.Add(amount)
			b.out = b.out.Add(amount)
		}
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	dataIn := make([]float64, len(labels))
	dataOut := make([]float64, len(labels))
	for i, label := range labels {
		dataIn[i] = buckets[label].in.InexactFloat64()
		dataOut[i] = buckets[label].out.InexactFloat64()
	}

	// Recent preview ignores the active filter on purpose.
	var recent []models.Transaction
	if err := database.DB.Preload("Category").Preload("CreatedBy").
		Where("business_id = ?", bizID).
		Order("date DESC, id DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	var team []models.Membership
	if err := database.DB.Preload("User").
		Where("business_id = ?", bizID).
		Find(&team).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	SortTeamRoster(team)

	membership := middleware.GetMembership(c)

	Success(c, gin.H{
		"business":            business,
		"total_in":            totalIn,
		"total_out":           totalOut,
		"balance":             totalIn.Sub(totalOut),
		"labels":              labels,
		"data_in":             dataIn,
		"data_out":            dataOut,
		"recent_transactions": recent,
		"team_members":        team,
		"current_role":        membership.Role,
		"can_add_members":     models.RoleRank(membership.Role) >= models.RoleRank(models.RoleAdmin),
	})
}

// SortTeamRoster orders memberships by privilege (OWNER, ADMIN, STAFF), then
// by the member's given and family name.
func SortTeamRoster(team []models.Membership) {
	sort.SliceStable(team, func(i, j int) bool {
		ri, rj := models.RoleRank(team[i].Role), models.RoleRank(team[j].Role)
		if ri != rj {
			return ri > rj
		}
		if team[i].User.FirstName != team[j].User.FirstName {
			return team[i].User.FirstName < team[j].User.FirstName
		}
		return team[i].User.LastName < team[j].User.LastName
	})
}

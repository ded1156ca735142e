package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashbook/database"
	"cashbook/models"
	"cashbook/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func newGateRouter(store service.SessionStore, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.Use(RequireBusiness(store))
	chain := append(handlers, func(c *gin.Context) {
		c.String(200, "ok")
	})
	router.GET("/guarded", chain...)
	return router
}

func TestRequireBusinessNoSelection(t *testing.T) {
	store := service.NewMemorySessionStore()
	router := newGateRouter(store)

	req := httptest.NewRequest("GET", "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "select a business first")
}

func TestRequireBusinessNoMembership(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	store := service.NewMemorySessionStore()
	require.NoError(t, store.SetActiveBusiness(context.Background(), 1, 5))

	// membership lookup comes back empty
	mock.ExpectQuery("SELECT .* FROM `memberships`").
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "business_id", "role"}))

	router := newGateRouter(store)

	req := httptest.NewRequest("GET", "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no membership")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireBusinessStashesMembership(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	store := service.NewMemorySessionStore()
	require.NoError(t, store.SetActiveBusiness(context.Background(), 1, 5))

	mock.ExpectQuery("SELECT .* FROM `memberships`").
		WithArgs(1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "business_id", "role"}).
			AddRow(10, 1, 5, models.RoleAdmin))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.Use(RequireBusiness(store))
	router.GET("/guarded", func(c *gin.Context) {
		assert.Equal(t, uint(5), GetBusinessID(c))
		assert.Equal(t, models.RoleAdmin, GetMembership(c).Role)
		c.String(200, "ok")
	})

	req := httptest.NewRequest("GET", "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireOperationRoleTable(t *testing.T) {
	cases := []struct {
		name string
		op   string
		role string
		want int
	}{
		{"staff cannot view dashboard", OpDashboardView, models.RoleStaff, http.StatusForbidden},
		{"admin views dashboard", OpDashboardView, models.RoleAdmin, http.StatusOK},
		{"staff cannot record cash in", OpCashInCreate, models.RoleStaff, http.StatusForbidden},
		{"admin records cash in", OpCashInCreate, models.RoleAdmin, http.StatusOK},
		{"admin cannot record cash out", OpCashOutCreate, models.RoleAdmin, http.StatusForbidden},
		{"staff records cash out", OpCashOutCreate, models.RoleStaff, http.StatusOK},
		{"owner records cash out", OpCashOutCreate, models.RoleOwner, http.StatusOK},
		{"staff cannot add members", OpMemberAdd, models.RoleStaff, http.StatusForbidden},
		{"staff exports excel", OpExportExcel, models.RoleStaff, http.StatusOK},
		{"unknown role denied", OpTransactionList, "INTERN", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Set("businessID", uint(5))
				c.Set("membership", models.Membership{UserID: 1, BusinessID: 5, Role: tc.role})
			})
			router.GET("/op", RequireOperation(tc.op), func(c *gin.Context) {
				c.String(200, "ok")
			})

			req := httptest.NewRequest("GET", "/op", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAllowedRoles(t *testing.T) {
	assert.ElementsMatch(t, []string{models.RoleOwner, models.RoleAdmin}, AllowedRoles(OpDashboardView))
	assert.ElementsMatch(t, []string{models.RoleStaff, models.RoleOwner}, AllowedRoles(OpCashOutCreate))
	assert.Empty(t, AllowedRoles("unknown.op"))
}

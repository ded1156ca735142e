package api

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"cashbook/config"
	"cashbook/database"
	"cashbook/middleware"
	"cashbook/models"
	"cashbook/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Media:  config.MediaConfig{UploadDir: "./testdata"},
	}
}

func initTestAuth(t *testing.T) *config.Config {
	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })
	return cfg
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// setBusinessContext stands in for RequireBusiness in handler tests.
func setBusinessContext(bizID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("businessID", bizID)
		c.Set("membership", models.Membership{UserID: 1, BusinessID: bizID, Role: role})
		c.Next()
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := initTestAuth(t)

	// username free
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// email free
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", NewAuthHandler(cfg, service.NewMemorySessionStore()).Signup)

	body := `{"username":"newuser","email":"new@example.com","password":"secret123","first_name":"New"}`
	req := httptest.NewRequest("POST", "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	// auto-login: a token comes back
	assert.Contains(t, w.Body.String(), "token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Signup_DuplicateUsername(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := initTestAuth(t)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(7, "taken"))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup", NewAuthHandler(cfg, service.NewMemorySessionStore()).Signup)

	body := `{"username":"taken","email":"x@example.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/signup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "username already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := initTestAuth(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("ada", "ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(1, "ada", "ada@example.com", string(hash)))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, service.NewMemorySessionStore()).Login)

	body := `{"username":"ada","password":"secret123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	cfg := initTestAuth(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("ada", "ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(1, "ada", "ada@example.com", string(hash)))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg, service.NewMemorySessionStore()).Login)

	body := `{"username":"ada","password":"wrong"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout_ClearsSelection(t *testing.T) {
	cfg := initTestAuth(t)

	store := service.NewMemorySessionStore()
	require.NoError(t, store.SetActiveBusiness(context.Background(), 1, 42))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/logout", NewAuthHandler(cfg, store).Logout)

	req := httptest.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	id, _ := store.GetActiveBusiness(context.Background(), 1)
	assert.Equal(t, uint(0), id)
}

package handlers

import (
	"fmt"
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/services"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int

// setupTestDB 用内存 sqlite 替换全局连接，每个测试独立一份
func setupTestDB(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testDBCounter++
	dsn := fmt.Sprintf("file:handlerdb%d?mode=memory&cache=shared", testDBCounter)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	db.DB = conn
}

func createTestUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := models.User{
		FirstName:   "Test",
		Email:       email,
		Password:    "x",
		Role:        "user",
		IsActivated: true,
		LastUpdated: services.Today(),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func createTestPost(t *testing.T, userID uint) *models.Post {
	t.Helper()
	post := models.Post{
		Pid:    utils.RandStringBytesMaskImpr(8),
		UserID: userID,
		Title:  "test post",
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return &post
}

// asUser 在上下文里放入已登录用户，替代 session 中间件
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CheckUserKey, user)
	}
}

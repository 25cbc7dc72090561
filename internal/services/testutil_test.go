package services

import (
	"fmt"
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int

// setupTestDB 用内存 sqlite 替换全局连接，每个测试独立一份
func setupTestDB(t *testing.T) {
	t.Helper()

	testDBCounter++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter)
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
		LastUpdated: Today(),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &user
}

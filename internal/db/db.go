package db

import (
	"log"
	"os"

	"eduvault/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=eduvault port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedAdmin()
}

// Migrate 建表，抽出来供测试用内存库复用
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Class{},
		&models.ClassInterest{},
		&models.InstructorRating{},
		&models.BalanceLog{},
		&models.BalanceSnapshot{},
		&models.InterestGrant{},
		&models.TeachingRecord{},
		&models.Notification{},
		&models.Report{},
	)
}

func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		return
	}

	// 把指定邮箱提升为管理员（账号需已注册）
	result := DB.Model(&models.User{}).Where("email = ?", email).Update("role", "admin")
	if result.Error != nil {
		log.Printf("Failed to promote admin %s: %v", email, result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Admin role granted to %s", email)
	}
}

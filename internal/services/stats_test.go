package services

import (
	"math"
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"
)

func TestUpdateClassStatsSync(t *testing.T) {
	setupTestDB(t)
	instructor := createTestUser(t, "teacher@example.com")
	alice := createTestUser(t, "alice@example.com")
	bob := createTestUser(t, "bob@example.com")

	class := models.Class{
		ClassID:   "stats-class-1",
		ClassName: "Algebra Basics",
		ProcterID: instructor.ID,
	}
	if err := db.DB.Create(&class).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}

	if err := db.DB.Create(&models.ClassInterest{UserID: alice.ID, ClassID: class.ID}).Error; err != nil {
		t.Fatalf("create interest: %v", err)
	}
	if err := db.DB.Create(&models.ClassInterest{UserID: bob.ID, ClassID: class.ID}).Error; err != nil {
		t.Fatalf("create interest: %v", err)
	}
	if _, err := SubmitRating(alice.ID, instructor.ID, 4); err != nil {
		t.Fatalf("submit rating: %v", err)
	}
	if _, err := SubmitRating(bob.ID, instructor.ID, 5); err != nil {
		t.Fatalf("submit rating: %v", err)
	}

	UpdateClassStatsSync(class.ID)

	var fresh models.Class
	if err := db.DB.First(&fresh, class.ID).Error; err != nil {
		t.Fatalf("reload class: %v", err)
	}
	if fresh.InterestedCount != 2 {
		t.Errorf("expected interested count 2, got %d", fresh.InterestedCount)
	}
	if math.Abs(fresh.ProctorRating-4.5) > 1e-9 {
		t.Errorf("expected rating snapshot 4.5, got %v", fresh.ProctorRating)
	}
}

func TestUpdateClassStatsSyncMissingClass(t *testing.T) {
	setupTestDB(t)

	// 不存在的课程不 panic，只记日志
	UpdateClassStatsSync(99999)
}

package services

import (
	"math"
	"testing"
)

func TestSubmitRatingValidation(t *testing.T) {
	setupTestDB(t)
	rater := createTestUser(t, "rater@example.com")
	instructor := createTestUser(t, "instructor@example.com")

	if _, err := SubmitRating(rater.ID, instructor.ID, 0.5); err != ErrRatingOutOfRange {
		t.Errorf("expected out of range error, got %v", err)
	}
	if _, err := SubmitRating(rater.ID, instructor.ID, 5.5); err != ErrRatingOutOfRange {
		t.Errorf("expected out of range error, got %v", err)
	}
	if _, err := SubmitRating(instructor.ID, instructor.ID, 4); err != ErrRateSelf {
		t.Errorf("expected self rating error, got %v", err)
	}
}

func TestSubmitRatingUpsertAndAverage(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com")
	bob := createTestUser(t, "bob@example.com")
	instructor := createTestUser(t, "prof@example.com")

	avg, err := SubmitRating(alice.ID, instructor.ID, 4)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if avg != 4 {
		t.Errorf("expected avg 4, got %v", avg)
	}

	avg, _ = SubmitRating(bob.ID, instructor.ID, 5)
	if avg != 4.5 {
		t.Errorf("expected avg 4.5, got %v", avg)
	}

	// 重复评分走覆盖，不新增行
	avg, _ = SubmitRating(alice.ID, instructor.ID, 2)
	if math.Abs(avg-3.5) > 1e-9 {
		t.Errorf("expected avg 3.5 after update, got %v", avg)
	}

	fresh := reloadUser(t, instructor.ID)
	if math.Abs(fresh.AverageRating-3.5) > 1e-9 {
		t.Errorf("denormalized average should follow, got %v", fresh.AverageRating)
	}
}

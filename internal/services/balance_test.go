package services

import (
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"
)

func TestGrantViewOrLikeBonus(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "author@example.com")

	// 浏览量不在里程碑上，不发放
	granted, err := GrantViewOrLikeBonus(user.ID, 99, 1)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != 0 {
		t.Errorf("expected no grant at views=99, got %d", granted)
	}

	// 浏览量是 100 的倍数，发 5 分
	granted, err = GrantViewOrLikeBonus(user.ID, 100, 1)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != ViewLikeBonusPoints {
		t.Errorf("expected %d points, got %d", ViewLikeBonusPoints, granted)
	}

	// 点赞量是 25 的倍数也触发
	granted, _ = GrantViewOrLikeBonus(user.ID, 3, 25)
	if granted != ViewLikeBonusPoints {
		t.Errorf("expected %d points on like milestone, got %d", ViewLikeBonusPoints, granted)
	}

	fresh := reloadUser(t, user.ID)
	if fresh.Balance != 10 || fresh.DailyBalance != 10 {
		t.Errorf("expected balance 10/10, got %d/%d", fresh.Balance, fresh.DailyBalance)
	}

	// 流水和快照都应落库
	var logs int64
	db.DB.Model(&models.BalanceLog{}).Where("user_id = ?", user.ID).Count(&logs)
	if logs != 2 {
		t.Errorf("expected 2 balance logs, got %d", logs)
	}
	var snaps int64
	db.DB.Model(&models.BalanceSnapshot{}).Where("user_id = ?", user.ID).Count(&snaps)
	if snaps != 2 {
		t.Errorf("expected 2 snapshots, got %d", snaps)
	}
}

func TestDailyCapClampsGrant(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "capped@example.com")

	// 已领 248，再触发里程碑只能拿 2
	db.DB.Model(user).Updates(map[string]interface{}{
		"daily_balance": DailyCap - 2,
		"balance":       DailyCap - 2,
	})

	granted, err := GrantViewOrLikeBonus(user.ID, 200, 0)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != 2 {
		t.Errorf("expected clamped grant of 2, got %d", granted)
	}

	fresh := reloadUser(t, user.ID)
	if fresh.DailyBalance != DailyCap {
		t.Errorf("daily balance should sit at cap, got %d", fresh.DailyBalance)
	}

	// 到顶后不再发放
	granted, _ = GrantViewOrLikeBonus(user.ID, 300, 0)
	if granted != 0 {
		t.Errorf("expected no grant at cap, got %d", granted)
	}
}

func TestRolloverResetsDailyBalance(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "rollover@example.com")

	// 昨天已领满，今天应重新开始
	db.DB.Model(user).Updates(map[string]interface{}{
		"daily_balance": DailyCap,
		"balance":       DailyCap,
		"last_updated":  "2000-01-01",
	})

	granted, err := GrantViewOrLikeBonus(user.ID, 100, 0)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != ViewLikeBonusPoints {
		t.Errorf("expected full grant after rollover, got %d", granted)
	}

	fresh := reloadUser(t, user.ID)
	if fresh.DailyBalance != ViewLikeBonusPoints {
		t.Errorf("daily balance should reset to %d, got %d", ViewLikeBonusPoints, fresh.DailyBalance)
	}
	if fresh.LastUpdated != Today() {
		t.Errorf("last updated should be today, got %s", fresh.LastUpdated)
	}
	if fresh.Balance != DailyCap+ViewLikeBonusPoints {
		t.Errorf("lifetime balance should keep growing, got %d", fresh.Balance)
	}
}

func TestGrantInterestBonusOncePerClass(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "interest@example.com")

	granted, err := GrantInterestBonus(user.ID, 42)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != InterestBonusPoints {
		t.Errorf("expected %d points, got %d", InterestBonusPoints, granted)
	}

	// 同一课程第二次不再发放
	granted, err = GrantInterestBonus(user.ID, 42)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != 0 {
		t.Errorf("expected idempotent grant, got %d", granted)
	}

	// 其他课程仍可发放
	granted, _ = GrantInterestBonus(user.ID, 43)
	if granted != InterestBonusPoints {
		t.Errorf("expected grant for another class, got %d", granted)
	}

	var grants int64
	db.DB.Model(&models.InterestGrant{}).Where("user_id = ?", user.ID).Count(&grants)
	if grants != 2 {
		t.Errorf("expected 2 grant rows, got %d", grants)
	}
}

func TestGrantInterestBonusAtCapWritesNoGuard(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "interest-cap@example.com")

	db.DB.Model(user).Update("daily_balance", DailyCap)

	granted, err := GrantInterestBonus(user.ID, 7)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != 0 {
		t.Errorf("expected no grant at cap, got %d", granted)
	}

	// 闸行不写，明天重新标记仍可拿到奖励
	var grants int64
	db.DB.Model(&models.InterestGrant{}).Where("user_id = ?", user.ID).Count(&grants)
	if grants != 0 {
		t.Errorf("guard row must not be written when nothing was granted, got %d", grants)
	}
}

func TestGrantClassCreationBonus(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "teacher@example.com")

	granted, err := GrantClassCreationBonus(user.ID, "uuid-1", "Algebra Basics")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != ClassCreationBonusPoints {
		t.Errorf("expected %d points, got %d", ClassCreationBonusPoints, granted)
	}

	fresh := reloadUser(t, user.ID)
	if fresh.NumberOfTeaching != 1 {
		t.Errorf("teaching count should be 1, got %d", fresh.NumberOfTeaching)
	}

	var records []models.TeachingRecord
	db.DB.Where("user_id = ?", user.ID).Find(&records)
	if len(records) != 1 || records[0].Title != "Algebra Basics" {
		t.Fatalf("unexpected teaching records: %+v", records)
	}
}

func TestClassCreationAtCapStillRecordsTeaching(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "teacher-cap@example.com")

	db.DB.Model(user).Update("daily_balance", DailyCap)

	granted, err := GrantClassCreationBonus(user.ID, "uuid-2", "Chemistry 101")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted != 0 {
		t.Errorf("expected zero points at cap, got %d", granted)
	}

	// 积分为 0 但教学历史和流水照记
	fresh := reloadUser(t, user.ID)
	if fresh.NumberOfTeaching != 1 {
		t.Errorf("teaching count should still increment, got %d", fresh.NumberOfTeaching)
	}
	var logs int64
	db.DB.Model(&models.BalanceLog{}).
		Where("user_id = ? AND type = ?", user.ID, BalanceTypeClassCreation).
		Count(&logs)
	if logs != 1 {
		t.Errorf("expected ledger entry even at cap, got %d", logs)
	}
}

func TestGrantSkipsMissingUser(t *testing.T) {
	setupTestDB(t)

	// 账号不存在时静默跳过，不报错
	granted, err := GrantViewOrLikeBonus(9999, 100, 0)
	if err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
	if granted != 0 {
		t.Errorf("expected no grant for missing user, got %d", granted)
	}
}

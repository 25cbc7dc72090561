package services

import (
	"errors"
	"log"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/models"

	"gorm.io/gorm"
)

// 积分规则常量
const (
	DailyCap      = 250 // 每人每日发放上限
	ViewMilestone = 100 // 浏览量里程碑
	LikeMilestone = 25  // 点赞量里程碑

	ViewLikeBonusPoints      = 5
	InterestBonusPoints      = 10
	ClassCreationBonusPoints = 50
)

// 流水类型常量
const (
	BalanceTypeViewLike      = "view_like_bonus"
	BalanceTypeInterest      = "interest_bonus"
	BalanceTypeClassCreation = "class_creation"
)

// Today 返回积分结算用的日历日期
func Today() string {
	return time.Now().Format("2006-01-02")
}

// rolloverIfNewDay 跨日重置：LastUpdated 不等于今天时把 DailyBalance 清零。
// 重置立即落库，即使本次最终没有任何发放。
func rolloverIfNewDay(tx *gorm.DB, user *models.User, today string) error {
	if user.LastUpdated == today {
		return nil
	}
	user.DailyBalance = 0
	user.LastUpdated = today
	return tx.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{"daily_balance": 0, "last_updated": today}).
		Error
}

// applyGrant 把积分同时记入 DailyBalance 和 Balance，并写一条流水
func applyGrant(tx *gorm.DB, user *models.User, points int, grantType, today string) error {
	user.DailyBalance += points
	user.Balance += points
	if err := tx.Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"daily_balance": user.DailyBalance,
			"balance":       user.Balance,
			"last_updated":  today,
		}).Error; err != nil {
		return err
	}

	entry := models.BalanceLog{
		UserID:  user.ID,
		Change:  points,
		Balance: user.Balance,
		Type:    grantType,
		Date:    today,
	}
	return tx.Create(&entry).Error
}

// cappedPoints 对发放额做日上限裁剪
func cappedPoints(points, dailyBalance int) int {
	if remaining := DailyCap - dailyBalance; points > remaining {
		return remaining
	}
	return points
}

// GrantViewOrLikeBonus 浏览/点赞里程碑奖励：帖子浏览量是 100 的倍数，
// 或点赞量是 25 的倍数时，给帖子作者发 min(5, 当日剩余额度)。
// 条件不满足则不产生任何写入。返回实际发放的积分。
func GrantViewOrLikeBonus(userID uint, viewCount, likeCount int) (int, error) {
	if viewCount%ViewMilestone != 0 && likeCount%LikeMilestone != 0 {
		return 0, nil
	}

	granted := 0
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("view/like bonus skipped: user %d not found", userID)
				return nil
			}
			return err
		}

		today := Today()
		if err := rolloverIfNewDay(tx, &user, today); err != nil {
			return err
		}
		if user.DailyBalance >= DailyCap {
			return nil
		}

		points := cappedPoints(ViewLikeBonusPoints, user.DailyBalance)
		if err := applyGrant(tx, &user, points, BalanceTypeViewLike, today); err != nil {
			return err
		}

		// 追加 balanceHistory 快照
		snapshot := models.BalanceSnapshot{UserID: user.ID, Balance: user.Balance, Date: today}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		granted = points
		return nil
	})
	return granted, err
}

// GrantInterestBonus 兴趣奖励：每个 (用户, 课程) 只发一次，由 InterestGrant
// 行做幂等闸。到达日上限时不发放也不写闸——和线上行为一致，用户之后
// 重新标记仍可获得奖励；闸一旦写入则永不清除。
func GrantInterestBonus(userID, classID uint) (int, error) {
	granted := 0
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("interest bonus skipped: user %d not found", userID)
				return nil
			}
			return err
		}

		// 已发放过直接跳过
		var existing models.InterestGrant
		if err := tx.Where("user_id = ? AND class_id = ?", userID, classID).
			First(&existing).Error; err == nil {
			return nil
		}

		today := Today()
		if err := rolloverIfNewDay(tx, &user, today); err != nil {
			return err
		}
		if user.DailyBalance >= DailyCap {
			return nil
		}

		points := cappedPoints(InterestBonusPoints, user.DailyBalance)
		if err := applyGrant(tx, &user, points, BalanceTypeInterest, today); err != nil {
			return err
		}

		grant := models.InterestGrant{UserID: userID, ClassID: classID}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}

		granted = points
		return nil
	})
	return granted, err
}

// GrantClassCreationBonus 发布课程奖励：积分额度受日上限裁剪（可为 0），
// 但流水、教学历史和 NumberOfTeaching 的追加不受上限影响，每次发布都记。
func GrantClassCreationBonus(userID uint, classID, title string) (int, error) {
	granted := 0
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("class creation bonus skipped: user %d not found", userID)
				return nil
			}
			return err
		}

		today := Today()
		if err := rolloverIfNewDay(tx, &user, today); err != nil {
			return err
		}

		points := cappedPoints(ClassCreationBonusPoints, user.DailyBalance)
		if points < 0 {
			points = 0
		}
		if err := applyGrant(tx, &user, points, BalanceTypeClassCreation, today); err != nil {
			return err
		}

		record := models.TeachingRecord{
			UserID:  userID,
			ClassID: classID,
			Title:   title,
			Date:    today,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("number_of_teaching", gorm.Expr("number_of_teaching + ?", 1)).
			Error; err != nil {
			return err
		}

		granted = points
		return nil
	})
	return granted, err
}

// GrantViewOrLikeBonusAsync 异步发放（在 goroutine 中调用）
func GrantViewOrLikeBonusAsync(userID uint, viewCount, likeCount int) {
	go func() {
		if _, err := GrantViewOrLikeBonus(userID, viewCount, likeCount); err != nil {
			log.Printf("view/like bonus failed for user %d: %v", userID, err)
		}
	}()
}

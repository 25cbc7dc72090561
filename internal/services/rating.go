package services

import (
	"errors"

	"eduvault/internal/db"
	"eduvault/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	ErrRateSelf         = errors.New("cannot rate yourself")
)

// SubmitRating 给讲师打分。同一用户对同一讲师只保留最新一次评分（覆盖），
// 写入后同步重算讲师的平均分快照。
func SubmitRating(raterID, instructorID uint, value float64) (float64, error) {
	if value < 1 || value > 5 {
		return 0, ErrRatingOutOfRange
	}
	if raterID == instructorID {
		return 0, ErrRateSelf
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.InstructorRating
		result := tx.Where("rater_id = ? AND instructor_id = ?", raterID, instructorID).
			First(&existing)
		if result.Error == nil {
			return tx.Model(&existing).Update("value", value).Error
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		rating := models.InstructorRating{
			RaterID:      raterID,
			InstructorID: instructorID,
			Value:        value,
		}
		return tx.Create(&rating).Error
	})
	if err != nil {
		return 0, err
	}

	avg := InstructorAverageRating(instructorID)
	if err := db.DB.Model(&models.User{}).
		Where("id = ?", instructorID).
		Update("average_rating", avg).Error; err != nil {
		return avg, err
	}

	// 讲师名下课程的评分快照异步刷新
	var classIDs []uint
	db.DB.Model(&models.Class{}).Where("procter_id = ?", instructorID).Pluck("id", &classIDs)
	for _, id := range classIDs {
		GetStatsService().ScheduleUpdate(id)
	}

	return avg, nil
}

// InstructorAverageRating 计算讲师当前平均分，没有评分时返回 0
func InstructorAverageRating(instructorID uint) float64 {
	var avg *float64
	db.DB.Model(&models.InstructorRating{}).
		Where("instructor_id = ?", instructorID).
		Select("avg(value)").
		Scan(&avg)
	if avg == nil {
		return 0
	}
	return *avg
}

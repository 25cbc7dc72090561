package models

import (
	"time"
)

// InstructorRating ratings 映射（评分人 -> 分值）的行化表示，
// 每个 (rater, instructor) 至多一条，重复提交走更新。
type InstructorRating struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RaterID      uint      `gorm:"not null;index;uniqueIndex:idx_rater_instructor" json:"raterId"`
	InstructorID uint      `gorm:"not null;index;uniqueIndex:idx_rater_instructor" json:"instructorId"`
	Instructor   User      `gorm:"foreignKey:InstructorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Value        float64   `gorm:"not null" json:"value"` // 1-5，支持半星
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// StringArray 针对 PostgreSQL text[] 的自定义类型，实现 Scanner / Valuer
type StringArray []string

// Scan implements the sql.Scanner interface for reading from database
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	// PostgreSQL returns text[] as a string like "{value1,value2,value3}"
	str, ok := value.(string)
	if !ok {
		if bytes, ok := value.([]byte); ok {
			str = string(bytes)
		} else {
			*a = nil
			return nil
		}
	}

	str = strings.TrimPrefix(str, "{")
	str = strings.TrimSuffix(str, "}")

	if str == "" {
		*a = []string{}
		return nil
	}

	// Split by comma (simple case - doesn't handle quoted values with commas)
	*a = strings.Split(str, ",")
	return nil
}

// Value implements the driver.Valuer interface for writing to database
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if len(a) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// Class 课程记录。ProctorRating / InterestedCount 为冗余统计字段，
// 由 stats worker 异步维护，读路径不做聚合查询。
type Class struct {
	ID                  uint        `gorm:"primaryKey" json:"-"`
	ClassID             string      `gorm:"uniqueIndex;size:36;not null" json:"id"` // 对外 UUID
	ClassName           string      `gorm:"not null" json:"className"`
	Standard            string      `gorm:"size:50" json:"standard"`
	ClassType           string      `gorm:"size:50" json:"classType"`
	ClassDate           string      `gorm:"size:20" json:"classDate"`
	ClassTime           string      `gorm:"size:20" json:"classTime"`
	ClassLink           string      `json:"classLink"`
	ImageURL            string      `json:"imageUrl"`
	Description         string      `gorm:"type:text" json:"description"`
	WhatYouWillLearn    StringArray `gorm:"type:text[]" json:"whatYouWillLearn"`
	MinimumRequirements StringArray `gorm:"type:text[]" json:"minimumRequirements"`
	IsPremium           bool        `gorm:"default:false" json:"isPremium"`
	ProcterID           uint        `gorm:"not null;index" json:"procterId"`
	Procter             User        `gorm:"foreignKey:ProcterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ProctorRating       float64     `gorm:"default:0" json:"proctorRating"`
	InterestedCount     int         `gorm:"default:0" json:"interestedCount"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"-"`
}

// ClassInterest interestedUsers 集合的行化表示
type ClassInterest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_class_interest" json:"user_id"`
	ClassID   uint      `gorm:"not null;index;uniqueIndex:idx_user_class_interest" json:"class_id"`
	Class     Class     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

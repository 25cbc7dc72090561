package models

import (
	"time"
)

type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FirstName  string `gorm:"size:50" json:"firstName"`
	LastName   string `gorm:"size:50" json:"lastName"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Password   string `gorm:"not null" json:"-"` // Hash
	ProfilePic string `json:"profilePic"`        // 头像 URL（Imgur）
	Bio        string `gorm:"size:500" json:"bio"`
	Type       string `gorm:"size:30" json:"type"`                         // Student, Teacher, ...
	Role       string `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	Status     int    `gorm:"default:0" json:"status"`                     // 0:正常, 1:禁言, 2:封禁

	// 积分余额：Balance 为终身累计，DailyBalance 每日上限 250
	Balance      int    `gorm:"default:0" json:"balance"`
	DailyBalance int    `gorm:"default:0" json:"dailyBalance"`
	LastUpdated  string `gorm:"size:10" json:"lastUpdated"` // 最后一次余额变动的日期 (2006-01-02)

	// 教学相关（作为讲师时）
	NumberOfTeaching int     `gorm:"default:0" json:"numberOfTeaching"`
	AverageRating    float64 `gorm:"default:0" json:"averageRating"` // 冗余字段，由 stats worker 维护
	Philosophy       string  `gorm:"size:500" json:"philosophy"`

	PunishExpires *time.Time `json:"punishExpires"` // 惩罚到期时间
	GoogleID      string     `gorm:"index" json:"-"`
	GoogleEmail   string     `gorm:"index" json:"-"`
	IsActivated   bool       `gorm:"default:false" json:"isActivated"`
	VerifyCode    string     `gorm:"size:20" json:"-"` // 验证码(激活/重置通用)
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	// No DeletedAt for hard delete
}

// DisplayName 返回用于评论区展示的名字
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin 是否具有管理员权限
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

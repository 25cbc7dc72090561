package models

import (
	"time"
)

// BalanceLog 积分流水：每次发放记一条，正数增加（当前没有扣分路径）
type BalanceLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Change    int       `gorm:"not null" json:"change"`
	Balance   int       `gorm:"not null" json:"balance"`        // 发放后的终身余额
	Type      string    `gorm:"size:50;not null" json:"type"`   // view_like_bonus / interest_bonus / class_creation
	Date      string    `gorm:"size:10;not null" json:"date"`   // 发放日 (2006-01-02)
	CreatedAt time.Time `json:"createdAt"`
}

// BalanceSnapshot balanceHistory 的行化表示：只追加，不修改
type BalanceSnapshot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Balance   int       `gorm:"not null" json:"balance"`
	Date      string    `gorm:"size:10;not null" json:"date"`
	CreatedAt time.Time `json:"-"`
}

// InterestGrant checkboxHistory 的行化表示：兴趣奖励的幂等闸。
// 行一旦写入永不删除——取消兴趣不回收积分也不清除标记。
type InterestGrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_interest_grant" json:"user_id"`
	ClassID   uint      `gorm:"not null;index;uniqueIndex:idx_interest_grant" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TeachingRecord 教学历史：每次发布课程追加一条
type TeachingRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ClassID   string    `gorm:"size:36;not null" json:"classId"`
	Title     string    `gorm:"not null" json:"title"`
	Date      string    `gorm:"size:10;not null" json:"date"`
	CreatedAt time.Time `json:"-"`
}

package models

import (
	"time"
)

type Report struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"` // Reporter
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ItemType  string    `gorm:"size:20;not null" json:"itemType"` // "post", "comment"
	ItemID    string    `gorm:"size:8;not null" json:"itemId"`    // Pid / Cid
	Reason    string    `gorm:"size:200;not null" json:"reason"`
	Resolved  bool      `gorm:"default:false;index" json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

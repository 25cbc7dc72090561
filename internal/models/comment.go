package models

import (
	"time"
)

// Comment 评论与回复共用一张表：ParentID 为空是顶层评论，非空是回复。
// 回复不允许再被回复，嵌套深度固定为两层，由 service 层保证。
// UserName/ProfilePic 写入时冗余，与前端展示字段保持一致。
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Cid        string    `gorm:"uniqueIndex;size:8;not null" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"-"`
	Post       Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ParentID   *uint     `gorm:"index" json:"-"` // Nullable for top-level comments
	Text       string    `gorm:"type:text;not null" json:"text"`
	UserName   string    `gorm:"size:120" json:"user"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

// CommentLike 评论点赞集合，(user, comment) 唯一
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_comment_like" json:"user_id"`
	CommentID uint      `gorm:"not null;index;uniqueIndex:idx_user_comment_like" json:"comment_id"`
	Comment   Comment   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

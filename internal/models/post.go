package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Pid      string `gorm:"uniqueIndex;size:8;not null" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"userId"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `gorm:"type:text" json:"desc"`
	ImageURL string `json:"img"`
	Views    int    `gorm:"default:0" json:"views"` // 浏览量，原子自增

	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`

	// 非数据库字段，用于查询时填充
	LikeCount    int64 `gorm:"-" json:"likeCount"`
	CommentCount int64 `gorm:"-" json:"commentCount"`
}

// PostLike 点赞集合：likes 字段的行化表示，唯一索引保证无重复
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post_like" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post_like" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

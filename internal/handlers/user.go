package handlers

import (
	"net/http"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/services"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile 公开资料页：等级、教学统计、近期帖子
func (h *UserHandler) Profile(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		JSONNotFound(c)
		return
	}

	var posts []models.Post
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(20).
		Find(&posts)
	fillPostCounts(posts)

	var teaching []models.TeachingRecord
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(20).
		Find(&teaching)

	levelName, levelIcon := utils.GetUserLevel(user.Balance)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"name":             user.DisplayName(),
			"profilePic":       user.ProfilePic,
			"bio":              user.Bio,
			"type":             user.Type,
			"philosophy":       user.Philosophy,
			"balance":          user.Balance,
			"level":            gin.H{"name": levelName, "icon": levelIcon},
			"numberOfTeaching": user.NumberOfTeaching,
			"averageRating":    user.AverageRating,
			"daysSinceJoined":  utils.GetDaysSinceJoined(user.CreatedAt),
		},
		"posts":    posts,
		"teaching": teaching,
	})
}

// Me 当前登录用户的完整资料
func (h *UserHandler) Me(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	levelName, levelIcon := utils.GetUserLevel(user.Balance)
	JSON(c, http.StatusOK, gin.H{
		"user":  user,
		"level": gin.H{"name": levelName, "icon": levelIcon},
	})
}

// Dashboard 积分面板：今日已领、流水、余额快照
func (h *UserHandler) Dashboard(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var logs []models.BalanceLog
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&logs)

	var snapshots []models.BalanceSnapshot
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Limit(100).
		Find(&snapshots)

	// 跨日后未触发任何发放时，展示层面把今日已领归零
	daily := user.DailyBalance
	if user.LastUpdated != services.Today() {
		daily = 0
	}

	levelName, levelIcon := utils.GetUserLevel(user.Balance)

	c.JSON(http.StatusOK, gin.H{
		"balance":        user.Balance,
		"dailyBalance":   daily,
		"level":          gin.H{"name": levelName, "icon": levelIcon},
		"balanceLogs":    logs,
		"balanceHistory": snapshots,
	})
}

// TeachingHistory 教学历史
func (h *UserHandler) TeachingHistory(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var records []models.TeachingRecord
	db.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&records)

	c.JSON(http.StatusOK, gin.H{
		"numberOfTeaching": user.NumberOfTeaching,
		"teaching":         records,
	})
}

type updateProfileForm struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Bio        string `json:"bio"`
	Type       string `json:"type"`
	Philosophy string `json:"philosophy"`
	ProfilePic string `json:"profilePic"`
}

// UpdateProfile 更新个人资料
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var form updateProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid profile payload")
		return
	}

	updates := map[string]interface{}{}
	if form.FirstName != "" {
		updates["first_name"] = form.FirstName
	}
	if form.LastName != "" {
		updates["last_name"] = form.LastName
	}
	if form.Bio != "" {
		updates["bio"] = form.Bio
	}
	if form.Type != "" {
		updates["type"] = form.Type
	}
	if form.Philosophy != "" {
		updates["philosophy"] = form.Philosophy
	}
	if form.ProfilePic != "" {
		updates["profile_pic"] = form.ProfilePic
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{"user": user})
		return
	}

	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

type punishForm struct {
	Status int `json:"status"` // 0: 正常, 1: 禁言, 2: 封禁
	Days   int `json:"days"`
}

// PunishUser 惩罚用户（禁言、封禁）
func (h *AdminHandler) PunishUser(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Param("id"))

	var form punishForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updates := map[string]interface{}{
		"status": form.Status,
	}
	if form.Status != 0 && form.Days > 0 {
		expires := time.Now().AddDate(0, 0, form.Days)
		updates["punish_expires"] = &expires
	} else {
		updates["punish_expires"] = nil
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated."})
}

// ListUsers 用户列表（简单分页）
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	perPage := 50

	var users []models.User
	db.DB.Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users)

	c.JSON(http.StatusOK, gin.H{"users": users, "page": page})
}

// ListReports 待处理举报
func (h *AdminHandler) ListReports(c *gin.Context) {
	var reports []models.Report
	db.DB.Preload("User").
		Where("resolved = ?", false).
		Order("created_at DESC").
		Limit(100).
		Find(&reports)

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ResolveReport 标记举报已处理，并通知举报人
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	admin := c.MustGet(middleware.CheckUserKey).(*models.User)
	id := c.Param("id")

	var report models.Report
	if err := db.DB.First(&report, id).Error; err != nil {
		JSONNotFound(c)
		return
	}

	if err := db.DB.Model(&report).Update("resolved", true).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not resolve report")
		return
	}

	notification := models.Notification{
		UserID:  report.UserID,
		ActorID: &admin.ID,
		Type:    models.NotificationTypeReport,
		Reason:  "Your report has been reviewed. Thanks for keeping the community safe.",
	}
	db.DB.Create(&notification)

	c.JSON(http.StatusOK, gin.H{"message": "Report resolved."})
}

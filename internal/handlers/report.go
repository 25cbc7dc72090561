package handlers

import (
	"net/http"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

type reportForm struct {
	ItemType string `json:"itemType" binding:"required,oneof=post comment"`
	ItemID   string `json:"itemId" binding:"required"`
	Reason   string `json:"reason" binding:"required,max=200"`
}

// Create 举报帖子或评论
func (h *ReportHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	var form reportForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid report payload")
		return
	}

	// 被举报对象必须存在
	switch form.ItemType {
	case "post":
		var post models.Post
		if err := db.DB.Where("pid = ?", form.ItemID).First(&post).Error; err != nil {
			JSONNotFound(c)
			return
		}
	case "comment":
		var comment models.Comment
		if err := db.DB.Where("cid = ?", form.ItemID).First(&comment).Error; err != nil {
			JSONNotFound(c)
			return
		}
	}

	report := models.Report{
		UserID:   user.ID,
		ItemType: form.ItemType,
		ItemID:   form.ItemID,
		Reason:   form.Reason,
	}
	if err := db.DB.Create(&report).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not submit report")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted."})
}

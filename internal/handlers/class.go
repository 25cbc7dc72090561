package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/services"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassHandler struct{}

func NewClassHandler() *ClassHandler {
	return &ClassHandler{}
}

// List 课程列表：未来课程在前，支持按学段/类型过滤和分页
func (h *ClassHandler) List(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	standard := c.Query("standard")
	classType := c.Query("type")

	cacheKey := fmt.Sprintf("class:list:%d:%s:%s", page, standard, classType)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			c.JSON(http.StatusOK, hData)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	query := db.DB.Model(&models.Class{})
	if standard != "" {
		query = query.Where("standard = ?", standard)
	}
	if classType != "" {
		query = query.Where("class_type = ?", classType)
	}

	var total int64
	query.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var classes []models.Class
	query.Preload("Procter").
		Order("class_date ASC, class_time ASC").
		Limit(perPage).
		Offset(offset).
		Find(&classes)

	data := gin.H{
		"classes":    classes,
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	}
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

// Detail 课程详情，带当前用户的兴趣/评分状态
func (h *ClassHandler) Detail(c *gin.Context) {
	classID := c.Param("id")

	var class models.Class
	if err := db.DB.Preload("Procter").Where("class_id = ?", classID).First(&class).Error; err != nil {
		JSONNotFound(c)
		return
	}

	interested := false
	myRating := 0.0
	if user := middleware.CurrentUser(c); user != nil {
		var interest models.ClassInterest
		if err := db.DB.Where("user_id = ? AND class_id = ?", user.ID, class.ID).
			First(&interest).Error; err == nil {
			interested = true
		}
		var rating models.InstructorRating
		if err := db.DB.Where("rater_id = ? AND instructor_id = ?", user.ID, class.ProcterID).
			First(&rating).Error; err == nil {
			myRating = rating.Value
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"class": class,
		"procter": gin.H{
			"id":            class.Procter.ID,
			"name":          class.Procter.DisplayName(),
			"profilePic":    class.Procter.ProfilePic,
			"philosophy":    class.Procter.Philosophy,
			"averageRating": class.Procter.AverageRating,
			"teachingCount": class.Procter.NumberOfTeaching,
		},
		"interested": interested,
		"myRating":   myRating,
	})
}

type createClassForm struct {
	ClassName           string   `json:"className" binding:"required"`
	Standard            string   `json:"standard"`
	ClassType           string   `json:"classType"`
	ClassDate           string   `json:"classDate" binding:"required"`
	ClassTime           string   `json:"classTime" binding:"required"`
	ClassLink           string   `json:"classLink"`
	ImageURL            string   `json:"imageUrl"`
	Description         string   `json:"description"`
	WhatYouWillLearn    []string `json:"whatYouWillLearn"`
	MinimumRequirements []string `json:"minimumRequirements"`
	IsPremium           bool     `json:"isPremium"`
}

// Create 发布课程，发布奖励同步入账
func (h *ClassHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	if user.Status != 0 {
		JSONError(c, http.StatusForbidden, "your account cannot schedule classes right now")
		return
	}

	var form createClassForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid class payload")
		return
	}

	class := models.Class{
		ClassID:             uuid.NewString(),
		ClassName:           form.ClassName,
		Standard:            form.Standard,
		ClassType:           form.ClassType,
		ClassDate:           form.ClassDate,
		ClassTime:           form.ClassTime,
		ClassLink:           form.ClassLink,
		ImageURL:            form.ImageURL,
		Description:         form.Description,
		WhatYouWillLearn:    form.WhatYouWillLearn,
		MinimumRequirements: form.MinimumRequirements,
		IsPremium:           form.IsPremium,
		ProcterID:           user.ID,
		ProctorRating:       user.AverageRating,
	}

	if err := db.DB.Create(&class).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not create class")
		return
	}

	granted, err := services.GrantClassCreationBonus(user.ID, class.ClassID, class.ClassName)
	if err != nil {
		// 奖励失败不回滚课程本身
		granted = 0
	}

	c.JSON(http.StatusCreated, gin.H{"class": class, "bonusGranted": granted})
}

// ToggleInterest 标记/取消“感兴趣”。首次标记触发一次性积分奖励，
// 取消不回收积分。
func (h *ClassHandler) ToggleInterest(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	classID := c.Param("id")

	var class models.Class
	if err := db.DB.Where("class_id = ?", classID).First(&class).Error; err != nil {
		JSONNotFound(c)
		return
	}

	interested := false
	bonus := 0
	var existing models.ClassInterest
	result := db.DB.Where("user_id = ? AND class_id = ?", user.ID, class.ID).First(&existing)
	if result.Error == nil {
		if err := db.DB.Delete(&existing).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "could not update interest")
			return
		}
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		interest := models.ClassInterest{UserID: user.ID, ClassID: class.ID}
		if err := db.DB.Create(&interest).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "could not update interest")
			return
		}
		interested = true

		granted, err := services.GrantInterestBonus(user.ID, class.ID)
		if err == nil {
			bonus = granted
		}
	} else {
		JSONError(c, http.StatusInternalServerError, "could not update interest")
		return
	}

	services.GetStatsService().ScheduleUpdate(class.ID)

	var count int64
	db.DB.Model(&models.ClassInterest{}).Where("class_id = ?", class.ID).Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"interested":      interested,
		"interestedCount": count,
		"bonusGranted":    bonus,
	})
}

type rateForm struct {
	Value float64 `json:"value" binding:"required"`
}

// Rate 给课程讲师打分
func (h *ClassHandler) Rate(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	classID := c.Param("id")

	var class models.Class
	if err := db.DB.Where("class_id = ?", classID).First(&class).Error; err != nil {
		JSONNotFound(c)
		return
	}

	var form rateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "rating value is required")
		return
	}

	avg, err := services.SubmitRating(user.ID, class.ProcterID, form.Value)
	if err != nil {
		if errors.Is(err, services.ErrRatingOutOfRange) || errors.Is(err, services.ErrRateSelf) {
			JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		JSONError(c, http.StatusInternalServerError, "could not save rating")
		return
	}

	// 当前课程的评分快照立即刷新，讲师的其他课程走异步队列
	services.UpdateClassStatsSync(class.ID)

	c.JSON(http.StatusOK, gin.H{"averageRating": avg})
}

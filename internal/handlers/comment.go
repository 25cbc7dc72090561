package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		mailService: services.NewMailService(),
	}
}

type commentForm struct {
	Text      string `json:"text" binding:"required"`
	ParentCid string `json:"parentId"`
}

// Create 新增评论或回复（parentId 非空时是回复）
func (h *CommentHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	pid := c.Param("pid")

	if user.Status != 0 {
		JSONError(c, http.StatusForbidden, "your account cannot comment right now")
		return
	}

	var form commentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "comment text is required")
		return
	}

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONNotFound(c)
		return
	}

	var comment *models.Comment
	var err error
	if form.ParentCid == "" {
		comment, err = services.AddComment(post.ID, user.ID, form.Text)
	} else {
		comment, err = services.AddReply(post.ID, user.ID, form.ParentCid, form.Text)
	}
	if err != nil {
		if errors.Is(err, services.ErrEmptyComment) {
			JSONError(c, http.StatusBadRequest, "comment text is empty")
			return
		}
		JSONError(c, http.StatusInternalServerError, "could not save comment")
		return
	}
	if comment == nil {
		// 回复目标不存在或层级不合法，静默丢弃
		c.JSON(http.StatusOK, gin.H{"comment": nil})
		return
	}

	// 异步通知被回复的人
	go h.notify(user, &post, comment)

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// notify 评论通知帖子作者，回复通知父评论作者
func (h *CommentHandler) notify(actor *models.User, post *models.Post, comment *models.Comment) {
	targetID := post.UserID
	notifType := models.NotificationTypeCommentPost
	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *comment.ParentID).Error; err != nil {
			return
		}
		targetID = parent.UserID
		notifType = models.NotificationTypeReplyComment
	}

	// 自己回自己不通知
	if targetID == actor.ID {
		return
	}

	notification := models.Notification{
		UserID:  targetID,
		ActorID: &actor.ID,
		Type:    notifType,
		Reason:  comment.Text,
	}
	if err := db.DB.Create(&notification).Error; err != nil {
		log.Printf("通知写入失败: %v", err)
		return
	}

	var target models.User
	if err := db.DB.First(&target, targetID).Error; err != nil {
		return
	}
	siteURL := os.Getenv("SITE_URL")
	h.mailService.SendCommentNotification(
		target.Email, actor.DisplayName(), post.Title, comment.Text,
		siteURL+"/posts/"+post.Pid,
	)
}

// ToggleLike 点赞/取消点赞评论
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	cid := c.Param("cid")

	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		JSONNotFound(c)
		return
	}

	liked, err := services.ToggleCommentLike(comment.ID, user.ID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "could not toggle like")
		return
	}

	var likeCount int64
	db.DB.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeCount)

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": likeCount})
}

// Delete 删除评论（帖子作者、评论作者或管理员）
func (h *CommentHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	cid := c.Param("cid")

	if err := services.DeleteComment(cid, user); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			JSONNotFound(c)
			return
		}
		JSONError(c, http.StatusInternalServerError, "could not delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted."})
}

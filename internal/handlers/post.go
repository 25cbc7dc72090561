package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/middleware"
	"eduvault/internal/models"
	"eduvault/internal/services"
	"eduvault/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	mailService *services.MailService
}

func NewPostHandler() *PostHandler {
	return &PostHandler{
		mailService: services.NewMailService(),
	}
}

// fillPostCounts 批量填充帖子的点赞数和评论数
func fillPostCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int64
	}

	var commentCounts []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentCounts)

	var likeCounts []countResult
	db.DB.Model(&models.PostLike{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeCounts)

	commentMap := make(map[uint]int64)
	for _, r := range commentCounts {
		commentMap[r.PostID] = r.Count
	}
	likeMap := make(map[uint]int64)
	for _, r := range likeCounts {
		likeMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = commentMap[posts[i].ID]
		posts[i].LikeCount = likeMap[posts[i].ID]
	}
}

// List 帖子列表，最新在前，带分页和短缓存
func (h *PostHandler) List(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))

	cacheKey := fmt.Sprintf("post:list:page:%d", page)
	if cachedData := utils.GetCache().Get(cacheKey); cachedData != nil {
		if hData, ok := cachedData.(gin.H); ok {
			c.JSON(http.StatusOK, hData)
			return
		}
	}

	perPage := 30
	offset := (page - 1) * perPage

	var total int64
	db.DB.Model(&models.Post{}).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	db.DB.Preload("User").
		Order("created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&posts)

	fillPostCounts(posts)

	data := gin.H{
		"posts":      posts,
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
	}

	// 写入缓存，有效期 1 分钟
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

// Search 按标题和内容搜索
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")

	var posts []models.Post
	if query != "" {
		searchPattern := "%" + query + "%"
		db.DB.Preload("User").
			Where("title LIKE ? OR content LIKE ?", searchPattern, searchPattern).
			Order("created_at DESC").
			Limit(50).
			Find(&posts)
	}

	fillPostCounts(posts)

	c.JSON(http.StatusOK, gin.H{"posts": posts, "query": query})
}

// Detail 帖子详情：浏览量原子自增，里程碑奖励异步发放
func (h *PostHandler) Detail(c *gin.Context) {
	pid := c.Param("pid")

	userID := uint(0)
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	var post models.Post
	if err := db.DB.Preload("User").Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONNotFound(c)
		return
	}

	// 增加浏览量（原子自增，避免并发丢更新）
	db.DB.Model(&post).UpdateColumn("views", gorm.Expr("views + ?", 1))
	post.Views++

	var likeCount int64
	db.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)
	post.LikeCount = likeCount

	// 浏览里程碑奖励给帖子作者，异步
	services.GrantViewOrLikeBonusAsync(post.UserID, post.Views, int(likeCount))

	liked := false
	if userID > 0 {
		var like models.PostLike
		if err := db.DB.Where("user_id = ? AND post_id = ?", userID, post.ID).First(&like).Error; err == nil {
			liked = true
		}
	}

	// 老评论上冗余的头像随用户资料更新补齐
	if err := services.BackfillMissingProfilePics(post.ID); err != nil {
		log.Printf("补齐评论头像失败: %v", err)
	}

	tree, err := services.BuildCommentTree(post.ID, userID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "could not load comments")
		return
	}
	post.CommentCount = int64(len(tree))

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"descHtml": utils.RenderMarkdown(post.Content),
		"liked":    liked,
		"comments": tree,
	})
}

type createPostForm struct {
	Title string `json:"title" binding:"required"`
	Desc  string `json:"desc"`
	Img   string `json:"img"`
}

// Create 发布帖子
func (h *PostHandler) Create(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)

	// 检查用户状态
	if user.Status == 2 {
		JSONError(c, http.StatusForbidden, "your account has been banned")
		return
	}
	if user.Status == 1 {
		if user.PunishExpires != nil && time.Now().After(*user.PunishExpires) {
			// 惩罚已过期，恢复状态
			db.DB.Model(user).Update("status", 0)
		} else {
			JSONError(c, http.StatusForbidden, "your account is muted")
			return
		}
	}

	var form createPostForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	post := models.Post{
		Pid:      utils.RandStringBytesMaskImpr(8),
		UserID:   user.ID,
		Title:    form.Title,
		Content:  form.Desc,
		ImageURL: form.Img,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "could not create post")
		return
	}

	// 列表缓存失效
	utils.GetCache().Delete("post:list:page:1")

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Delete 删除帖子：作者本人或管理员
func (h *PostHandler) Delete(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONNotFound(c)
		return
	}

	if post.UserID != user.ID && !user.IsAdmin() {
		JSONError(c, http.StatusForbidden, "not allowed")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", post.ID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", post.ID).
				Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", post.ID).
			Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "could not delete post")
		return
	}

	utils.GetCache().Delete("post:list:page:1")

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}

// ToggleLike 点赞/取消点赞帖子，命中里程碑时给作者发奖励
func (h *PostHandler) ToggleLike(c *gin.Context) {
	user := c.MustGet(middleware.CheckUserKey).(*models.User)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONNotFound(c)
		return
	}

	liked := false
	var existing models.PostLike
	result := db.DB.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&existing)
	if result.Error == nil {
		if err := db.DB.Delete(&existing).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "could not unlike")
			return
		}
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		like := models.PostLike{UserID: user.ID, PostID: post.ID}
		if err := db.DB.Create(&like).Error; err != nil {
			JSONError(c, http.StatusInternalServerError, "could not like")
			return
		}
		liked = true
	} else {
		JSONError(c, http.StatusInternalServerError, "could not like")
		return
	}

	var likeCount int64
	db.DB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)

	// 奖励只在点赞方向上检查
	if liked {
		services.GrantViewOrLikeBonusAsync(post.UserID, post.Views, int(likeCount))
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likeCount": likeCount})
}

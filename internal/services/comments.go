package services

import (
	"errors"
	"log"
	"strings"

	"eduvault/internal/db"
	"eduvault/internal/models"
	"eduvault/internal/utils"

	"gorm.io/gorm"
)

var ErrEmptyComment = errors.New("comment text is empty")

// AddComment 在帖子下新增一条顶层评论，空白内容直接拒绝，不产生任何写入
func AddComment(postID, userID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	comment := models.Comment{
		Cid:        utils.RandStringBytesMaskImpr(8),
		PostID:     postID,
		UserID:     userID,
		Text:       text,
		UserName:   user.DisplayName(),
		ProfilePic: user.ProfilePic,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// AddReply 回复某条顶层评论。回复只允许挂一层：父评论本身是回复、
// 或者父评论不存在时静默丢弃，只记日志，不回传错误给调用方。
func AddReply(postID, userID uint, parentCid, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	var parent models.Comment
	if err := db.DB.Where("cid = ? AND post_id = ?", parentCid, postID).
		First(&parent).Error; err != nil {
		log.Printf("reply dropped: parent comment %s not found on post %d", parentCid, postID)
		return nil, nil
	}
	if parent.ParentID != nil {
		log.Printf("reply dropped: comment %s is itself a reply", parentCid)
		return nil, nil
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	reply := models.Comment{
		Cid:        utils.RandStringBytesMaskImpr(8),
		PostID:     postID,
		UserID:     userID,
		ParentID:   &parent.ID,
		Text:       text,
		UserName:   user.DisplayName(),
		ProfilePic: user.ProfilePic,
	}
	if err := db.DB.Create(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// ToggleCommentLike 点赞/取消点赞评论，返回操作后的状态
func ToggleCommentLike(commentID, userID uint) (liked bool, err error) {
	var existing models.CommentLike
	result := db.DB.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing)
	if result.Error == nil {
		if err := db.DB.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return false, result.Error
	}
	like := models.CommentLike{UserID: userID, CommentID: commentID}
	if err := db.DB.Create(&like).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DeleteComment 删除评论及其全部回复。只有帖子作者、评论作者和管理员
// 有权删除；无权限时静默拒绝（记日志），不向调用方暴露细节。
func DeleteComment(cid string, actor *models.User) error {
	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		return err
	}

	var post models.Post
	if err := db.DB.First(&post, comment.PostID).Error; err != nil {
		return err
	}

	if actor.ID != comment.UserID && actor.ID != post.UserID && !actor.IsAdmin() {
		log.Printf("delete refused: user %d has no right on comment %s", actor.ID, cid)
		return nil
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		// 先删回复，再删本体；点赞记录一并清掉
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		ids := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", ids).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
}

// CommentNode 评论树节点，回复只嵌套一层
type CommentNode struct {
	models.Comment
	LikeCount int           `json:"likeCount"`
	Liked     bool          `json:"liked"`
	Replies   []CommentNode `json:"replies"`
}

// BuildCommentTree 组装某帖子的一层评论树，按时间正序。
// viewerID 为 0 表示未登录，Liked 一律 false。
func BuildCommentTree(postID, viewerID uint) ([]CommentNode, error) {
	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []CommentNode{}, nil
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	// 一次查出点赞数和当前用户的点赞状态
	likeCounts := map[uint]int{}
	var rows []struct {
		CommentID uint
		Cnt       int
	}
	if err := db.DB.Model(&models.CommentLike{}).
		Select("comment_id, count(*) as cnt").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		likeCounts[r.CommentID] = r.Cnt
	}

	likedSet := map[uint]bool{}
	if viewerID != 0 {
		var likedIDs []uint
		if err := db.DB.Model(&models.CommentLike{}).
			Where("user_id = ? AND comment_id IN ?", viewerID, ids).
			Pluck("comment_id", &likedIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			likedSet[id] = true
		}
	}

	nodeOf := func(c models.Comment) CommentNode {
		return CommentNode{
			Comment:   c,
			LikeCount: likeCounts[c.ID],
			Liked:     likedSet[c.ID],
			Replies:   []CommentNode{},
		}
	}

	tree := []CommentNode{}
	index := map[uint]int{}
	for _, c := range comments {
		if c.ParentID == nil {
			tree = append(tree, nodeOf(c))
			index[c.ID] = len(tree) - 1
		}
	}
	for _, c := range comments {
		if c.ParentID == nil {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			tree[i].Replies = append(tree[i].Replies, nodeOf(c))
		}
	}
	return tree, nil
}

// BackfillMissingProfilePics 给历史评论补头像：只改确实缺失或和当前
// 用户头像不一致的行，其余不动
func BackfillMissingProfilePics(postID uint) error {
	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return err
	}

	pics := map[uint]string{}
	for _, c := range comments {
		if _, ok := pics[c.UserID]; ok {
			continue
		}
		var user models.User
		if err := db.DB.Select("profile_pic").First(&user, c.UserID).Error; err != nil {
			continue
		}
		pics[c.UserID] = user.ProfilePic
	}

	for _, c := range comments {
		pic, ok := pics[c.UserID]
		if !ok || c.ProfilePic == pic {
			continue
		}
		if err := db.DB.Model(&models.Comment{}).
			Where("id = ?", c.ID).
			Update("profile_pic", pic).Error; err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"
	"eduvault/internal/utils"
)

func createTestPost(t *testing.T, userID uint) *models.Post {
	t.Helper()
	post := models.Post{
		Pid:    utils.RandStringBytesMaskImpr(8),
		UserID: userID,
		Title:  "test post",
	}
	if err := db.DB.Create(&post).Error; err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return &post
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "commenter@example.com")
	post := createTestPost(t, user.ID)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := AddComment(post.ID, user.ID, text); err != ErrEmptyComment {
			t.Errorf("text %q: expected ErrEmptyComment, got %v", text, err)
		}
	}

	var count int64
	db.DB.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("no comment rows should exist, got %d", count)
	}
}

func TestReplyNestingIsOneLevel(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "nester@example.com")
	post := createTestPost(t, user.ID)

	comment, err := AddComment(post.ID, user.ID, "top level")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	reply, err := AddReply(post.ID, user.ID, comment.Cid, "a reply")
	if err != nil || reply == nil {
		t.Fatalf("add reply: %v", err)
	}

	// 对回复再回复应被静默丢弃
	nested, err := AddReply(post.ID, user.ID, reply.Cid, "too deep")
	if err != nil {
		t.Fatalf("nested reply: %v", err)
	}
	if nested != nil {
		t.Error("reply to a reply should be dropped")
	}

	// 父评论不存在同样丢弃
	ghost, err := AddReply(post.ID, user.ID, "missingid", "orphan")
	if err != nil {
		t.Fatalf("orphan reply: %v", err)
	}
	if ghost != nil {
		t.Error("reply to missing parent should be dropped")
	}

	tree, err := BuildCommentTree(post.ID, 0)
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	if len(tree) != 1 || len(tree[0].Replies) != 1 {
		t.Errorf("expected 1 comment with 1 reply, got %+v", tree)
	}
}

func TestToggleCommentLike(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "liker@example.com")
	post := createTestPost(t, user.ID)
	comment, _ := AddComment(post.ID, user.ID, "like me")

	liked, err := ToggleCommentLike(comment.ID, user.ID)
	if err != nil || !liked {
		t.Fatalf("first toggle should like: liked=%v err=%v", liked, err)
	}

	liked, err = ToggleCommentLike(comment.ID, user.ID)
	if err != nil || liked {
		t.Fatalf("second toggle should unlike: liked=%v err=%v", liked, err)
	}

	var count int64
	db.DB.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&count)
	if count != 0 {
		t.Errorf("toggle pair should leave no like rows, got %d", count)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "owner@example.com")
	author := createTestUser(t, "author2@example.com")
	stranger := createTestUser(t, "stranger@example.com")
	post := createTestPost(t, owner.ID)

	comment, _ := AddComment(post.ID, author.ID, "delete me maybe")
	AddReply(post.ID, owner.ID, comment.Cid, "a reply")

	// 无关用户删除是静默拒绝
	if err := DeleteComment(comment.Cid, stranger); err != nil {
		t.Fatalf("unauthorized delete should not error: %v", err)
	}
	var count int64
	db.DB.Model(&models.Comment{}).Count(&count)
	if count != 2 {
		t.Errorf("comments should survive unauthorized delete, got %d", count)
	}

	// 帖子作者可以删除，连同回复
	if err := DeleteComment(comment.Cid, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	db.DB.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("comment and replies should be gone, got %d", count)
	}
}

func TestBackfillMissingProfilePics(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "pics@example.com")
	post := createTestPost(t, user.ID)

	comment, _ := AddComment(post.ID, user.ID, "before avatar upload")

	// 用户随后换了头像
	db.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_pic", "/img/new.png")

	if err := BackfillMissingProfilePics(post.ID); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	var fresh models.Comment
	db.DB.First(&fresh, comment.ID)
	if fresh.ProfilePic != "/img/new.png" {
		t.Errorf("expected patched profile pic, got %q", fresh.ProfilePic)
	}
}

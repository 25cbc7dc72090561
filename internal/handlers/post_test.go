package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"
	"eduvault/internal/services"

	"github.com/gin-gonic/gin"
)

func TestDetailPatchesStaleCommentAvatars(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "detail@example.com")
	post := createTestPost(t, user.ID)

	comment, err := services.AddComment(post.ID, user.ID, "written before avatar change")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	// 用户随后换了头像，老评论里的冗余字段已过期
	db.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("profile_pic", "/img/fresh.png")

	r := gin.New()
	r.GET("/api/posts/:pid", NewPostHandler().Detail)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+post.Pid, nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Comments []struct {
			ProfilePic string `json:"profilePic"`
		} `json:"comments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Comments) != 1 || body.Comments[0].ProfilePic != "/img/fresh.png" {
		t.Errorf("detail should serve patched avatars, got %+v", body.Comments)
	}

	var fresh models.Comment
	if err := db.DB.First(&fresh, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if fresh.ProfilePic != "/img/fresh.png" {
		t.Errorf("expected persisted avatar patch, got %q", fresh.ProfilePic)
	}
}

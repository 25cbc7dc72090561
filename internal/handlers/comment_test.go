package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eduvault/internal/db"
	"eduvault/internal/models"
	"eduvault/internal/services"

	"github.com/gin-gonic/gin"
)

func TestDeleteCommentStatusCodes(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "deleter@example.com")
	post := createTestPost(t, user.ID)
	comment, err := services.AddComment(post.ID, user.ID, "soon gone")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	r := gin.New()
	r.Use(asUser(user))
	r.DELETE("/api/comments/:cid", NewCommentHandler().Delete)

	// 不存在的 cid 是 404
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/comments/missing1", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing comment: expected 404, got %d", w.Code)
	}

	// 作者删除自己的评论成功
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/comments/"+comment.Cid, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("author delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("comment should be gone, got %d rows", count)
	}
}

package services

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func buildMultipartFile(t *testing.T, name, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	file, header, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("parse form file: %v", err)
	}
	return file, header
}

func TestUploadToImgur(t *testing.T) {
	// 模拟 Imgur API
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Client-ID ") {
			t.Errorf("Expected Client-ID auth, got %s", r.Header.Get("Authorization"))
		}

		var resp ImgurResponse
		resp.Success = true
		resp.Status = 200
		resp.Data.ID = "abc123"
		resp.Data.Link = "https://i.imgur.com/abc123.png"
		resp.Data.Type = "image/png"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	os.Setenv("IMGUR_CLIENT_ID", "test-client")
	oldURL := imgurAPIURL
	imgurAPIURL = server.URL
	defer func() { imgurAPIURL = oldURL }()

	file, header := buildMultipartFile(t, "photo.png", "fake png bytes")
	result, err := UploadToImgur(file, header)
	if err != nil {
		t.Fatalf("UploadToImgur failed: %v", err)
	}
	if result.ID != "abc123" {
		t.Errorf("Expected id abc123, got %s", result.ID)
	}
	if result.URL != "/img/abc123.png" {
		t.Errorf("Expected proxy url /img/abc123.png, got %s", result.URL)
	}
}

func TestUploadToImgurRequiresClientID(t *testing.T) {
	os.Unsetenv("IMGUR_CLIENT_ID")

	file, header := buildMultipartFile(t, "photo.jpg", "bytes")
	if _, err := UploadToImgur(file, header); err == nil {
		t.Error("expected error without IMGUR_CLIENT_ID")
	}
}

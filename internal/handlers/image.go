package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"eduvault/internal/services"

	"github.com/gin-gonic/gin"
)

// 盗链提醒 SVG 图片
const hotlinkSVG = `<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f8f9fa"/>
  <text x="50%" y="50%" font-family="Arial" font-size="14" fill="#6c757d" text-anchor="middle">
    For EduVault use only
  </text>
</svg>`

// ImageHandler 图片处理 Handler
type ImageHandler struct{}

// NewImageHandler 创建 ImageHandler 实例
func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// Upload 处理图片上传请求 (POST /api/upload)
// 需要用户已登录
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "pick an image to upload",
		})
		return
	}
	defer file.Close()

	// 验证文件类型
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "only image files are allowed",
		})
		return
	}

	// 验证文件大小（限制 10MB）
	if header.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "image must be under 10MB",
		})
		return
	}

	// 上传到 Imgur
	result, err := services.UploadImage(file, header)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   fmt.Sprintf("upload failed: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     result.URL,
		"id":      result.ID,
	})
}

// Proxy 反代 Imgur 图片 (GET /img/:id)
// 使用 Sec-Fetch-* 头部检测盗链
func (h *ImageHandler) Proxy(c *gin.Context) {
	imageID := c.Param("id")
	if imageID == "" {
		c.String(http.StatusBadRequest, "missing image id")
		return
	}

	// 防盗链检测：使用 Sec-Fetch-* 头部
	if !isAllowedRequest(c) {
		c.Header("Content-Type", "image/svg+xml")
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.String(http.StatusOK, hotlinkSVG)
		return
	}

	// 解析图片 ID 和扩展名
	ext := filepath.Ext(imageID)
	id := strings.TrimSuffix(imageID, ext)
	if ext == "" {
		ext = ".jpg" // 默认扩展名
	}

	// 构建 Imgur URL
	imgurURL := fmt.Sprintf("https://i.imgur.com/%s%s", id, ext)

	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest("GET", imgurURL, nil)
	if err != nil {
		c.String(http.StatusInternalServerError, "request failed")
		return
	}

	// 设置请求头，模拟浏览器
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		c.String(http.StatusBadGateway, "could not fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.String(resp.StatusCode, "image not found")
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		c.Header("Content-Type", contentType)
	}

	// 缓存控制：缓存 7 天
	c.Header("Cache-Control", "public, max-age=604800")
	c.Header("Vary", "Sec-Fetch-Site, Sec-Fetch-Mode")

	// 流式复制响应
	c.Status(http.StatusOK)
	io.Copy(c.Writer, resp.Body)
}

// isAllowedRequest 使用 Sec-Fetch-* 头部检测是否为合法请求
func isAllowedRequest(c *gin.Context) bool {
	secFetchSite := c.GetHeader("Sec-Fetch-Site")
	secFetchMode := c.GetHeader("Sec-Fetch-Mode")

	// 没有 Sec-Fetch-* 头部（旧浏览器或直接访问）
	if secFetchSite == "" {
		return true
	}
	if secFetchSite == "same-origin" || secFetchSite == "same-site" || secFetchSite == "none" {
		return true
	}
	// navigate 模式：用户在新标签页打开图片
	if secFetchMode == "navigate" {
		return true
	}

	// cross-site 且非导航，视为盗链
	return false
}

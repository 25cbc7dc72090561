package handlers

import (
	"net/http"

	"eduvault/internal/middleware"
	"eduvault/internal/models"

	"github.com/gin-gonic/gin"
)

// JSON helper to inject common fields like unread count
func JSON(c *gin.Context, code int, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if _, exists := c.Get(middleware.CheckUserKey); exists {
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["unreadCount"] = int(count.(int64))
		} else {
			obj["unreadCount"] = 0
		}
	}
	c.JSON(code, obj)
}

// Error helper
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func JSONNotFound(c *gin.Context) {
	JSONError(c, http.StatusNotFound, "not found")
}

// CurrentUserOrAbort 未登录直接回 401 并返回 nil
func CurrentUserOrAbort(c *gin.Context) *models.User {
	if user := middleware.CurrentUser(c); user != nil {
		return user
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	return nil
}

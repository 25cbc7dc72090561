package utils

import (
	"time"
)

// GetUserLevel 根据终身积分返回学习者等级
func GetUserLevel(balance int) (name string, icon string) {
	switch {
	case balance >= 5000:
		return "Mentor", "🏆"
	case balance >= 2000:
		return "Scholar", "🎓"
	case balance >= 500:
		return "Explorer", "🚀"
	case balance >= 100:
		return "Learner", "📚"
	default:
		return "Newcomer", "🌱"
	}
}

// GetDaysSinceJoined 计算加入天数
func GetDaysSinceJoined(createdAt time.Time) int {
	return int(time.Since(createdAt).Hours() / 24)
}

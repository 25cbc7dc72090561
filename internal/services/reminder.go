package services

import (
	"log"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/models"
)

// StartClassReminderJob 每天早上 8 点给当天课程的感兴趣用户发提醒邮件
func StartClassReminderJob(mail *MailService) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			sendTodayReminders(mail)
		}
	}()
}

func sendTodayReminders(mail *MailService) {
	today := Today()

	var classes []models.Class
	if err := db.DB.Where("class_date = ?", today).Find(&classes).Error; err != nil {
		log.Printf("课程提醒查询失败: %v", err)
		return
	}

	sent := 0
	for _, class := range classes {
		var userIDs []uint
		db.DB.Model(&models.ClassInterest{}).
			Where("class_id = ?", class.ID).
			Pluck("user_id", &userIDs)
		if len(userIDs) == 0 {
			continue
		}

		var users []models.User
		db.DB.Where("id IN ?", userIDs).Find(&users)
		for _, user := range users {
			mail.SendClassReminder(user.Email, class.ClassName, class.ClassDate, class.ClassTime, class.ClassLink)
			sent++
		}
	}

	log.Printf("今日课程提醒发送 %d 封 (%d 个课程)", sent, len(classes))
}

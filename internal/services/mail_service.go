package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("⚠️ MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

// 邮件正文直接内联，省掉运行目录下的模板文件依赖
const welcomeTmpl = `<div style="font-family:sans-serif;max-width:520px;margin:0 auto">
<h2>Welcome to EduVault!</h2>
<p>Use the verification code below to activate your account:</p>
<p style="font-size:28px;letter-spacing:4px;font-weight:bold">{{.Code}}</p>
<p>If you did not sign up, you can safely ignore this email.</p>
</div>`

const resetTmpl = `<div style="font-family:sans-serif;max-width:520px;margin:0 auto">
<h3>Password reset requested</h3>
<p>Use this code to reset your EduVault password:</p>
<p style="font-size:28px;letter-spacing:4px;font-weight:bold">{{.Code}}</p>
<p>If this was not you, your account is still safe and no action is needed.</p>
</div>`

const commentTmpl = `<div style="font-family:sans-serif;max-width:520px;margin:0 auto">
<p><b>{{.ActiveUser}}</b> replied under <b>{{.PostTitle}}</b>:</p>
<blockquote style="border-left:3px solid #ccc;padding-left:12px;color:#555">{{.ReplyContent}}</blockquote>
<p><a href="{{.PostLink}}">View the conversation</a></p>
</div>`

const classReminderTmpl = `<div style="font-family:sans-serif;max-width:520px;margin:0 auto">
<h3>{{.ClassName}} is coming up</h3>
<p>{{.ClassDate}} at {{.ClassTime}}</p>
<p><a href="{{.ClassLink}}">Join the class</a></p>
</div>`

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: EduVault <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("❌ Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("✅ Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) render(name, text string, data interface{}) (string, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *MailService) SendWelcomeEmail(email, code string) {
	body, err := s.render("welcome", welcomeTmpl, map[string]string{
		"Code": code,
	})
	if err != nil {
		log.Printf("Error rendering welcome email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "Welcome to EduVault, please verify your email", body)
}

func (s *MailService) SendPasswordResetEmail(email, code string) {
	body, err := s.render("reset", resetTmpl, map[string]string{
		"Code": code,
	})
	if err != nil {
		log.Printf("Error rendering reset email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "[EduVault] Password reset code", body)
}

func (s *MailService) SendCommentNotification(email, activeUser, postTitle, replyContent, postLink string) {
	body, err := s.render("comment", commentTmpl, map[string]string{
		"ActiveUser":   activeUser,
		"PostTitle":    postTitle,
		"ReplyContent": replyContent,
		"PostLink":     postLink,
	})
	if err != nil {
		log.Printf("Error rendering comment email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "💬 "+activeUser+" replied to you on EduVault", body)
}

func (s *MailService) SendClassReminder(email, className, classDate, classTime, classLink string) {
	body, err := s.render("reminder", classReminderTmpl, map[string]string{
		"ClassName": className,
		"ClassDate": classDate,
		"ClassTime": classTime,
		"ClassLink": classLink,
	})
	if err != nil {
		log.Printf("Error rendering class reminder email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "⏰ Reminder: "+className, body)
}

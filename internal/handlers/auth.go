package handlers

import (
	"net/http"

	"eduvault/internal/db"
	"eduvault/internal/models"
	"eduvault/internal/services"
	"eduvault/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	mailService    *services.MailService
	captchaService *services.CaptchaService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService:    services.NewMailService(),
		captchaService: services.NewCaptchaService(),
	}
}

// Captcha 下发算术验证码并把答案放进 session
func (h *AuthHandler) Captcha(c *gin.Context) {
	captchaType := c.Query("type") // "register" or "reset"
	question, answer := h.captchaService.GenerateMathProblem()

	session := sessions.Default(c)
	if captchaType == "reset" {
		session.Set("reset_captcha_answer", answer)
	} else {
		session.Set("captcha_answer", answer)
	}
	session.Save()

	c.JSON(http.StatusOK, gin.H{"captcha": question})
}

type registerForm struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Captcha   string `json:"captcha" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid signup payload")
		return
	}

	// Validate Captcha
	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("captcha_answer").(int)
	if !ok || utils.StringToInt(form.Captcha) != expectedAnswer {
		JSONError(c, http.StatusBadRequest, "captcha answer is wrong")
		return
	}
	// Clear captcha after use
	session.Delete("captcha_answer")
	session.Save()

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "could not create account")
		return
	}

	user := models.User{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Password:    hash,
		Role:        "user",
		LastUpdated: services.Today(),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		JSONError(c, http.StatusConflict, "email already registered")
		return
	}

	// Send Activation Email
	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	db.DB.Save(&user)
	h.mailService.SendWelcomeEmail(form.Email, code)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Check your inbox for the activation code.",
	})
}

type activateForm struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

func (h *AuthHandler) Activate(c *gin.Context) {
	var form activateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", form.Email).First(&user).Error; err != nil {
		JSONError(c, http.StatusBadRequest, "account not found")
		return
	}

	if user.IsActivated {
		c.JSON(http.StatusOK, gin.H{"message": "Account already activated."})
		return
	}

	if user.VerifyCode != form.Code {
		JSONError(c, http.StatusBadRequest, "activation code is wrong")
		return
	}

	user.IsActivated = true
	user.VerifyCode = "" // 清除验证码
	db.DB.Save(&user)

	// 激活成功后自动登录
	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Account activated.", "user": user})
}

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", form.Email).First(&user).Error; err != nil {
		JSONError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	if !utils.CheckPasswordHash(form.Password, user.Password) {
		JSONError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	// 检查用户是否被封禁
	if user.Status == 2 {
		JSONError(c, http.StatusForbidden, "your account has been banned")
		return
	}

	// 检查未激活
	if !user.IsActivated {
		JSONError(c, http.StatusUnauthorized, "account not activated, check your inbox")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

type forgotForm struct {
	Email   string `json:"email" binding:"required,email"`
	Captcha string `json:"captcha" binding:"required"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var form forgotForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	session := sessions.Default(c)
	expectedAnswer, ok := session.Get("reset_captcha_answer").(int)
	if !ok || utils.StringToInt(form.Captcha) != expectedAnswer {
		JSONError(c, http.StatusBadRequest, "captcha answer is wrong")
		return
	}
	session.Delete("reset_captcha_answer")
	session.Save()

	var user models.User
	if err := db.DB.Where("email = ?", form.Email).First(&user).Error; err != nil {
		// 不暴露账号是否存在
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent."})
		return
	}

	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	db.DB.Save(&user)
	h.mailService.SendPasswordResetEmail(form.Email, code)

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent."})
}

type resetForm struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form resetForm
	if err := c.ShouldBindJSON(&form); err != nil {
		JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", form.Email).First(&user).Error; err != nil {
		JSONError(c, http.StatusBadRequest, "account not found")
		return
	}

	if user.VerifyCode == "" || user.VerifyCode != form.Code {
		JSONError(c, http.StatusBadRequest, "reset code is wrong or expired")
		return
	}

	hash, _ := utils.HashPassword(form.Password)
	user.Password = hash
	user.VerifyCode = "" // Clear code
	db.DB.Save(&user)

	c.JSON(http.StatusOK, gin.H{"message": "Password reset. You can sign in now."})
}

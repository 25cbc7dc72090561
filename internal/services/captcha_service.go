package services

import (
	"fmt"
	"math/rand"
	"time"
)

// CaptchaService 注册/找回密码用的算术验证码
type CaptchaService struct {
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateMathProblem 出一道算术题，返回题面（如 "7 + 3"）和整数答案。
// 答案存 session，题面下发给前端。
func (s *CaptchaService) GenerateMathProblem() (string, int) {
	a := 2 + s.rnd.Intn(8) // 2-9
	b := 1 + s.rnd.Intn(9) // 1-9

	switch s.rnd.Intn(3) {
	case 0:
		return fmt.Sprintf("%d + %d", a, b), a + b
	case 1:
		// 减法不出负数
		if a < b {
			a, b = b, a
		}
		return fmt.Sprintf("%d - %d", a, b), a - b
	default:
		// 乘法控制在个位数相乘
		return fmt.Sprintf("%d × %d", a, b), a * b
	}
}

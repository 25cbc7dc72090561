package utils

import "strconv"

// StringToInt 宽松转整数，解析失败按 0 处理（验证码答案用）
func StringToInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// ParsePage 解析分页参数，非法或缺省回落到第 1 页
func ParsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

package utils

import (
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := GetCache()

	c.Set("k1", "hello", time.Minute)
	if got := c.Get("k1"); got != "hello" {
		t.Errorf("expected cached value, got %v", got)
	}

	c.Delete("k1")
	if got := c.Get("k1"); got != nil {
		t.Errorf("deleted key should be gone, got %v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := GetCache()

	// 已过期的条目读取时惰性剔除
	c.Set("k2", "stale", -time.Second)
	if got := c.Get("k2"); got != nil {
		t.Errorf("expired entry should return nil, got %v", got)
	}
}

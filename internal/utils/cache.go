package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// 帖子/课程列表接口的本地响应缓存，LRU 淘汰 + 每条独立 TTL
const cacheCapacity = 500

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// GlobalCache 进程内缓存封装
type GlobalCache struct {
	entries *lru.Cache[string, cacheEntry]
}

var (
	cacheInstance *GlobalCache
	cacheOnce     sync.Once
)

// GetCache 获取单例缓存实例
func GetCache() *GlobalCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheEntry](cacheCapacity)
		if err != nil {
			log.Fatalf("初始化响应缓存失败: %v", err)
		}
		cacheInstance = &GlobalCache{entries: l}
	})
	return cacheInstance
}

// Set 写入缓存并指定存活时间
func (c *GlobalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.entries.Add(key, cacheEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 读取缓存，不存在或已过期返回 nil
func (c *GlobalCache) Get(key string) interface{} {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return nil
	}
	return entry.data
}

// Delete 主动失效某个键，发帖、建课后刷新列表用
func (c *GlobalCache) Delete(key string) {
	c.entries.Remove(key)
}

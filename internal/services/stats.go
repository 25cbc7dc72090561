package services

import (
	"log"
	"sync"
	"time"

	"eduvault/internal/db"
	"eduvault/internal/models"
)

// StatsService 异步刷新课程统计字段（感兴趣人数、讲师评分快照）
type StatsService struct {
	queue   chan uint // 待刷新的课程 ID 队列
	pending map[uint]bool
	mu      sync.Mutex
}

var (
	statsService *StatsService
	statsOnce    sync.Once
)

// GetStatsService 获取单例统计服务
func GetStatsService() *StatsService {
	statsOnce.Do(func() {
		statsService = &StatsService{
			queue:   make(chan uint, 1000), // 缓冲队列，防止阻塞
			pending: make(map[uint]bool),
		}
		// 启动后台 worker
		go statsService.worker()
	})
	return statsService
}

// ScheduleUpdate 将课程加入刷新队列（异步）
// 去重机制避免短时间内重复计算同一课程
func (s *StatsService) ScheduleUpdate(classID uint) {
	s.mu.Lock()
	if s.pending[classID] {
		// 已在队列中，跳过
		s.mu.Unlock()
		return
	}
	s.pending[classID] = true
	s.mu.Unlock()

	// 非阻塞发送到队列
	select {
	case s.queue <- classID:
	default:
		// 队列满了，移除 pending 标记
		s.mu.Lock()
		delete(s.pending, classID)
		s.mu.Unlock()
		log.Printf("课程统计队列已满，跳过课程 %d", classID)
	}
}

// worker 后台处理队列中的刷新请求
func (s *StatsService) worker() {
	batch := make([]uint, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case classID := <-s.queue:
			batch = append(batch, classID)
			if len(batch) >= 50 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.processBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *StatsService) processBatch(classIDs []uint) {
	for _, classID := range classIDs {
		s.updateClassStats(classID)

		s.mu.Lock()
		delete(s.pending, classID)
		s.mu.Unlock()
	}
}

// updateClassStats 重算单个课程的统计字段
func (s *StatsService) updateClassStats(classID uint) {
	var class models.Class
	if err := db.DB.First(&class, classID).Error; err != nil {
		log.Printf("刷新统计失败：课程 %d 不存在", classID)
		return
	}

	// 感兴趣人数
	var interested int64
	db.DB.Model(&models.ClassInterest{}).Where("class_id = ?", classID).Count(&interested)

	// 讲师当前平均评分快照
	rating := InstructorAverageRating(class.ProcterID)

	if err := db.DB.Model(&class).Updates(map[string]interface{}{
		"interested_count": interested,
		"proctor_rating":   rating,
	}).Error; err != nil {
		log.Printf("刷新课程 %d 统计失败: %v", classID, err)
	}
}

// UpdateClassStatsSync 同步刷新，评分接口等需要立即生效的场景用
func UpdateClassStatsSync(classID uint) {
	GetStatsService().updateClassStats(classID)
}

// StartScheduledStatsUpdate 启动定时刷新任务（每天凌晨 3 点执行）
func (s *StatsService) StartScheduledStatsUpdate() {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, now.Location())
			if now.After(next) {
				next = next.Add(24 * time.Hour)
			}
			time.Sleep(time.Until(next))

			log.Println("开始定时刷新课程统计...")
			s.refreshUpcomingClasses()
			log.Println("定时刷新课程统计完成")
		}
	}()
}

// refreshUpcomingClasses 刷新未来课程和最近 30 天创建的课程
func (s *StatsService) refreshUpcomingClasses() {
	processed := make(map[uint]bool)
	count := 0

	today := Today()
	var upcoming []models.Class
	db.DB.Where("class_date >= ?", today).Select("id").Find(&upcoming)
	for _, c := range upcoming {
		s.updateClassStats(c.ID)
		processed[c.ID] = true
		count++
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	var recent []models.Class
	db.DB.Where("created_at >= ?", thirtyDaysAgo).Select("id").Find(&recent)
	for _, c := range recent {
		if !processed[c.ID] {
			s.updateClassStats(c.ID)
			count++
		}
	}

	log.Printf("本次刷新 %d 个课程统计", count)
}

package app

import (
	"context"
	"sync"

	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/session"
)

// HydrationService 启动时从安全存储加载会话
type HydrationService struct {
	store    *session.Store
	done     chan struct{}
	stopOnce sync.Once
}

// NewHydrationService 创建会话加载服务
func NewHydrationService(store *session.Store) *HydrationService {
	return &HydrationService{store: store, done: make(chan struct{})}
}

// Name 服务名称
func (s *HydrationService) Name() string {
	return "session_hydration"
}

// Start 加载一次会话后阻塞到退出
// 读取失败不终止进程，会话按未登录处理
func (s *HydrationService) Start(ctx context.Context) error {
	if err := s.store.Hydrate(ctx); err != nil {
		logger.Errorw("session_hydrate_failed", "error", err)
	} else {
		logger.Infow("session_hydrate_done", "state", s.store.State())
	}
	select {
	case <-ctx.Done():
	case <-s.done:
	}
	return nil
}

// Stop 停止服务
func (s *HydrationService) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// Package session 进程内会话状态，与安全存储保持一致
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/storage"
)

// State 会话状态
type State string

const (
	StateHydrating       State = "hydrating"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

var (
	ErrNotAuthenticated = fmt.Errorf("%w: not authenticated", apperr.ErrValidation)
	ErrInvalidUser      = fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	ErrInvalidToken     = fmt.Errorf("%w: auth token is required", apperr.ErrValidation)
	ErrEmptyProfile     = fmt.Errorf("%w: profile patch is empty", apperr.ErrValidation)
)

// Snapshot 会话只读快照
type Snapshot struct {
	State State        `json:"state"`
	User  *models.User `json:"user"`
	Image string       `json:"image"`
}

// Store 会话存储
// 所有变更经 opMu 串行执行，持久化成功后才提交内存状态
type Store struct {
	storage storage.Storage

	opMu sync.Mutex

	mu    sync.RWMutex
	state State
	user  *models.User
	token string

	hydrated     chan struct{}
	hydratedOnce sync.Once
}

// NewStore 创建会话存储，初始状态为 hydrating
func NewStore(store storage.Storage) *Store {
	return &Store{
		storage:  store,
		state:    StateHydrating,
		hydrated: make(chan struct{}),
	}
}

// Hydrate 从存储读取用户与 token
// 两者都存在且用户可解析时为 authenticated，否则 unauthenticated
func (s *Store) Hydrate(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	defer s.markHydrated()

	blob, hasUser, err := s.storage.Get(ctx, constants.StorageKeyUser)
	if err != nil {
		s.commit(nil, "")
		return apperr.Persistence("get", constants.StorageKeyUser, err)
	}
	token, hasToken, err := s.storage.Get(ctx, constants.StorageKeyToken)
	if err != nil {
		s.commit(nil, "")
		return apperr.Persistence("get", constants.StorageKeyToken, err)
	}
	token = strings.TrimSpace(token)
	if !hasUser || !hasToken || token == "" || strings.TrimSpace(blob) == "" {
		s.commit(nil, "")
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(blob), &user); err != nil {
		logger.Warnw("session_hydrate_user_decode_failed", "error", err)
		s.commit(nil, "")
		return nil
	}
	if user.ID.IsZero() {
		logger.Warnw("session_hydrate_user_invalid")
		s.commit(nil, "")
		return nil
	}
	s.commit(&user, token)
	logger.Debugw("session_hydrated", "user_id", user.ID)
	return nil
}

// WaitHydrated 等待首次加载完成
func (s *Store) WaitHydrated(ctx context.Context) error {
	select {
	case <-s.hydrated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login 持久化用户与 token 后切换为 authenticated
// 写入失败时内存状态不变，并尽力恢复之前的持久化内容
func (s *Store) Login(ctx context.Context, user models.User, token string) error {
	token = strings.TrimSpace(token)
	if user.ID.IsZero() {
		return ErrInvalidUser
	}
	if token == "" {
		return ErrInvalidToken
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.persist(ctx, user, token); err != nil {
		s.rollback(ctx)
		logger.Warnw("session_login_persist_failed", "user_id", user.ID, "error", err)
		return err
	}
	s.commit(&user, token)
	s.markHydrated()
	logger.Infow("session_login", "user_id", user.ID)
	return nil
}

// UpdateProfile 合并资料字段并持久化，token 不变
func (s *Store) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.User, error) {
	if patch.Empty() {
		return models.User{}, ErrEmptyProfile
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.RLock()
	current, token, state := s.user, s.token, s.state
	s.mu.RUnlock()
	if state != StateAuthenticated || current == nil {
		return models.User{}, ErrNotAuthenticated
	}

	merged := current.Apply(patch)
	blob, err := json.Marshal(merged)
	if err != nil {
		return models.User{}, fmt.Errorf("encode user failed: %w", err)
	}
	if err := s.storage.Set(ctx, constants.StorageKeyUser, string(blob)); err != nil {
		return models.User{}, apperr.Persistence("set", constants.StorageKeyUser, err)
	}
	s.commit(&merged, token)
	return merged, nil
}

// Logout 清除全部持久化键后切换为 unauthenticated
// 任一键删除失败时返回错误且保留内存状态
func (s *Store) Logout(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var errs []error
	for _, key := range []string{constants.StorageKeyUser, constants.StorageKeyToken, constants.StorageKeyUserID} {
		if err := s.storage.Delete(ctx, key); err != nil {
			errs = append(errs, apperr.Persistence("delete", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Warnw("session_logout_clear_failed", "error", err)
		return err
	}

	s.commit(nil, "")
	s.markHydrated()
	logger.Infow("session_logout")
	return nil
}

// State 当前状态
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated 是否已登录
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// CurrentUser 当前用户副本，未登录返回 nil
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token 当前 token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID 当前用户 ID
func (s *Store) UserID() models.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// UserImage 用户头像，未设置时返回默认头像
func (s *Store) UserImage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || strings.TrimSpace(s.user.Photo) == "" {
		return constants.DefaultUserImage
	}
	return s.user.Photo
}

// Snapshot 状态快照
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		State: s.State(),
		User:  s.CurrentUser(),
		Image: s.UserImage(),
	}
}

func (s *Store) persist(ctx context.Context, user models.User, token string) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user failed: %w", err)
	}
	if err := s.storage.Set(ctx, constants.StorageKeyUser, string(blob)); err != nil {
		return apperr.Persistence("set", constants.StorageKeyUser, err)
	}
	if err := s.storage.Set(ctx, constants.StorageKeyToken, token); err != nil {
		return apperr.Persistence("set", constants.StorageKeyToken, err)
	}
	if err := s.storage.Set(ctx, constants.StorageKeyUserID, user.ID.String()); err != nil {
		return apperr.Persistence("set", constants.StorageKeyUserID, err)
	}
	return nil
}

// rollback 恢复为当前内存会话对应的持久化内容，失败仅记录日志
func (s *Store) rollback(ctx context.Context) {
	s.mu.RLock()
	previous, token := s.user, s.token
	s.mu.RUnlock()

	var err error
	if previous != nil && token != "" {
		err = s.persist(ctx, *previous, token)
	} else {
		err = errors.Join(
			s.storage.Delete(ctx, constants.StorageKeyUser),
			s.storage.Delete(ctx, constants.StorageKeyToken),
			s.storage.Delete(ctx, constants.StorageKeyUserID),
		)
	}
	if err != nil {
		logger.Warnw("session_rollback_failed", "error", err)
	}
}

func (s *Store) commit(user *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil || token == "" {
		s.user = nil
		s.token = ""
		s.state = StateUnauthenticated
		return
	}
	copied := *user
	s.user = &copied
	s.token = token
	s.state = StateAuthenticated
}

func (s *Store) markHydrated() {
	s.hydratedOnce.Do(func() {
		close(s.hydrated)
	})
}

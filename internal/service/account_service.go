package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/logger"
	"github.com/freshcart/internal/models"
	"github.com/freshcart/internal/session"
)

// AccountService 账户服务：登录注册、资料、地址
type AccountService struct {
	api     AccountAPI
	session *session.Store
}

// NewAccountService 创建账户服务
func NewAccountService(api AccountAPI, store *session.Store) *AccountService {
	return &AccountService{api: api, session: store}
}

// Login 远端登录后写入会话
func (s *AccountService) Login(ctx context.Context, creds apiclient.Credentials) (*models.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}
	result, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result)
}

// Register 远端注册后写入会话
func (s *AccountService) Register(ctx context.Context, reg apiclient.Registration) (*models.User, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return nil, ErrInvalidRegistration
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidRegistration)
	}
	result, err := s.api.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, result)
}

// Profile 当前用户（不发起网络请求）
func (s *AccountService) Profile() (*models.User, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, session.ErrNotAuthenticated
	}
	return user, nil
}

// RefreshProfile 从远端拉取资料并覆盖本地会话
func (s *AccountService) RefreshProfile(ctx context.Context) (*models.User, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	user, err := s.api.GetProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	if user.ID.IsZero() {
		user.ID = s.session.UserID()
	}
	if err := s.session.Login(ctx, *user, token); err != nil {
		return nil, err
	}
	return s.session.CurrentUser(), nil
}

// UpdateProfile 远端更新成功后合并到本地会话，仅覆盖提交的字段
func (s *AccountService) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.User, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, session.ErrEmptyProfile
	}
	if _, err := s.api.UpdateProfile(ctx, token, patch); err != nil {
		return nil, err
	}
	merged, err := s.session.UpdateProfile(ctx, patch)
	if err != nil {
		logger.Warnw("account_profile_local_update_failed", "user_id", s.session.UserID(), "error", err)
		return nil, err
	}
	return &merged, nil
}

// Logout 清除会话
func (s *AccountService) Logout(ctx context.Context) error {
	userID := s.session.UserID()
	if err := s.session.Logout(ctx); err != nil {
		return err
	}
	logger.Infow("account_logout", "user_id", userID)
	return nil
}

// Addresses 地址列表
func (s *AccountService) Addresses(ctx context.Context) ([]models.Address, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.api.ListAddresses(ctx, token)
}

// AddAddress 新增地址
func (s *AccountService) AddAddress(ctx context.Context, input apiclient.AddressInput) (*models.Address, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	input.Label = strings.TrimSpace(input.Label)
	input.Line1 = strings.TrimSpace(input.Line1)
	input.Line2 = strings.TrimSpace(input.Line2)
	input.City = strings.TrimSpace(input.City)
	input.Postcode = strings.ToUpper(strings.TrimSpace(input.Postcode))
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Line1 == "" || input.City == "" || input.Postcode == "" {
		return nil, ErrAddressInvalid
	}
	return s.api.AddAddress(ctx, token, input)
}

// DeleteAddress 删除地址
func (s *AccountService) DeleteAddress(ctx context.Context, id models.ID) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	if id.IsZero() {
		return ErrAddressRequired
	}
	return s.api.DeleteAddress(ctx, token, id)
}

func (s *AccountService) establish(ctx context.Context, result *apiclient.AuthResult) (*models.User, error) {
	if result == nil || result.User.ID.IsZero() || strings.TrimSpace(result.Token) == "" {
		return nil, fmt.Errorf("%w: auth result missing user or token", apiclient.ErrInvalidResponse)
	}
	if err := s.session.Login(ctx, result.User, result.Token); err != nil {
		return nil, err
	}
	return s.session.CurrentUser(), nil
}

func (s *AccountService) token() (string, error) {
	if !s.session.IsAuthenticated() {
		return "", session.ErrNotAuthenticated
	}
	return s.session.Token(), nil
}

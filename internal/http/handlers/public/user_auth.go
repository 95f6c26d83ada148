package public

import (
	"github.com/freshcart/internal/apiclient"
	"github.com/freshcart/internal/http/response"
	"github.com/freshcart/internal/models"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// GetSession 当前会话状态（不发起网络请求）
func (h *Handler) GetSession(c *gin.Context) {
	response.Success(c, h.Session.Snapshot())
}

// UserLogin 登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if _, err := h.AccountService.Login(c.Request.Context(), apiclient.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, h.Session.Snapshot())
}

// UserRegister 注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if _, err := h.AccountService.Register(c.Request.Context(), apiclient.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}); err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, h.Session.Snapshot())
}

// UserLogout 登出
func (h *Handler) UserLogout(c *gin.Context) {
	if err := h.AccountService.Logout(c.Request.Context()); err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, h.Session.Snapshot())
}

// GetProfile 当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.AccountService.Profile()
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":  user,
		"image": h.Session.UserImage(),
	})
}

// UpdateProfile 局部更新资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	user, err := h.AccountService.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":  user,
		"image": h.Session.UserImage(),
	})
}

// RefreshProfile 从远端重新拉取资料
func (h *Handler) RefreshProfile(c *gin.Context) {
	user, err := h.AccountService.RefreshProfile(c.Request.Context())
	if err != nil {
		h.respondSessionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":  user,
		"image": h.Session.UserImage(),
	})
}

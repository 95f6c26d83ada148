package models

import "strings"

// User 登录用户资料
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Photo    string `json:"photo"`
}

// ProfilePatch 资料局部更新，nil 字段保持不变
type ProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Photo    *string `json:"photo,omitempty"`
}

// Empty 是否没有任何字段
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Username == nil && p.Email == nil && p.Phone == nil && p.Photo == nil
}

// Apply 返回合并后的副本
func (u User) Apply(p ProfilePatch) User {
	merged := u
	if p.Name != nil {
		merged.Name = strings.TrimSpace(*p.Name)
	}
	if p.Username != nil {
		merged.Username = strings.TrimSpace(*p.Username)
	}
	if p.Email != nil {
		merged.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		merged.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Photo != nil {
		merged.Photo = strings.TrimSpace(*p.Photo)
	}
	return merged
}

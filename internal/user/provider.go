package user

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"portfolio_engine/internal/model"

	"gopkg.in/yaml.v3"
)

// ErrInvalidToken token 不存在或为空
var ErrInvalidToken = errors.New("invalid token")

// Provider 定义了管理员鉴权的接口
type Provider interface {
	GetUserByToken(token string) (*model.User, error)
}

// StaticProvider 基于静态配置文件实现的用户提供者
type StaticProvider struct {
	tokenIndex map[string]*model.User
	mu         sync.RWMutex
}

type staticConfig struct {
	Users []model.User `yaml:"users"`
}

// NewStaticProvider 从 yaml 文件加载管理员列表
func NewStaticProvider(configPath string) (*StaticProvider, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var config staticConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return NewProvider(config.Users), nil
}

// NewProvider 直接由用户列表构建，token 为空的用户无法通过鉴权
func NewProvider(users []model.User) *StaticProvider {
	p := &StaticProvider{
		tokenIndex: make(map[string]*model.User, len(users)),
	}
	for i := range users {
		u := &users[i]
		if u.Token != "" {
			p.tokenIndex[u.Token] = u
		}
	}
	return p
}

// GetUserByToken 根据 Token 获取用户信息
func (p *StaticProvider) GetUserByToken(token string) (*model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.tokenIndex[token]
	if !ok || token == "" {
		return nil, ErrInvalidToken
	}
	return u, nil
}

package model

// User 代表可以调用管理接口的用户
type User struct {
	ID    string `json:"id" yaml:"id"`
	Token string `json:"-" yaml:"token"` // Token 用于鉴权，不序列化到 JSON
	Name  string `json:"name" yaml:"name"`
}

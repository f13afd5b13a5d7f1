// Package catalog 存储作品集的项目与技能数据，供排序时作为候选集
package catalog

import (
	"context"
	"errors"

	"portfolio_engine/internal/model"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalid 写入的数据未通过校验
	ErrInvalid = errors.New("invalid record")
)

// Store 定义目录存储接口
type Store interface {
	// ListProjects 列出项目，publishedOnly 为 true 时只返回已发布的项目
	ListProjects(ctx context.Context, publishedOnly bool) ([]*model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	// UpsertProject 新增或更新项目；ID 为 0 时新增并回填 ID
	UpsertProject(ctx context.Context, p *model.Project) error

	// ListSkills 按熟练度降序列出技能
	ListSkills(ctx context.Context) ([]*model.Skill, error)
	GetSkill(ctx context.Context, id int64) (*model.Skill, error)
	UpsertSkill(ctx context.Context, s *model.Skill) error

	// LinkSkill 关联项目与技能
	LinkSkill(ctx context.Context, link model.SkillLink) error
	// SkillProjects 返回使用了该技能的已发布项目
	SkillProjects(ctx context.Context, skillID int64) ([]model.SkillProject, error)
}

package catalog

import (
	"context"
	"fmt"
	"os"

	"portfolio_engine/internal/model"

	"gopkg.in/yaml.v3"
)

// SeedData 对应 seed yaml 文件
type SeedData struct {
	Projects []model.Project   `yaml:"projects"`
	Skills   []model.Skill     `yaml:"skills"`
	Links    []model.SkillLink `yaml:"links"`
}

// LoadSeed 读取 seed 文件
func LoadSeed(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// Seed 仅在目录为空时写入 seed 数据，返回是否写入
func Seed(ctx context.Context, store Store, seed *SeedData) (bool, error) {
	existing, err := store.ListProjects(ctx, false)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	for i := range seed.Projects {
		if err := store.UpsertProject(ctx, &seed.Projects[i]); err != nil {
			return false, fmt.Errorf("seed project %q: %w", seed.Projects[i].Title, err)
		}
	}
	for i := range seed.Skills {
		if err := store.UpsertSkill(ctx, &seed.Skills[i]); err != nil {
			return false, fmt.Errorf("seed skill %q: %w", seed.Skills[i].Name, err)
		}
	}
	for _, link := range seed.Links {
		if err := store.LinkSkill(ctx, link); err != nil {
			return false, fmt.Errorf("seed link: %w", err)
		}
	}
	return true, nil
}

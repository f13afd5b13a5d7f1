package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"portfolio_engine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Projects(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	shop := &model.Project{
		Title:       "Shop",
		Description: "online store",
		Tags:        []string{"flask", "sql", "flask"},
		Category:    "web",
		Published:   true,
	}
	require.NoError(t, store.UpsertProject(ctx, shop))
	require.NotZero(t, shop.ID)

	draft := &model.Project{Title: "Draft", Category: "web"}
	require.NoError(t, store.UpsertProject(ctx, draft))

	got, err := store.GetProject(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", got.Title)
	assert.Equal(t, "web", got.Category)
	assert.Equal(t, []string{"flask", "sql"}, got.Tags)
	assert.True(t, got.Published)

	published, err := store.ListProjects(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, shop.ID, published[0].ID)

	all, err := store.ListProjects(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []string{}, all[1].Tags)

	// 更新：替换标签与类别
	shop.Tags = []string{"go"}
	shop.Category = "backend"
	require.NoError(t, store.UpsertProject(ctx, shop))
	got, err = store.GetProject(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, "backend", got.Category)

	_, err = store.GetProject(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.UpsertProject(ctx, &model.Project{}))
}

func TestSQLiteStore_Skills(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	python := &model.Skill{Name: "Python", Level: 9, ExperienceYears: 3, ProjectsCount: 8}
	react := &model.Skill{Name: "React", Level: 7, ExperienceYears: 2, ProjectsCount: 5}
	require.NoError(t, store.UpsertSkill(ctx, react))
	require.NoError(t, store.UpsertSkill(ctx, python))

	skills, err := store.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Python", skills[0].Name)
	assert.Equal(t, "#007bff", skills[0].Color)

	_, err = store.GetSkill(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	api := &model.Project{Title: "API", Published: true}
	hidden := &model.Project{Title: "Hidden"}
	require.NoError(t, store.UpsertProject(ctx, api))
	require.NoError(t, store.UpsertProject(ctx, hidden))

	require.NoError(t, store.LinkSkill(ctx, model.SkillLink{ProjectID: api.ID, SkillID: python.ID, ProficiencyUsed: 8, IsPrimary: true}))
	require.NoError(t, store.LinkSkill(ctx, model.SkillLink{ProjectID: hidden.ID, SkillID: python.ID}))

	projects, err := store.SkillProjects(ctx, python.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "API", projects[0].Title)
	assert.Equal(t, 8, projects[0].Complexity)
	assert.True(t, projects[0].IsPrimary)
	assert.NotZero(t, projects[0].CompletionYear)

	err = store.LinkSkill(ctx, model.SkillLink{ProjectID: 404, SkillID: python.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	err = store.LinkSkill(ctx, model.SkillLink{ProjectID: api.ID, SkillID: 404})
	assert.ErrorIs(t, err, ErrNotFound)

	// 失败的关联不影响已有数据
	projects, err = store.SkillProjects(ctx, python.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	err = store.UpsertSkill(ctx, &model.Skill{Name: " "})
	assert.ErrorIs(t, err, ErrInvalid)
	err = store.UpsertProject(ctx, &model.Project{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `
projects:
  - id: 1
    title: Shop
    description: online store
    tags: [flask, sql]
    category: web
    published: true
  - id: 2
    title: Blog
    description: personal blog
    tags: [flask]
    category: web
    published: true
skills:
  - id: 1
    name: Flask
    level: 9
    projects: 6
    experience_years: 2
links:
  - project_id: 1
    skill_id: 1
    proficiency_used: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	assert.Len(t, seed.Projects, 2)

	seeded, err := Seed(ctx, store, seed)
	require.NoError(t, err)
	assert.True(t, seeded)

	// 第二次不重复写入
	seeded, err = Seed(ctx, store, seed)
	require.NoError(t, err)
	assert.False(t, seeded)

	projects, err := store.ListProjects(ctx, true)
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	linked, err := store.SkillProjects(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, linked, 1)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

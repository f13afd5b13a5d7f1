package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"portfolio_engine/internal/model"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	category_id INTEGER REFERENCES categories(id),
	is_published INTEGER NOT NULL DEFAULT 0,
	is_featured INTEGER NOT NULL DEFAULT 0,
	image_filename TEXT NOT NULL DEFAULT '',
	demo_url TEXT NOT NULL DEFAULT '',
	github_url TEXT NOT NULL DEFAULT '',
	likes_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS project_tags (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	tag_id INTEGER NOT NULL REFERENCES tags(id),
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (project_id, tag_id)
);

CREATE TABLE IF NOT EXISTS skills (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	level INTEGER NOT NULL DEFAULT 1,
	experience_years REAL NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	icon TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '#007bff',
	projects_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS project_skills (
	project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	skill_id INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
	proficiency_used INTEGER NOT NULL DEFAULT 5,
	is_primary INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (project_id, skill_id)
);

CREATE INDEX IF NOT EXISTS idx_projects_published ON projects(is_published);
CREATE INDEX IF NOT EXISTS idx_project_skills_skill ON project_skills(skill_id);
`

// SQLiteStore 基于 SQLite 的目录存储实现
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 打开数据库并初始化表结构
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	// SQLite 单写者
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close 关闭数据库连接
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const projectColumns = `
	p.id, p.title, p.description, p.content, COALESCE(c.name, ''),
	p.is_published, p.is_featured, p.image_filename, p.demo_url, p.github_url, p.likes_count`

func scanProject(row interface{ Scan(...any) error }) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Content, &p.Category,
		&p.Published, &p.Featured, &p.ImageFilename, &p.DemoURL, &p.GithubURL, &p.LikesCount)
	if err != nil {
		return nil, err
	}
	p.Tags = []string{}
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context, publishedOnly bool) ([]*model.Project, error) {
	query := `SELECT` + projectColumns + `
		FROM projects p LEFT JOIN categories c ON c.id = p.category_id`
	if publishedOnly {
		query += ` WHERE p.is_published = 1`
	}
	query += ` ORDER BY p.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*model.Project, 0)
	byID := make(map[int64]*model.Project)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	if err := s.loadTags(ctx, byID); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+projectColumns+`
		FROM projects p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}

	if err := s.loadTags(ctx, map[int64]*model.Project{p.ID: p}); err != nil {
		return nil, err
	}
	return p, nil
}

// loadTags 一次性加载所有项目的标签，保持写入时的顺序
func (s *SQLiteStore) loadTags(ctx context.Context, projects map[int64]*model.Project) error {
	if len(projects) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.project_id, t.name
		FROM project_tags pt JOIN tags t ON t.id = pt.tag_id
		ORDER BY pt.project_id, pt.position`)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID int64
		var name string
		if err := rows.Scan(&projectID, &name); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		if p, ok := projects[projectID]; ok {
			p.Tags = append(p.Tags, name)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) UpsertProject(ctx context.Context, p *model.Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: project title is required", ErrInvalid)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var categoryID sql.NullInt64
	if p.Category != "" {
		id, err := upsertName(ctx, tx, "categories", p.Category)
		if err != nil {
			return err
		}
		categoryID = sql.NullInt64{Int64: id, Valid: true}
	}

	args := []any{p.Title, p.Description, p.Content, categoryID, p.Published, p.Featured,
		p.ImageFilename, p.DemoURL, p.GithubURL, p.LikesCount}

	if p.ID == 0 {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO projects (title, description, content, category_id, is_published, is_featured,
				image_filename, demo_url, github_url, likes_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	} else {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, title, description, content, category_id, is_published, is_featured,
				image_filename, demo_url, github_url, likes_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				content = excluded.content,
				category_id = excluded.category_id,
				is_published = excluded.is_published,
				is_featured = excluded.is_featured,
				image_filename = excluded.image_filename,
				demo_url = excluded.demo_url,
				github_url = excluded.github_url,
				likes_count = excluded.likes_count`, append([]any{p.ID}, args...)...)
		if err != nil {
			return fmt.Errorf("upsert project %d: %w", p.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_tags WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("reset project tags: %w", err)
	}
	seen := make(map[string]struct{}, len(p.Tags))
	position := 0
	for _, tag := range p.Tags {
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}

		tagID, err := upsertName(ctx, tx, "tags", tag)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_tags (project_id, tag_id, position) VALUES (?, ?, ?)`,
			p.ID, tagID, position); err != nil {
			return fmt.Errorf("insert project tag: %w", err)
		}
		position++
	}

	return tx.Commit()
}

// upsertName 用于 categories/tags 这类只有 name 列的表
func upsertName(ctx context.Context, tx *sql.Tx, table, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+table+` (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("upsert %s %q: %w", table, name, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", table, name, err)
	}
	return id, nil
}

const skillColumns = `id, name, level, experience_years, description, icon, color, projects_count`

func scanSkill(row interface{ Scan(...any) error }) (*model.Skill, error) {
	var sk model.Skill
	err := row.Scan(&sk.ID, &sk.Name, &sk.Level, &sk.ExperienceYears,
		&sk.Description, &sk.Icon, &sk.Color, &sk.ProjectsCount)
	if err != nil {
		return nil, err
	}
	return &sk, nil
}

func (s *SQLiteStore) ListSkills(ctx context.Context) ([]*model.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY level DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*model.Skill, 0)
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (s *SQLiteStore) GetSkill(ctx context.Context, id int64) (*model.Skill, error) {
	sk, err := scanSkill(s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("skill %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get skill %d: %w", id, err)
	}
	return sk, nil
}

func (s *SQLiteStore) UpsertSkill(ctx context.Context, sk *model.Skill) error {
	if strings.TrimSpace(sk.Name) == "" {
		return fmt.Errorf("%w: skill name is required", ErrInvalid)
	}
	if sk.Color == "" {
		sk.Color = "#007bff"
	}

	args := []any{sk.Name, sk.Level, sk.ExperienceYears, sk.Description, sk.Icon, sk.Color, sk.ProjectsCount}
	if sk.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO skills (name, level, experience_years, description, icon, color, projects_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return fmt.Errorf("insert skill: %w", err)
		}
		sk.ID, err = res.LastInsertId()
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO skills (id, name, level, experience_years, description, icon, color, projects_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			level = excluded.level,
			experience_years = excluded.experience_years,
			description = excluded.description,
			icon = excluded.icon,
			color = excluded.color,
			projects_count = excluded.projects_count`, append([]any{sk.ID}, args...)...)
	if err != nil {
		return fmt.Errorf("upsert skill %d: %w", sk.ID, err)
	}
	return nil
}

func (s *SQLiteStore) LinkSkill(ctx context.Context, link model.SkillLink) error {
	if link.ProficiencyUsed == 0 {
		link.ProficiencyUsed = 5
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, ref := range []struct {
		table string
		id    int64
	}{{"projects", link.ProjectID}, {"skills", link.SkillID}} {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+ref.table+` WHERE id = ?)`, ref.id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("lookup %s %d: %w", ref.table, ref.id, err)
		}
		if !exists {
			return fmt.Errorf("link project %d to skill %d: %s %d: %w", link.ProjectID, link.SkillID, ref.table, ref.id, ErrNotFound)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_skills (project_id, skill_id, proficiency_used, is_primary)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id, skill_id) DO UPDATE SET
			proficiency_used = excluded.proficiency_used,
			is_primary = excluded.is_primary`,
		link.ProjectID, link.SkillID, link.ProficiencyUsed, link.IsPrimary); err != nil {
		return fmt.Errorf("link project %d to skill %d: %w", link.ProjectID, link.SkillID, err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) SkillProjects(ctx context.Context, skillID int64) ([]model.SkillProject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.description, CAST(strftime('%Y', p.created_at) AS INTEGER),
			ps.proficiency_used, ps.is_primary
		FROM project_skills ps JOIN projects p ON p.id = ps.project_id
		WHERE ps.skill_id = ? AND p.is_published = 1
		ORDER BY p.id`, skillID)
	if err != nil {
		return nil, fmt.Errorf("skill %d projects: %w", skillID, err)
	}
	defer rows.Close()

	projects := make([]model.SkillProject, 0)
	for rows.Next() {
		var sp model.SkillProject
		if err := rows.Scan(&sp.ID, &sp.Title, &sp.Description, &sp.CompletionYear,
			&sp.Complexity, &sp.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan skill project: %w", err)
		}
		sp.URL = fmt.Sprintf("/project/%d", sp.ID)
		projects = append(projects, sp)
	}
	return projects, rows.Err()
}

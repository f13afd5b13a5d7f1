package model

// Skill 代表一项技能
type Skill struct {
	ID              int64   `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Level           int     `json:"level" yaml:"level"` // 1-10
	ExperienceYears float64 `json:"experience_years" yaml:"experience_years"`
	Description     string  `json:"description,omitempty" yaml:"description"`
	Icon            string  `json:"icon,omitempty" yaml:"icon"`
	Color           string  `json:"color,omitempty" yaml:"color"`
	ProjectsCount   int     `json:"projects" yaml:"projects"`
}

// SkillMetrics 是技能对比时使用的指标
type SkillMetrics struct {
	Proficiency     float64 `json:"proficiency"`
	ProjectsCount   float64 `json:"projects_count"`
	ExperienceYears float64 `json:"experience_years"`
	ComplexityAvg   float64 `json:"complexity_avg"`
}

// SkillProject 是技能对比中展示的项目卡片
type SkillProject struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	CompletionYear int    `json:"completion_year"`
	Complexity     int    `json:"complexity"`
	URL            string `json:"url"`
	IsPrimary      bool   `json:"is_primary"`
}

// SkillLink 描述项目与技能的关联
type SkillLink struct {
	ProjectID       int64 `json:"project_id" yaml:"project_id"`
	SkillID         int64 `json:"skill_id" yaml:"skill_id"`
	ProficiencyUsed int   `json:"proficiency_used" yaml:"proficiency_used"` // 1-10
	IsPrimary       bool  `json:"is_primary" yaml:"is_primary"`
}

package similarity

import (
	"fmt"
	"math"

	"portfolio_engine/internal/model"
)

// maxSampleProjects 每项技能最多展示的项目数
const maxSampleProjects = 6

// 合成项目时按技能选择的项目类型
var sampleProjectTypes = map[string][]string{
	"Python":     {"Web API", "Data Analysis", "Automation Script", "Machine Learning"},
	"JavaScript": {"Interactive UI", "SPA Application", "Dynamic Website", "Real-time Chat"},
	"Flask":      {"REST API", "Web Application", "Backend Service", "Database Integration"},
	"React":      {"Component Library", "Dashboard", "E-commerce Site", "Mobile App"},
}

var defaultProjectTypes = []string{"Web Project", "Application", "System", "Tool"}

// Verdict 技能对比的结论
type Verdict struct {
	Stronger      *model.Skill `json:"stronger"`
	Weaker        *model.Skill `json:"weaker"`
	StrongerScore float64      `json:"stronger_score"`
	WeakerScore   float64      `json:"weaker_score"`
}

// SkillScore (熟练度 + 项目数 + 经验年数*2) / 4
func SkillScore(m model.SkillMetrics) float64 {
	return (m.Proficiency + m.ProjectsCount + m.ExperienceYears*2) / 4
}

// Compare 只有 a 的得分严格更高时 a 才是 stronger，同分时判给 b
func Compare(a, b *model.Skill, ma, mb model.SkillMetrics) Verdict {
	sa, sb := SkillScore(ma), SkillScore(mb)
	if sa > sb {
		return Verdict{Stronger: a, Weaker: b, StrongerScore: sa, WeakerScore: sb}
	}
	return Verdict{Stronger: b, Weaker: a, StrongerScore: sb, WeakerScore: sa}
}

// MetricsFor 用技能自身记录的数据构造指标
func MetricsFor(s *model.Skill) model.SkillMetrics {
	return model.SkillMetrics{
		Proficiency:     float64(s.Level),
		ProjectsCount:   float64(s.ProjectsCount),
		ExperienceYears: s.ExperienceYears,
	}
}

// SampleProjects 在没有真实关联项目时为技能生成展示用的项目列表
func SampleProjects(skillName string, count int, year int) []model.SkillProject {
	types, ok := sampleProjectTypes[skillName]
	if !ok {
		types = defaultProjectTypes
	}

	n := min(count, maxSampleProjects)
	projects := make([]model.SkillProject, 0, max(n, 0))
	for i := 0; i < n; i++ {
		projects = append(projects, model.SkillProject{
			ID:             int64(i + 1),
			Title:          fmt.Sprintf("%s %d", types[i%len(types)], i+1),
			Description:    fmt.Sprintf("Project built with %s, focused on functionality and performance.", skillName),
			CompletionYear: year - i%2,
			Complexity:     5 + i%5,
			URL:            "#",
		})
	}
	return projects
}

// AverageComplexity 项目复杂度的平均值，保留一位小数
func AverageComplexity(projects []model.SkillProject) float64 {
	if len(projects) == 0 {
		return 0
	}
	sum := 0
	for _, p := range projects {
		sum += p.Complexity
	}
	return math.Round(float64(sum)/float64(len(projects))*10) / 10
}

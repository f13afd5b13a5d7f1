package similarity

import (
	"testing"

	"portfolio_engine/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSkillScore(t *testing.T) {
	assert.Equal(t, 5.75, SkillScore(model.SkillMetrics{Proficiency: 9, ProjectsCount: 8, ExperienceYears: 3}))
	assert.Equal(t, 4.0, SkillScore(model.SkillMetrics{Proficiency: 7, ProjectsCount: 5, ExperienceYears: 2}))
}

func TestCompare(t *testing.T) {
	python := &model.Skill{ID: 1, Name: "Python", Level: 9, ProjectsCount: 8, ExperienceYears: 3}
	react := &model.Skill{ID: 2, Name: "React", Level: 7, ProjectsCount: 5, ExperienceYears: 2}

	v := Compare(python, react, MetricsFor(python), MetricsFor(react))
	assert.Equal(t, python, v.Stronger)
	assert.Equal(t, react, v.Weaker)
	assert.Equal(t, 5.75, v.StrongerScore)
	assert.Equal(t, 4.0, v.WeakerScore)

	v = Compare(react, python, MetricsFor(react), MetricsFor(python))
	assert.Equal(t, python, v.Stronger)
}

func TestCompare_TieGoesToSecond(t *testing.T) {
	a := &model.Skill{ID: 1, Name: "A", Level: 5}
	b := &model.Skill{ID: 2, Name: "B", Level: 5}

	v := Compare(a, b, MetricsFor(a), MetricsFor(b))
	assert.Equal(t, b, v.Stronger)
	assert.Equal(t, a, v.Weaker)
}

func TestSampleProjects(t *testing.T) {
	projects := SampleProjects("Python", 8, 2024)
	assert.Len(t, projects, 6)
	assert.Equal(t, "Web API 1", projects[0].Title)
	assert.Equal(t, "Web API 5", projects[4].Title)
	assert.Equal(t, 2024, projects[0].CompletionYear)
	assert.Equal(t, 2023, projects[1].CompletionYear)
	assert.Equal(t, 5, projects[0].Complexity)
	assert.Equal(t, 9, projects[4].Complexity)

	assert.Equal(t, "Tool 4", SampleProjects("Rust", 4, 2024)[3].Title)
	assert.Empty(t, SampleProjects("Go", 0, 2024))
	assert.Empty(t, SampleProjects("Go", -2, 2024))
}

func TestAverageComplexity(t *testing.T) {
	assert.Equal(t, 0.0, AverageComplexity(nil))
	// 5,6,7 -> 6.0
	assert.Equal(t, 6.0, AverageComplexity(SampleProjects("Go", 3, 2024)))
	// 5,6 -> 5.5
	assert.Equal(t, 5.5, AverageComplexity(SampleProjects("Go", 2, 2024)))
}

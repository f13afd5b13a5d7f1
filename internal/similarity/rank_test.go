package similarity

import (
	"testing"

	"portfolio_engine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []*model.ScoredProject) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRank_Example(t *testing.T) {
	ref := &model.Project{ID: 1, Tags: []string{"A", "B"}, Category: "web", Title: "Shop", Description: "online store"}
	candidates := []*model.Project{
		{ID: 2, Tags: []string{"A"}, Category: "web", Title: "Blog", Description: "personal blog"},
		{ID: 3, Category: "cli", Title: "Tool", Description: "command line tool"},
	}

	got := Rank(ref, candidates, 3)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, 8.0, got[0].Score)
	assert.Equal(t, []string{"tag", "category"}, got[0].Types)
}

func TestRank_EmptyPool(t *testing.T) {
	ref := &model.Project{ID: 1, Tags: []string{"go"}}

	got := Rank(ref, nil, 3)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Rank(ref, []*model.Project{}, 3)
	assert.Empty(t, got)
}

func TestRank_ExcludesReferenceByID(t *testing.T) {
	ref := &model.Project{ID: 7, Tags: []string{"go"}, Category: "cli"}
	// 不同的指针，相同的 ID
	self := &model.Project{ID: 7, Tags: []string{"go"}, Category: "cli"}
	other := &model.Project{ID: 8, Tags: []string{"go"}}

	got := Rank(ref, []*model.Project{self, other}, 3)
	assert.Equal(t, []int64{8}, ids(got))
}

func TestRank_OrderingAndStability(t *testing.T) {
	ref := &model.Project{ID: 1, Tags: []string{"go", "sql"}, Category: "backend"}
	candidates := []*model.Project{
		{ID: 2, Tags: []string{"go"}},                             // 3
		{ID: 3, Tags: []string{"go", "sql"}, Category: "backend"}, // 11
		{ID: 4, Tags: []string{"sql"}},                            // 3
		{ID: 5, Category: "backend"},                              // 5
		{ID: 6, Tags: []string{"go"}},                             // 3
	}

	got := Rank(ref, candidates, 10)
	assert.Equal(t, []int64{3, 5, 2, 4, 6}, ids(got))
	for i := 0; i+1 < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Score, got[i+1].Score)
	}
}

func TestRank_Limit(t *testing.T) {
	ref := &model.Project{ID: 1, Category: "web"}
	var candidates []*model.Project
	for i := int64(2); i < 10; i++ {
		candidates = append(candidates, &model.Project{ID: i, Category: "web"})
	}
	candidates = append(candidates, &model.Project{ID: 99, Category: "cli"})

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero", 0, 0},
		{"negative", -1, 0},
		{"three", 3, 3},
		{"more than scored", 20, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(ref, candidates, tt.limit)
			assert.Len(t, got, tt.want)
			assert.NotContains(t, ids(got), int64(99))
		})
	}
}

func TestRank_KeywordOverlap(t *testing.T) {
	ref := &model.Project{ID: 1, Title: "Realtime Chat", Description: "websocket server in golang"}

	tests := []struct {
		name      string
		candidate *model.Project
		want      float64
	}{
		{
			name:      "case insensitive",
			candidate: &model.Project{ID: 2, Title: "GOLANG", Description: "WebSocket demo"},
			want:      2,
		},
		{
			name:      "short words ignored",
			candidate: &model.Project{ID: 3, Title: "in", Description: "in"},
			want:      0,
		},
		{
			name:      "repeated candidate words counted each time",
			candidate: &model.Project{ID: 4, Title: "server server", Description: "server"},
			want:      3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(ref, tt.candidate))
		})
	}
}

func TestRank_TagsAreCaseSensitive(t *testing.T) {
	ref := &model.Project{ID: 1, Tags: []string{"Go"}}
	assert.Equal(t, 0.0, Score(ref, &model.Project{ID: 2, Tags: []string{"go"}}))
	assert.Equal(t, 3.0, Score(ref, &model.Project{ID: 3, Tags: []string{"Go"}}))
}

func TestRank_EmptyCategoryNeverMatches(t *testing.T) {
	ref := &model.Project{ID: 1}
	assert.Equal(t, 0.0, Score(ref, &model.Project{ID: 2}))
}

func TestRank_Idempotent(t *testing.T) {
	ref := &model.Project{ID: 1, Tags: []string{"a", "b"}, Category: "x", Title: "alpha beta", Description: "gamma delta"}
	candidates := []*model.Project{
		{ID: 2, Tags: []string{"a"}, Title: "alpha"},
		{ID: 3, Category: "x", Description: "delta delta"},
		{ID: 4, Tags: []string{"b", "a"}},
	}

	first := Rank(ref, candidates, 3)
	second := Request{Reference: ref, Candidates: candidates, Limit: 3}.Rank()
	assert.Equal(t, ids(first), ids(second))
	assert.Len(t, candidates, 3)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrMissingReferenceID)
	assert.ErrorIs(t, Validate(&model.Project{}), ErrMissingReferenceID)
	assert.NoError(t, Validate(&model.Project{ID: 1}))
}

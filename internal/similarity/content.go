package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"portfolio_engine/internal/model"
)

// 内容打分的权重，三项之和为 1
const (
	contentTagWeight      = 0.4
	contentCategoryWeight = 0.3
	contentTextWeight     = 0.3

	// 文本重合度必须超过该阈值才计入
	contentTextThreshold = 0.1
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// RankContent 按比例特征打分：标签重合比例、类别匹配和描述文本重合度。
// 未发布的项目不参与排序，结果分数保留两位小数。
func RankContent(ref *model.Project, candidates []*model.Project, limit int) []*model.ScoredProject {
	result := make([]*model.ScoredProject, 0)
	if ref == nil || limit <= 0 {
		return result
	}

	refTags := toSet(ref.Tags)
	var descWords map[string]struct{}
	if ref.Description != "" {
		descWords = wordSet(ref.Description)
	}

	for _, c := range candidates {
		if c == nil || c.ID == ref.ID || !c.Published {
			continue
		}

		var total float64
		var types []string

		if len(ref.Tags) > 0 {
			common := intersect(refTags, toSet(c.Tags))
			if common > 0 {
				total += float64(common) / float64(len(ref.Tags)) * contentTagWeight
				types = append(types, "tag")
			}
		}

		if ref.Category != "" && c.Category == ref.Category {
			total += contentCategoryWeight
			types = append(types, "category")
		}

		if len(descWords) > 0 {
			projectWords := wordSet(c.Description + " " + c.Content)
			common := intersect(descWords, projectWords)
			if common > 0 {
				ratio := float64(common) / float64(max(len(descWords), len(projectWords)))
				if ratio > contentTextThreshold {
					total += ratio * contentTextWeight
					types = append(types, "content")
				}
			}
		}

		if total == 0 {
			continue
		}
		result = append(result, &model.ScoredProject{Project: c, Score: total, Types: types})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	if len(result) > limit {
		result = result[:limit]
	}

	for _, r := range result {
		r.Score = math.Round(r.Score*100) / 100
	}
	return result
}

func wordSet(text string) map[string]struct{} {
	return toSet(wordPattern.FindAllString(strings.ToLower(text), -1))
}

func intersect(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

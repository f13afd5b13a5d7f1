// Package similarity 实现作品集的相似度打分与排序
//
// Rank 是纯函数：不做 I/O，不持有状态，候选集由调用方注入。
package similarity

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"portfolio_engine/internal/model"
)

// 各特征的固定权重
const (
	TagWeight      = 3
	CategoryWeight = 5
	KeywordWeight  = 1

	// 关键词长度必须大于该值才参与匹配
	minKeywordLen = 3
)

// ErrMissingReferenceID 参考项目缺少 ID
var ErrMissingReferenceID = errors.New("reference project has no id")

// Validate 检查参考项目是否满足排序的前置条件
func Validate(ref *model.Project) error {
	if ref == nil || ref.ID <= 0 {
		return ErrMissingReferenceID
	}
	return nil
}

// Request 一次排序请求
type Request struct {
	Reference  *model.Project
	Candidates []*model.Project
	Limit      int
}

// Rank 执行请求
func (r Request) Rank() []*model.ScoredProject {
	return Rank(r.Reference, r.Candidates, r.Limit)
}

// Rank 按加权特征分对候选项目排序，返回最多 limit 个得分大于 0 的项目。
// 与参考项目 ID 相同的候选会被跳过；同分时保持输入顺序。
func Rank(ref *model.Project, candidates []*model.Project, limit int) []*model.ScoredProject {
	result := make([]*model.ScoredProject, 0)
	if ref == nil || limit <= 0 {
		return result
	}

	refTags := toSet(ref.Tags)
	refWords := toSet(keywords(ref))

	for _, c := range candidates {
		if c == nil || c.ID == ref.ID {
			continue
		}

		s, types := score(refTags, ref.Category, refWords, c)
		if s == 0 {
			continue
		}
		result = append(result, &model.ScoredProject{
			Project: c,
			Score:   s,
			Types:   types,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Score 计算单个候选相对参考项目的得分
func Score(ref, candidate *model.Project) float64 {
	if ref == nil || candidate == nil {
		return 0
	}
	s, _ := score(toSet(ref.Tags), ref.Category, toSet(keywords(ref)), candidate)
	return s
}

func score(refTags map[string]struct{}, refCategory string, refWords map[string]struct{}, c *model.Project) (float64, []string) {
	var total int
	var types []string

	// 标签重合：按候选的标签列表逐个计数
	commonTags := 0
	for _, tag := range c.Tags {
		if _, ok := refTags[tag]; ok {
			commonTags++
		}
	}
	if commonTags > 0 {
		total += commonTags * TagWeight
		types = append(types, "tag")
	}

	if refCategory != "" && c.Category == refCategory {
		total += CategoryWeight
		types = append(types, "category")
	}

	// 关键词重合：候选中重复出现的词每次都计数，不去重
	commonWords := 0
	for _, w := range keywords(c) {
		if utf8.RuneCountInString(w) <= minKeywordLen {
			continue
		}
		if _, ok := refWords[w]; ok {
			commonWords++
		}
	}
	if commonWords > 0 {
		total += commonWords * KeywordWeight
		types = append(types, "keyword")
	}

	return float64(total), types
}

// keywords 将标题和描述拼接后转小写，并按空白切分
func keywords(p *model.Project) []string {
	return strings.Fields(strings.ToLower(p.Title + " " + p.Description))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

package model

// Project 代表作品集中的一个项目，也是相似度排序中的候选条目
// 除 ID 外的字段都可以为空，空值在打分时不贡献分数
type Project struct {
	ID            int64    `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	Content       string   `json:"content,omitempty" yaml:"content"`
	Tags          []string `json:"tags" yaml:"tags"`
	Category      string   `json:"category" yaml:"category"`
	Published     bool     `json:"is_published" yaml:"published"`
	Featured      bool     `json:"is_featured,omitempty" yaml:"featured"`
	ImageFilename string   `json:"image_filename,omitempty" yaml:"image_filename"`
	DemoURL       string   `json:"demo_url,omitempty" yaml:"demo_url"`
	GithubURL     string   `json:"github_url,omitempty" yaml:"github_url"`
	LikesCount    int      `json:"likes_count" yaml:"likes_count"`
}

// ScoredProject 是排序过程中产生的临时结果，不做持久化
type ScoredProject struct {
	*Project
	Score float64  `json:"similarity_score"`
	Types []string `json:"similarity_types,omitempty"` // 贡献分数的特征 (e.g., "tag", "category")
}

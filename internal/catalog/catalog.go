// Package catalog holds the static topic catalog for article generation.
package catalog

import (
	"math/rand"
	"time"
)

// Template describes the target structure and tone for a category.
type Template struct {
	Structure []string
	Tone      string
}

// Selection is one (category, topic) pair picked for generation.
type Selection struct {
	Category string
	Topic    string
}

// Selector picks a selection from the catalog. The default is uniform
// random; tests inject deterministic selectors.
type Selector interface {
	Select(c *Catalog) Selection
}

// Catalog maps categories to candidate topics and style templates.
// Pure read-only data, no failure modes.
type Catalog struct {
	categories []string
	topics     map[string][]string
	templates  map[string]Template
}

// Default returns the built-in gold knowledge catalog.
func Default() *Catalog {
	return &Catalog{
		categories: []string{"投資策略", "市場分析", "實用知識", "歷史文化", "時事評論"},
		topics: map[string][]string{
			"投資策略": {
				"黃金投資入門指南",
				"如何選擇黃金投資方式",
				"黃金投資組合配置",
				"黃金定投策略",
				"黃金 vs 其他避險資產",
			},
			"市場分析": {
				"黃金價格走勢分析",
				"影響黃金價格的因素",
				"技術分析在黃金投資中的應用",
				"基本面分析：供需關係",
				"全球經濟對黃金的影響",
			},
			"實用知識": {
				"如何鑑定黃金真偽",
				"黃金購買注意事項",
				"黃金儲存與保管",
				"黃金回收流程",
				"黃金投資稅務知識",
			},
			"歷史文化": {
				"黃金的歷史價值",
				"各國黃金儲備",
				"黃金在貨幣體系中的作用",
				"黃金的文化意義",
				"著名黃金投資案例",
			},
			"時事評論": {
				"今日黃金市場動態",
				"重要經濟事件對黃金的影響",
				"央行政策與黃金價格",
				"地緣政治與黃金避險",
				"通膨與黃金投資",
			},
		},
		templates: map[string]Template{
			"投資策略": {
				Structure: []string{
					"引言（為什麼要投資黃金）",
					"投資方式比較",
					"風險評估",
					"實作建議",
					"總結",
				},
				Tone: "專業但易懂，適合初學者",
			},
			"市場分析": {
				Structure: []string{
					"市場現況概述",
					"技術面分析",
					"基本面分析",
					"未來展望",
					"投資建議",
				},
				Tone: "專業分析，數據導向",
			},
			"實用知識": {
				Structure: []string{
					"問題背景",
					"詳細說明",
					"實用技巧",
					"注意事項",
					"實例分享",
				},
				Tone: "實用導向，步驟清楚",
			},
		},
	}
}

// Categories returns category names in a fixed order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Topics returns the candidate topics for a category.
func (c *Catalog) Topics(category string) []string {
	return c.topics[category]
}

// Template returns the style template for a category. Categories without a
// dedicated template fall back to the 投資策略 one.
func (c *Catalog) Template(category string) Template {
	if t, ok := c.templates[category]; ok {
		return t
	}
	return c.templates["投資策略"]
}

type randomSelector struct {
	rng *rand.Rand
}

// NewRandomSelector returns the default uniform-random selector: uniform
// over categories, then uniform over that category's topics. Repeats across
// runs are expected.
func NewRandomSelector() Selector {
	return &randomSelector{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *randomSelector) Select(c *Catalog) Selection {
	cats := c.Categories()
	category := cats[s.rng.Intn(len(cats))]
	topics := c.Topics(category)
	return Selection{
		Category: category,
		Topic:    topics[s.rng.Intn(len(topics))],
	}
}

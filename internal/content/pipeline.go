// Package content implements the article synthesis pipeline.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yuchialin/goldpen/internal/catalog"
	"github.com/yuchialin/goldpen/internal/gpt"
	"github.com/yuchialin/goldpen/internal/models"
)

// ChatClient is the text generation capability the pipeline drives.
// *gpt.Client satisfies it.
type ChatClient interface {
	Chat(ctx context.Context, req gpt.ChatRequest) (*gpt.ChatResponse, error)
}

// ArticleWriter is the slice of the store the pipeline needs.
type ArticleWriter interface {
	Add(ctx context.Context, article *models.Article) error
}

// fallbackKeywords substitutes for a failed keyword extraction stage.
var fallbackKeywords = []string{"黃金投資", "投資策略"}

// Pipeline produces one complete draft article per run from a
// (category, topic) pair and an optional market snapshot. The five
// generation stages run strictly in order; outline and body failures abort
// the run, the remaining stages fall back to deterministic values.
type Pipeline struct {
	chat     ChatClient
	store    ArticleWriter
	catalog  *catalog.Catalog
	selector catalog.Selector
}

// NewPipeline creates a pipeline. A nil catalog or selector falls back to
// the defaults.
func NewPipeline(chat ChatClient, store ArticleWriter, cat *catalog.Catalog, sel catalog.Selector) *Pipeline {
	if cat == nil {
		cat = catalog.Default()
	}
	if sel == nil {
		sel = catalog.NewRandomSelector()
	}
	return &Pipeline{
		chat:     chat,
		store:    store,
		catalog:  cat,
		selector: sel,
	}
}

// GenerateDaily picks a (category, topic) pair from the catalog,
// synthesizes an article and persists it as a draft.
func (p *Pipeline) GenerateDaily(ctx context.Context, snapshot *models.MarketSnapshot) (*models.Article, error) {
	sel := p.selector.Select(p.catalog)

	log.Info().
		Str("category", sel.Category).
		Str("topic", sel.Topic).
		Bool("has_snapshot", snapshot != nil).
		Msg("Generating daily article")

	article, err := p.Synthesize(ctx, sel.Category, sel.Topic, snapshot)
	if err != nil {
		return nil, err
	}

	if err := p.store.Add(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to save article: %w", err)
	}

	log.Info().
		Str("id", article.ID).
		Str("title", article.Title).
		Msg("Daily article generated")

	return article, nil
}

// Synthesize runs the five generation stages and returns a fully populated
// draft article, or an error with no partial result.
func (p *Pipeline) Synthesize(ctx context.Context, category, topic string, snapshot *models.MarketSnapshot) (*models.Article, error) {
	title, titleFallback := p.generateTitle(ctx, category, topic)

	outline, err := p.generateOutline(ctx, category, topic, snapshot)
	if err != nil {
		return nil, fmt.Errorf("outline stage: %w", err)
	}

	body, err := p.generateBody(ctx, outline, snapshot)
	if err != nil {
		return nil, fmt.Errorf("body stage: %w", err)
	}

	summary, summaryFallback := p.generateSummary(ctx, body)
	keywords, keywordFallback := p.extractKeywords(ctx, body)

	now := time.Now()
	article := &models.Article{
		ID:          models.NewArticleID(now),
		Title:       title,
		Content:     body,
		Summary:     summary,
		Category:    category,
		Tags:        keywords,
		SEOKeywords: keywords,
		Author:      models.DefaultAuthor,
		Status:      models.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
		ReadTime:    models.ReadTime(body),
	}

	log.Info().
		Str("id", article.ID).
		Int("read_time", article.ReadTime).
		Bool("title_fallback", titleFallback).
		Bool("summary_fallback", summaryFallback).
		Bool("keyword_fallback", keywordFallback).
		Msg("Article synthesized")

	return article, nil
}

// generateTitle requests an SEO-oriented title. Non-fatal: on failure the
// raw topic becomes the title.
func (p *Pipeline) generateTitle(ctx context.Context, category, topic string) (string, bool) {
	prompt := fmt.Sprintf(`請為以下黃金投資文章生成一個 SEO 優化的標題：

主題：%s
分類：%s

要求：
1. 包含相關關鍵字（如：黃金投資、黃金價格、投資策略等）
2. 吸引讀者點擊
3. 長度適中（20-40 字）
4. 適合台灣搜尋習慣
5. 使用繁體中文

請直接輸出標題，不需要額外說明。`, topic, category)

	resp, err := p.chat.Chat(ctx, gpt.ChatRequest{
		SystemPrompt: "你是 SEO 專家，擅長撰寫吸引人的標題。",
		UserPrompt:   prompt,
		Temperature:  0.7,
		MaxTokens:    100,
	})
	if err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Title stage failed, falling back to topic")
		return topic, true
	}

	title := strings.TrimSpace(resp.Content)
	if title == "" {
		return topic, true
	}
	return title, false
}

// generateOutline requests a structured outline. Fatal: a call failure or
// an unparseable payload aborts the pipeline.
func (p *Pipeline) generateOutline(ctx context.Context, category, topic string, snapshot *models.MarketSnapshot) (*models.Outline, error) {
	tmpl := p.catalog.Template(category)

	var b strings.Builder
	fmt.Fprintf(&b, `你是一位專業的黃金投資分析師，請為以下主題生成詳細的文章大綱：

主題：%s
分類：%s
目標讀者：黃金投資初學者到中級投資者

要求：
1. 文章結構要符合 %s 的風格
2. 段落安排參考：%s
3. 包含實用的投資建議和具體例子
4. 融入最新的市場資訊（如果有的話）
5. 適合台灣投資者閱讀

請生成包含以下內容的大綱：
- 文章標題（吸引人且 SEO 友善）
- 各段落標題和重點
- 關鍵要點
- 實用建議
- 總結重點

格式：JSON 格式，包含 title, sections, key_points, practical_tips, summary`,
		topic, category, tmpl.Tone, strings.Join(tmpl.Structure, "、"))

	if ctxJSON := snapshotJSON(snapshot); ctxJSON != "" {
		fmt.Fprintf(&b, "\n\n最新市場資料：%s", ctxJSON)
	}

	resp, err := p.chat.Chat(ctx, gpt.ChatRequest{
		SystemPrompt: "你是專業的黃金投資分析師，擅長撰寫教育性的投資文章。",
		UserPrompt:   b.String(),
		Temperature:  0.7,
		MaxTokens:    1000,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	var outline models.Outline
	if err := json.Unmarshal([]byte(resp.Content), &outline); err != nil {
		return nil, fmt.Errorf("unparseable outline: %w", err)
	}
	return &outline, nil
}

// generateBody requests the full article text conditioned on the outline.
// Fatal on failure or empty output.
func (p *Pipeline) generateBody(ctx context.Context, outline *models.Outline, snapshot *models.MarketSnapshot) (string, error) {
	outlineJSON, err := json.Marshal(outline)
	if err != nil {
		return "", fmt.Errorf("marshal outline: %w", err)
	}

	marketData := snapshotJSON(snapshot)
	if marketData == "" {
		marketData = "無"
	}

	prompt := fmt.Sprintf(`請根據以下大綱撰寫一篇完整的黃金投資文章：

文章大綱：
%s

要求：
1. 文章長度：1500-2000 字
2. 風格：專業但易懂，適合台灣投資者
3. 包含具體的投資建議和實例
4. 使用繁體中文
5. 段落清楚，易於閱讀
6. 加入相關的數據和事實

如果提供市場資料，請適當地融入文章中：
%s

請直接輸出文章內容，不需要額外的格式說明。`, outlineJSON, marketData)

	resp, err := p.chat.Chat(ctx, gpt.ChatRequest{
		SystemPrompt: "你是專業的黃金投資分析師，擅長撰寫教育性的投資文章。",
		UserPrompt:   prompt,
		Temperature:  0.8,
		MaxTokens:    3000,
	})
	if err != nil {
		return "", err
	}

	body := strings.TrimSpace(resp.Content)
	if body == "" {
		return "", fmt.Errorf("empty article body")
	}
	return body, nil
}

// generateSummary requests a short abstract of the body. Non-fatal: on
// failure the first 150 characters of the body plus an ellipsis are used.
func (p *Pipeline) generateSummary(ctx context.Context, body string) (string, bool) {
	prompt := fmt.Sprintf(`請為以下黃金投資文章生成一個簡潔的摘要：

文章內容：
%s

要求：
1. 摘要長度：100-150 字
2. 包含文章主要重點
3. 吸引讀者繼續閱讀
4. 使用繁體中文

請直接輸出摘要。`, body)

	resp, err := p.chat.Chat(ctx, gpt.ChatRequest{
		SystemPrompt: "你是內容編輯，擅長撰寫文章摘要。",
		UserPrompt:   prompt,
		Temperature:  0.6,
		MaxTokens:    200,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Summary stage failed, truncating body")
		return truncateRunes(body, 150) + "...", true
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		return truncateRunes(body, 150) + "...", true
	}
	return summary, false
}

// extractKeywords requests 5-8 comma-separated keywords from a prefix of
// the body. Non-fatal: a fixed default set substitutes on failure.
func (p *Pipeline) extractKeywords(ctx context.Context, body string) ([]string, bool) {
	prompt := fmt.Sprintf(`請從以下黃金投資文章中提取 5-8 個重要的 SEO 關鍵字：

文章內容：
%s...

要求：
1. 包含黃金投資相關的專業術語
2. 適合台灣搜尋習慣
3. 長尾關鍵字優先
4. 用逗號分隔

請直接輸出關鍵字，用逗號分隔。`, truncateRunes(body, 1000))

	resp, err := p.chat.Chat(ctx, gpt.ChatRequest{
		SystemPrompt: "你是 SEO 專家，擅長關鍵字分析。",
		UserPrompt:   prompt,
		Temperature:  0.5,
		MaxTokens:    200,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Keyword stage failed, using default keywords")
		return fallbackKeywords, true
	}

	var keywords []string
	for _, kw := range strings.Split(resp.Content, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return fallbackKeywords, true
	}
	return keywords, false
}

// snapshotJSON serializes the market snapshot for prompt injection.
// Returns "" for a missing snapshot so prompts degrade gracefully.
func snapshotJSON(s *models.MarketSnapshot) string {
	if s == nil {
		return ""
	}
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

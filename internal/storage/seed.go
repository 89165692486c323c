package storage

import (
	"time"

	"github.com/yuchialin/goldpen/internal/models"
)

// defaultArticles returns the bootstrap content inserted into an empty
// store so the site is never blank on first launch.
func defaultArticles() []models.Article {
	now := time.Now()
	published := now

	return []models.Article{
		{
			ID:    "blog_001",
			Title: "黃金投資入門指南：新手必讀的完整攻略",
			Content: `# 黃金投資入門指南：新手必讀的完整攻略

## 為什麼要投資黃金？
黃金自古以來就是人類最珍貴的貴金屬之一，具有避險、保值、全球流通等特性。

## 黃金投資方式比較
- 實體黃金：安全、保值，但流動性較低
- 黃金存摺：方便、門檻低，但無法提領實體
- 黃金ETF：流動性高，適合投資組合配置

## 投資建議
- 從小額開始，分散風險
- 長期持有，避免短線波動
- 定期檢視投資組合

## 結語
黃金投資是一個需要耐心和知識的過程，建議多學習專業知識，理性規劃。`,
			Summary:       "想要開始黃金投資卻不知道從何下手？本文將為您詳細介紹黃金投資的基本概念、投資方式、風險評估以及實用建議，讓您輕鬆踏入黃金投資的世界。",
			Category:      "投資策略",
			Tags:          []string{"黃金投資", "入門指南", "投資策略", "避險資產"},
			SEOKeywords:   []string{"黃金投資", "投資入門", "避險資產", "投資策略"},
			Author:        models.DefaultAuthor,
			Status:        models.StatusPublished,
			PublishDate:   &published,
			CreatedAt:     now,
			UpdatedAt:     now,
			ReadTime:      8,
			Views:         1250,
			Likes:         89,
			FeaturedImage: "/images/gold-investment-guide.jpg",
		},
		{
			ID:    "blog_002",
			Title: "2025年黃金價格走勢分析：技術面與基本面深度解析",
			Content: `# 2025年黃金價格走勢分析：技術面與基本面深度解析

## 市場現況概述
2025年以來，黃金價格呈現穩健上漲趨勢，主要受到全球經濟、通膨、地緣政治等因素影響。

## 技術面分析
- 支撐位：$2,300/盎司
- 阻力位：$2,500/盎司
- RSI顯示超買，需注意回調

## 基本面分析
- 聯準會政策寬鬆，有利黃金避險需求
- CPI數據高於預期，增強抗通膨吸引力
- 國際局勢緊張，推動避險資金流入

## 投資建議
- 逢低分批買入，設置止損
- 長期持有，關注基本面變化

## 風險提示
- 市場波動、政策變化、匯率風險`,
			Summary:       "深入分析2025年黃金市場的技術指標和基本面因素，包括聯準會政策、通膨數據、地緣政治風險等，為投資者提供專業的市場洞察。",
			Category:      "市場分析",
			Tags:          []string{"黃金價格", "技術分析", "基本面分析", "2025年預測"},
			SEOKeywords:   []string{"黃金價格", "技術分析", "基本面分析", "投資預測"},
			Author:        models.DefaultAuthor,
			Status:        models.StatusPublished,
			PublishDate:   &published,
			CreatedAt:     now,
			UpdatedAt:     now,
			ReadTime:      12,
			Views:         2100,
			Likes:         156,
			FeaturedImage: "/images/gold-price-analysis.jpg",
		},
	}
}

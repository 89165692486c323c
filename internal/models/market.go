package models

// MarketSnapshot is the gold market context supplied by the Kitco scraper.
// It is optional everywhere it is consumed; a nil snapshot degrades
// generation gracefully.
type MarketSnapshot struct {
	CurrentPrice    float64  `json:"current_price"`
	Change          float64  `json:"change"`
	ChangePercent   float64  `json:"change_percent"`
	MarketSentiment string   `json:"market_sentiment"`
	KeyEvents       []string `json:"key_events"`
}

// Package kitco scrapes gold market context from kitco.com.
// Target markup changes over time; every extraction failure degrades to
// missing data rather than a fatal error.
package kitco

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/yuchialin/goldpen/internal/models"
)

// DefaultBaseURL is the production Kitco site.
const DefaultBaseURL = "https://www.kitco.com"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var numberExpr = regexp.MustCompile(`[-+]?\d[\d,]*\.?\d*`)

// Client fetches gold price and news pages from Kitco.
type Client struct {
	http *resty.Client
}

// NewClient creates a Kitco client. An empty baseURL uses the live site.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(1 * time.Second).
			SetHeader("User-Agent", userAgent),
	}
}

// Snapshot scrapes the live gold page and recent headlines into a market
// snapshot. Returns an error only when no price could be extracted at all;
// missing headlines just leave KeyEvents empty.
func (c *Client) Snapshot(ctx context.Context) (*models.MarketSnapshot, error) {
	doc, err := c.fetchDocument(ctx, "/charts/livegold.html")
	if err != nil {
		return nil, fmt.Errorf("fetch gold price page: %w", err)
	}

	snapshot, err := parsePricePage(doc)
	if err != nil {
		return nil, err
	}

	events, err := c.fetchHeadlines(ctx, 5)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch headlines, continuing without key events")
	} else {
		snapshot.KeyEvents = events
	}

	log.Info().
		Float64("price", snapshot.CurrentPrice).
		Float64("change", snapshot.Change).
		Str("sentiment", snapshot.MarketSentiment).
		Int("events", len(snapshot.KeyEvents)).
		Msg("Market snapshot captured")

	return snapshot, nil
}

func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("kitco returned %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// parsePricePage extracts price, change and sentiment from the live gold
// page.
func parsePricePage(doc *goquery.Document) (*models.MarketSnapshot, error) {
	priceText := strings.TrimSpace(doc.Find("#sp-bid").First().Text())
	if priceText == "" {
		priceText = strings.TrimSpace(doc.Find("div.price").First().Text())
	}

	price, err := parseNumber(priceText)
	if err != nil {
		return nil, fmt.Errorf("no price data found")
	}

	// Change fields are best-effort; zero when the markup has drifted.
	change, _ := parseNumber(doc.Find("span.change").First().Text())
	changePercent, _ := parseNumber(doc.Find("span.change-percent").First().Text())

	return &models.MarketSnapshot{
		CurrentPrice:    price,
		Change:          change,
		ChangePercent:   changePercent,
		MarketSentiment: sentimentFor(change, changePercent),
	}, nil
}

// fetchHeadlines collects recent news headlines as key events.
func (c *Client) fetchHeadlines(ctx context.Context, limit int) ([]string, error) {
	doc, err := c.fetchDocument(ctx, "/news/")
	if err != nil {
		return nil, err
	}

	var headlines []string
	seen := map[string]struct{}{}
	doc.Find(`a[href*="/news/"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return true
		}
		if _, ok := seen[title]; ok {
			return true
		}
		seen[title] = struct{}{}
		headlines = append(headlines, title)
		return len(headlines) < limit
	})

	return headlines, nil
}

func parseNumber(s string) (float64, error) {
	match := numberExpr.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	return strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
}

// sentimentFor maps the day's move to a coarse sentiment label.
func sentimentFor(change, changePercent float64) string {
	move := changePercent
	if move == 0 && change != 0 {
		if change > 0 {
			move = 1
		} else {
			move = -1
		}
	}

	switch {
	case move >= 0.5:
		return "樂觀"
	case move <= -0.5:
		return "悲觀"
	default:
		return "中性"
	}
}

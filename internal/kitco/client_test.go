package kitco

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const goldPageHTML = `<!DOCTYPE html>
<html><body>
<div id="sp-bid"> 2,415.30 </div>
<span class="change">+12.40</span>
<span class="change-percent">+0.52%</span>
</body></html>`

const newsPageHTML = `<!DOCTYPE html>
<html><body>
<a href="/news/2025-06-01/gold-rallies">Gold rallies on Fed pause</a>
<a href="/news/2025-06-01/gold-rallies">Gold rallies on Fed pause</a>
<a href="/news/2025-06-01/dollar-weakens">Dollar weakens against majors</a>
<a href="/about">About us</a>
<a href="/news/2025-06-01/empty"></a>
</body></html>`

func newKitcoServer(t *testing.T, goldHTML string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/charts/livegold.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(goldHTML))
	})
	mux.HandleFunc("/news/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(newsPageHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSnapshot(t *testing.T) {
	srv := newKitcoServer(t, goldPageHTML)
	client := NewClient(srv.URL)

	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if snap.CurrentPrice != 2415.30 {
		t.Errorf("price = %v, want 2415.30", snap.CurrentPrice)
	}
	if snap.Change != 12.40 {
		t.Errorf("change = %v, want 12.40", snap.Change)
	}
	if snap.ChangePercent != 0.52 {
		t.Errorf("change_percent = %v, want 0.52", snap.ChangePercent)
	}
	if snap.MarketSentiment != "樂觀" {
		t.Errorf("sentiment = %q, want 樂觀", snap.MarketSentiment)
	}

	want := []string{"Gold rallies on Fed pause", "Dollar weakens against majors"}
	if len(snap.KeyEvents) != len(want) {
		t.Fatalf("key_events = %v, want %v", snap.KeyEvents, want)
	}
	for i := range want {
		if snap.KeyEvents[i] != want[i] {
			t.Fatalf("key_events = %v, want %v", snap.KeyEvents, want)
		}
	}
}

func TestSnapshotPriceFallbackSelector(t *testing.T) {
	html := `<html><body><div class="price">2,388.00</div></body></html>`
	srv := newKitcoServer(t, html)
	client := NewClient(srv.URL)

	snap, err := client.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.CurrentPrice != 2388.00 {
		t.Errorf("price = %v, want 2388.00", snap.CurrentPrice)
	}
	if snap.MarketSentiment != "中性" {
		t.Errorf("sentiment = %q, want 中性 for flat change", snap.MarketSentiment)
	}
}

func TestSnapshotNoPrice(t *testing.T) {
	srv := newKitcoServer(t, `<html><body><p>maintenance</p></body></html>`)
	client := NewClient(srv.URL)

	if _, err := client.Snapshot(context.Background()); err == nil {
		t.Fatal("expected error when no price is present")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2,415.30", 2415.30, true},
		{" +12.40 ", 12.40, true},
		{"-0.52%", -0.52, true},
		{"$1,999", 1999, true},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("parseNumber(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSentimentFor(t *testing.T) {
	tests := []struct {
		change, percent float64
		want            string
	}{
		{12.4, 0.52, "樂觀"},
		{-13.0, -0.55, "悲觀"},
		{2.0, 0.1, "中性"},
		{0, 0, "中性"},
		{5.0, 0, "樂觀"},  // percent missing, fall back to sign of change
		{-5.0, 0, "悲觀"},
	}
	for _, tt := range tests {
		if got := sentimentFor(tt.change, tt.percent); got != tt.want {
			t.Errorf("sentimentFor(%v, %v) = %q, want %q", tt.change, tt.percent, got, tt.want)
		}
	}
}

package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewArticleID(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := NewArticleID(ts)
	want := "blog_20250314_092653"
	if got != want {
		t.Fatalf("NewArticleID = %q, want %q", got, want)
	}
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		runes int
		want  int
	}{
		{0, 3},
		{299, 3},
		{900, 3},
		{1199, 3},
		{1200, 4},
		{3000, 10},
	}
	for _, tt := range tests {
		content := strings.Repeat("金", tt.runes)
		if got := ReadTime(content); got != tt.want {
			t.Errorf("ReadTime(%d runes) = %d, want %d", tt.runes, got, tt.want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ArticleStatus
		want     bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusArchived, true},
		{StatusPublished, StatusArchived, true},
		{StatusPublished, StatusDraft, false},
		{StatusArchived, StatusPublished, false},
		{StatusArchived, StatusDraft, false},
		{StatusDraft, StatusDraft, true},
		{StatusPublished, StatusPublished, true},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestApplyStampsPublishDateOnce(t *testing.T) {
	a := Article{ID: "blog_x", Status: StatusDraft}

	first := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	published := StatusPublished
	if err := (ArticleUpdate{Status: &published}).Apply(&a, first); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if a.PublishDate == nil || !a.PublishDate.Equal(first) {
		t.Fatalf("publish_date = %v, want %v", a.PublishDate, first)
	}
	if !a.UpdatedAt.Equal(first) {
		t.Fatalf("updated_at = %v, want %v", a.UpdatedAt, first)
	}

	// Re-publishing or archiving must not move the publish date.
	later := first.Add(48 * time.Hour)
	if err := (ArticleUpdate{Status: &published}).Apply(&a, later); err != nil {
		t.Fatalf("re-publish: %v", err)
	}
	archived := StatusArchived
	if err := (ArticleUpdate{Status: &archived}).Apply(&a, later); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !a.PublishDate.Equal(first) {
		t.Fatalf("publish_date moved to %v, want %v", a.PublishDate, first)
	}
}

func TestApplyRejectsBackwardTransition(t *testing.T) {
	a := Article{ID: "blog_x", Status: StatusPublished}

	draft := StatusDraft
	title := "新標題"
	err := ArticleUpdate{Status: &draft, Title: &title}.Apply(&a, time.Now())
	if err == nil {
		t.Fatal("expected error unpublishing an article")
	}
	if a.Title == title {
		t.Fatal("rejected update must not mutate other fields")
	}
}

func TestApplyRejectsInvalidStatus(t *testing.T) {
	a := Article{ID: "blog_x", Status: StatusDraft}

	bogus := ArticleStatus("deleted")
	if err := (ArticleUpdate{Status: &bogus}).Apply(&a, time.Now()); err == nil {
		t.Fatal("expected error for unknown status")
	}

	// The filter value is not a storable status either.
	all := StatusAll
	if err := (ArticleUpdate{Status: &all}).Apply(&a, time.Now()); err == nil {
		t.Fatal("expected error for filter status")
	}
}

func TestApplyPartialFields(t *testing.T) {
	a := Article{
		ID:       "blog_x",
		Title:    "原標題",
		Content:  "原內文",
		Category: "投資策略",
		Status:   StatusDraft,
	}

	title := "改標題"
	tags := []string{"黃金", "避險"}
	if err := (ArticleUpdate{Title: &title, Tags: &tags}).Apply(&a, time.Now()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if a.Title != title {
		t.Errorf("title = %q, want %q", a.Title, title)
	}
	if a.Content != "原內文" || a.Category != "投資策略" {
		t.Error("untouched fields must keep their values")
	}
	if len(a.Tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", a.Tags)
	}
	if a.Status != StatusDraft {
		t.Errorf("status = %s, want draft", a.Status)
	}
}

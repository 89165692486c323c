// Package models defines the core data structures for goldpen.
package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// DefaultAuthor is the generation persona credited on every article.
const DefaultAuthor = "AI 黃金分析師"

// ArticleStatus represents the lifecycle state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"

	// StatusAll is a filter value for list queries, never stored.
	StatusAll ArticleStatus = "all"
)

// rank orders statuses along the lifecycle. Transitions may only move forward.
func (s ArticleStatus) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusPublished:
		return 1
	case StatusArchived:
		return 2
	}
	return -1
}

// Valid reports whether s is a storable status.
func (s ArticleStatus) Valid() bool {
	return s.rank() >= 0
}

// CanTransition reports whether an article may move from one status to
// another. Archiving a draft directly is allowed; going backwards is not.
func CanTransition(from, to ArticleStatus) bool {
	return to.rank() >= from.rank()
}

// Article represents a generated blog article.
type Article struct {
	ID string `bson:"_id" json:"id"`

	// Content
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Summary string `bson:"summary" json:"summary"`

	// Classification
	Category    string   `bson:"category" json:"category"`
	Tags        []string `bson:"tags" json:"tags"`
	SEOKeywords []string `bson:"seo_keywords" json:"seo_keywords"`

	// Lifecycle
	Author      string        `bson:"author" json:"author"`
	Status      ArticleStatus `bson:"status" json:"status"`
	PublishDate *time.Time    `bson:"publish_date,omitempty" json:"publish_date,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`

	// Derived and stats
	ReadTime      int    `bson:"read_time" json:"read_time"`
	Views         int    `bson:"views" json:"views"`
	Likes         int    `bson:"likes" json:"likes"`
	FeaturedImage string `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
}

// NewArticleID derives an article ID from a timestamp.
func NewArticleID(t time.Time) string {
	return "blog_" + t.Format("20060102_150405")
}

// ReadTime computes reading minutes from content length, floored at 3.
// Assumes roughly 300 characters per minute.
func ReadTime(content string) int {
	minutes := utf8.RuneCountInString(content) / 300
	if minutes < 3 {
		minutes = 3
	}
	return minutes
}

// ArticleUpdate is a partial update of an article's mutable fields. Nil
// fields are left untouched. Unknown fields cannot be expressed, and status
// changes that reverse the lifecycle are rejected by Apply.
type ArticleUpdate struct {
	Title         *string        `json:"title,omitempty"`
	Content       *string        `json:"content,omitempty"`
	Summary       *string        `json:"summary,omitempty"`
	Category      *string        `json:"category,omitempty"`
	Tags          *[]string      `json:"tags,omitempty"`
	SEOKeywords   *[]string      `json:"seo_keywords,omitempty"`
	Status        *ArticleStatus `json:"status,omitempty"`
	FeaturedImage *string        `json:"featured_image,omitempty"`
}

// Apply mutates a with the update, refreshing UpdatedAt. A status change
// into published sets PublishDate the first time only.
func (u ArticleUpdate) Apply(a *Article, now time.Time) error {
	if u.Status != nil {
		if !u.Status.Valid() {
			return fmt.Errorf("invalid status %q", *u.Status)
		}
		if !CanTransition(a.Status, *u.Status) {
			return fmt.Errorf("cannot transition article %s from %s to %s", a.ID, a.Status, *u.Status)
		}
		if *u.Status == StatusPublished && a.PublishDate == nil {
			published := now
			a.PublishDate = &published
		}
		a.Status = *u.Status
	}
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Content != nil {
		a.Content = *u.Content
	}
	if u.Summary != nil {
		a.Summary = *u.Summary
	}
	if u.Category != nil {
		a.Category = *u.Category
	}
	if u.Tags != nil {
		a.Tags = *u.Tags
	}
	if u.SEOKeywords != nil {
		a.SEOKeywords = *u.SEOKeywords
	}
	if u.FeaturedImage != nil {
		a.FeaturedImage = *u.FeaturedImage
	}
	a.UpdatedAt = now
	return nil
}

// Outline is the structured payload of the outline generation stage.
type Outline struct {
	Title         string   `json:"title"`
	Sections      []string `json:"sections"`
	KeyPoints     []string `json:"key_points"`
	PracticalTips []string `json:"practical_tips"`
	Summary       string   `json:"summary"`
}

// CategoryCount is the denormalized article count for one category.
type CategoryCount struct {
	Name      string    `bson:"_id" json:"name"`
	Count     int       `bson:"count" json:"count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TagCount is the denormalized article count for one tag.
type TagCount struct {
	Name      string    `bson:"_id" json:"name"`
	Count     int       `bson:"count" json:"count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

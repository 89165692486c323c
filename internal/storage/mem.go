package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yuchialin/goldpen/internal/models"
)

// Mem is an in-memory Store with the same lifecycle semantics as Mongo.
// It backs tests and dry runs of the generation tooling.
type Mem struct {
	mu         sync.RWMutex
	articles   map[string]models.Article
	categories map[string]models.CategoryCount
	tags       map[string]models.TagCount
}

// NewMem creates an empty in-memory store.
func NewMem() *Mem {
	return &Mem{
		articles:   make(map[string]models.Article),
		categories: make(map[string]models.CategoryCount),
		tags:       make(map[string]models.TagCount),
	}
}

// Add inserts a new article and bumps the aggregates.
func (s *Mem) Add(ctx context.Context, article *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[article.ID]; exists {
		return fmt.Errorf("article %s: %w", article.ID, ErrDuplicateID)
	}

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	if article.UpdatedAt.IsZero() {
		article.UpdatedAt = now
	}
	if article.Author == "" {
		article.Author = models.DefaultAuthor
	}
	if article.Status == "" {
		article.Status = models.StatusDraft
	}

	s.articles[article.ID] = *article
	s.bumpAggregates(article.Category, article.Tags, 1)
	return nil
}

func (s *Mem) bumpAggregates(category string, tags []string, delta int) {
	now := time.Now()
	if category != "" {
		c, ok := s.categories[category]
		if !ok {
			c = models.CategoryCount{Name: category, CreatedAt: now}
		}
		c.Count += delta
		s.categories[category] = c
	}
	for _, tag := range tags {
		t, ok := s.tags[tag]
		if !ok {
			t = models.TagCount{Name: tag, CreatedAt: now}
		}
		t.Count += delta
		s.tags[tag] = t
	}
}

// Get returns a single article by id.
func (s *Mem) Get(ctx context.Context, id string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return &article, nil
}

// sortedByCreation returns articles matching the filter, newest first,
// with an id tie-break for stable pagination.
func (s *Mem) sortedByCreation(match func(models.Article) bool) []models.Article {
	var out []models.Article
	for _, a := range s.articles {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func paginate(articles []models.Article, limit, offset int) []models.Article {
	if offset >= len(articles) {
		return nil
	}
	articles = articles[offset:]
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}
	return articles
}

// List returns articles ordered by creation time descending.
func (s *Mem) List(ctx context.Context, status models.ArticleStatus, limit, offset int) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByCreation(func(a models.Article) bool {
		return status == models.StatusAll || a.Status == status
	})
	return paginate(articles, limit, offset), nil
}

// Search returns published articles matching the keyword as a case-sensitive
// substring of title, content or any tag.
func (s *Mem) Search(ctx context.Context, keyword string, limit int) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByCreation(func(a models.Article) bool {
		return a.Status == models.StatusPublished && matchesKeyword(a, keyword)
	})
	return paginate(articles, limit, 0), nil
}

func matchesKeyword(a models.Article, keyword string) bool {
	if strings.Contains(a.Title, keyword) || strings.Contains(a.Content, keyword) {
		return true
	}
	for _, tag := range a.Tags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return false
}

// ListByCategory returns published articles with an exact category match.
func (s *Mem) ListByCategory(ctx context.Context, category string, limit int) ([]models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByCreation(func(a models.Article) bool {
		return a.Status == models.StatusPublished && a.Category == category
	})
	return paginate(articles, limit, 0), nil
}

// Update applies a partial update, adjusting aggregates when the category
// or tags change.
func (s *Mem) Update(ctx context.Context, id string, upd models.ArticleUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}

	oldCategory := article.Category
	oldTags := article.Tags

	if err := upd.Apply(&article, time.Now()); err != nil {
		return err
	}
	s.articles[id] = article

	if upd.Category != nil && *upd.Category != oldCategory {
		s.bumpAggregates(oldCategory, nil, -1)
		s.bumpAggregates(article.Category, nil, 1)
	}
	if upd.Tags != nil && !equalTags(oldTags, article.Tags) {
		s.bumpAggregates("", oldTags, -1)
		s.bumpAggregates("", article.Tags, 1)
	}
	return nil
}

// Publish moves the article to published, stamping publish_date on the
// first transition.
func (s *Mem) Publish(ctx context.Context, id string) error {
	status := models.StatusPublished
	return s.Update(ctx, id, models.ArticleUpdate{Status: &status})
}

// Archive moves the article to archived.
func (s *Mem) Archive(ctx context.Context, id string) error {
	status := models.StatusArchived
	return s.Update(ctx, id, models.ArticleUpdate{Status: &status})
}

// IncrementViews adds exactly one view.
func (s *Mem) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	article.Views++
	s.articles[id] = article
	return nil
}

// Delete removes the article and decrements its aggregates.
func (s *Mem) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	delete(s.articles, id)
	s.bumpAggregates(article.Category, article.Tags, -1)
	return nil
}

// Categories returns category counts ordered by descending count.
func (s *Mem) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CategoryCount, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// PopularTags returns the most used tags.
func (s *Mem) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TagCount, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Seed inserts the default published articles if the store is empty.
func (s *Mem) Seed(ctx context.Context) error {
	s.mu.Lock()
	empty := len(s.articles) == 0
	s.mu.Unlock()

	if !empty {
		return nil
	}

	for _, article := range defaultArticles() {
		a := article
		if err := s.Add(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}

// CountArticles returns the total number of stored articles.
func (s *Mem) CountArticles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.articles)), nil
}

// Package storage provides persistence for goldpen articles.
package storage

import (
	"context"
	"errors"

	"github.com/yuchialin/goldpen/internal/models"
)

var (
	// ErrNotFound is returned when no article matches the requested id.
	ErrNotFound = errors.New("article not found")

	// ErrDuplicateID is returned by Add when the id is already taken.
	ErrDuplicateID = errors.New("duplicate article id")
)

// Store is the persistence and query surface for articles. All operations
// report failure via the returned error; none retries internally.
type Store interface {
	// Add inserts a new article keyed by its id and updates the category
	// and tag aggregates. Fails with ErrDuplicateID if the id exists.
	Add(ctx context.Context, article *models.Article) error

	// Get returns the article or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Article, error)

	// List returns articles ordered by creation time descending.
	// StatusAll bypasses the status filter.
	List(ctx context.Context, status models.ArticleStatus, limit, offset int) ([]models.Article, error)

	// Search returns published articles whose title, content or tags
	// contain the keyword as a case-sensitive substring.
	Search(ctx context.Context, keyword string, limit int) ([]models.Article, error)

	// ListByCategory returns published articles with an exact category match.
	ListByCategory(ctx context.Context, category string, limit int) ([]models.Article, error)

	// Update applies a partial update, always refreshing updated_at.
	// Fails with ErrNotFound if the id does not exist.
	Update(ctx context.Context, id string, upd models.ArticleUpdate) error

	// Publish moves the article to published and stamps publish_date.
	Publish(ctx context.Context, id string) error

	// Archive moves the article to archived.
	Archive(ctx context.Context, id string) error

	// IncrementViews adds exactly one to the view counter.
	IncrementViews(ctx context.Context, id string) error

	// Delete removes the article and decrements its aggregates.
	Delete(ctx context.Context, id string) error

	// Categories returns category counts ordered by descending count.
	Categories(ctx context.Context) ([]models.CategoryCount, error)

	// PopularTags returns tag counts ordered by descending count.
	PopularTags(ctx context.Context, limit int) ([]models.TagCount, error)

	// Seed inserts the default published articles if the store is empty.
	// Running it against a non-empty store is a no-op.
	Seed(ctx context.Context) error

	// CountArticles returns the total number of stored articles.
	CountArticles(ctx context.Context) (int64, error)
}

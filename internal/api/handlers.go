package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yuchialin/goldpen/internal/models"
	"github.com/yuchialin/goldpen/internal/storage"
)

// Handlers holds the API handlers.
type Handlers struct {
	store storage.Store
}

// NewHandlers creates new API handlers.
func NewHandlers(store storage.Store) *Handlers {
	return &Handlers{store: store}
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "Article not found")
	case errors.Is(err, storage.ErrDuplicateID):
		respondError(w, http.StatusConflict, "Duplicate article id")
	default:
		respondError(w, http.StatusBadRequest, err.Error())
	}
}

func getLimit(r *http.Request, defaultLimit int) int {
	limit := defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

func getOffset(r *http.Request) int {
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return 0
}

// ============================================================================
// ARTICLE HANDLERS
// ============================================================================

// GetArticles returns articles filtered by status, newest first.
func (h *Handlers) GetArticles(w http.ResponseWriter, r *http.Request) {
	status := models.ArticleStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.StatusPublished
	}
	if status != models.StatusAll && !status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	articles, err := h.store.List(r.Context(), status, getLimit(r, 10), getOffset(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"count":    len(articles),
	})
}

// GetArticle returns a single article by id and counts the view.
func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "Article id is required")
		return
	}

	article, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.store.IncrementViews(r.Context(), article.ID)

	respondJSON(w, http.StatusOK, article)
}

// SearchArticles returns published articles matching the keyword.
func (h *Handlers) SearchArticles(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "Search keyword is required")
		return
	}

	articles, err := h.store.Search(r.Context(), keyword, getLimit(r, 10))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search articles")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"keyword":  keyword,
		"count":    len(articles),
	})
}

// GetArticlesByCategory returns published articles for a category.
func (h *Handlers) GetArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	articles, err := h.store.ListByCategory(r.Context(), category, getLimit(r, 10))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch articles")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"articles": articles,
		"category": category,
		"count":    len(articles),
	})
}

// ============================================================================
// AGGREGATE HANDLERS
// ============================================================================

// GetCategories returns category counts.
func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetPopularTags returns the most used tags.
func (h *Handlers) GetPopularTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.PopularTags(r.Context(), getLimit(r, 20))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  tags,
		"count": len(tags),
	})
}

// GetStats returns general statistics.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.CountArticles(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	categories, err := h.store.Categories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_articles": total,
		"categories":     categories,
	})
}

// HealthCheck returns service health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "goldpen",
	})
}

// ============================================================================
// ADMIN HANDLERS
// ============================================================================

// PublishArticle moves a draft into published.
func (h *Handlers) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Publish(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

// ArchiveArticle moves an article into archived.
func (h *Handlers) ArchiveArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Archive(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

// UpdateArticle applies a partial update to an article.
func (h *Handlers) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd models.ArticleUpdate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid update payload: "+err.Error())
		return
	}

	if err := h.store.Update(r.Context(), id, upd); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

// DeleteArticle removes an article.
func (h *Handlers) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

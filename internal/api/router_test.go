package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yuchialin/goldpen/internal/models"
	"github.com/yuchialin/goldpen/internal/storage"
)

type fakeJobs struct {
	ran []string
}

func (f *fakeJobs) RunJobNow(name string) bool {
	if name != "daily-article" && name != "market-snapshot" {
		return false
	}
	f.ran = append(f.ran, name)
	return true
}

func (f *fakeJobs) GetJobStatus() []map[string]interface{} {
	return []map[string]interface{}{{"name": "daily-article"}}
}

func newTestServer(t *testing.T) (*httptest.Server, *storage.Mem, *fakeJobs) {
	t.Helper()
	store := storage.NewMem()
	jobs := &fakeJobs{}
	srv := httptest.NewServer(NewRouter(store, jobs))
	t.Cleanup(srv.Close)
	return srv, store, jobs
}

func seedArticle(t *testing.T, store *storage.Mem, id string, status models.ArticleStatus) {
	t.Helper()
	now := time.Now()
	err := store.Add(context.Background(), &models.Article{
		ID:        id,
		Title:     "測試文章 " + id,
		Content:   "內容",
		Category:  "投資策略",
		Tags:      []string{"黃金投資"},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "healthy" {
		t.Fatalf("body = %v", body)
	}
}

func TestListArticlesDefaultsToPublished(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedArticle(t, store, "blog_pub", models.StatusPublished)
	seedArticle(t, store, "blog_draft", models.StatusDraft)

	resp, err := http.Get(srv.URL + "/api/articles/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body struct {
		Articles []models.Article `json:"articles"`
		Count    int              `json:"count"`
	}
	decodeBody(t, resp, &body)
	if body.Count != 1 || body.Articles[0].ID != "blog_pub" {
		t.Fatalf("body = %+v, want only blog_pub", body)
	}
}

func TestListArticlesInvalidStatus(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/articles/?status=bogus")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetArticleCountsView(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedArticle(t, store, "blog_pub", models.StatusPublished)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/articles/blog_pub")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	}

	got, _ := store.Get(context.Background(), "blog_pub")
	if got.Views != 2 {
		t.Fatalf("views = %d, want 2", got.Views)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/articles/blog_missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestPublishAndArchiveEndpoints(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedArticle(t, store, "blog_a", models.StatusDraft)

	resp, err := http.Post(srv.URL+"/api/admin/articles/blog_a/publish", "application/json", nil)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish status = %d", resp.StatusCode)
	}

	got, _ := store.Get(context.Background(), "blog_a")
	if got.Status != models.StatusPublished || got.PublishDate == nil {
		t.Fatalf("article = %+v, want published with publish_date", got)
	}

	resp, err = http.Post(srv.URL+"/api/admin/articles/blog_a/archive", "application/json", nil)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive status = %d", resp.StatusCode)
	}

	// Republish of an archived article is a client error.
	resp, err = http.Post(srv.URL+"/api/admin/articles/blog_a/publish", "application/json", nil)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("republish status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateArticleEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedArticle(t, store, "blog_a", models.StatusDraft)

	payload := []byte(`{"title":"改過的標題","tags":["黃金","定投"]}`)
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/admin/articles/blog_a", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	got, _ := store.Get(context.Background(), "blog_a")
	if got.Title != "改過的標題" || len(got.Tags) != 2 {
		t.Fatalf("article = %+v", got)
	}

	// Unknown fields are rejected, not silently dropped.
	req, _ = http.NewRequest(http.MethodPatch, srv.URL+"/api/admin/articles/blog_a", bytes.NewReader([]byte(`{"views":99}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteArticleEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t)
	seedArticle(t, store, "blog_a", models.StatusPublished)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/admin/articles/blog_a", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	n, _ := store.CountArticles(context.Background())
	if n != 0 {
		t.Fatalf("count = %d after delete", n)
	}
}

func TestSearchRequiresKeyword(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/articles/search")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateNowEndpoint(t *testing.T) {
	srv, _, jobs := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/admin/generate", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	if len(jobs.ran) != 1 || jobs.ran[0] != "daily-article" {
		t.Fatalf("ran = %v", jobs.ran)
	}
}

func TestRunUnknownJob(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/admin/jobs/bogus/run", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestJobEndpointsWithoutScheduler(t *testing.T) {
	store := storage.NewMem()
	srv := httptest.NewServer(NewRouter(store, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/admin/jobs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yuchialin/goldpen/internal/models"
)

// Mongo is the MongoDB-backed Store.
type Mongo struct {
	client     *mongo.Client
	db         *mongo.Database
	articles   *mongo.Collection
	categories *mongo.Collection
	tags       *mongo.Collection
}

// NewMongo creates a new storage connection and seeds default articles
// if the database is empty.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	log.Info().Str("db", dbName).Msg("Connected to MongoDB")

	store := &Mongo{
		client:     client,
		db:         db,
		articles:   db.Collection("articles"),
		categories: db.Collection("categories"),
		tags:       db.Collection("tags"),
	}

	if err := store.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create some indexes")
	}

	if err := store.Seed(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default articles")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Mongo) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Mongo) createIndexes(ctx context.Context) error {
	articleIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := s.articles.Indexes().CreateMany(ctx, articleIndexes); err != nil {
		return err
	}

	countIndex := []mongo.IndexModel{
		{Keys: bson.D{{Key: "count", Value: -1}}},
	}
	if _, err := s.categories.Indexes().CreateMany(ctx, countIndex); err != nil {
		return err
	}
	if _, err := s.tags.Indexes().CreateMany(ctx, countIndex); err != nil {
		return err
	}
	return nil
}

// Add inserts a new article and bumps the aggregates.
func (s *Mongo) Add(ctx context.Context, article *models.Article) error {
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

	if _, err := s.articles.InsertOne(ctx, article); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("article %s: %w", article.ID, ErrDuplicateID)
		}
		return err
	}

	return s.bumpAggregates(ctx, article.Category, article.Tags, 1)
}

// bumpAggregates adjusts the denormalized category and tag counters.
func (s *Mongo) bumpAggregates(ctx context.Context, category string, tags []string, delta int) error {
	update := bson.M{
		"$inc":         bson.M{"count": delta},
		"$setOnInsert": bson.M{"created_at": time.Now()},
	}
	opts := options.Update().SetUpsert(true)

	if category != "" {
		if _, err := s.categories.UpdateOne(ctx, bson.M{"_id": category}, update, opts); err != nil {
			return err
		}
	}
	for _, tag := range tags {
		if _, err := s.tags.UpdateOne(ctx, bson.M{"_id": tag}, update, opts); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a single article by id.
func (s *Mongo) Get(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	err := s.articles.FindOne(ctx, bson.M{"_id": id}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// List returns articles ordered by creation time descending, with a stable
// id tie-break so pagination never drops or duplicates rows.
func (s *Mongo) List(ctx context.Context, status models.ArticleStatus, limit, offset int) ([]models.Article, error) {
	filter := bson.M{}
	if status != models.StatusAll {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	return s.findArticles(ctx, filter, opts)
}

// Search returns published articles matching the keyword as a case-sensitive
// substring of title, content or any tag.
func (s *Mongo) Search(ctx context.Context, keyword string, limit int) ([]models.Article, error) {
	pattern := regexp.QuoteMeta(keyword)
	filter := bson.M{
		"status": models.StatusPublished,
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern}},
			{"content": bson.M{"$regex": pattern}},
			{"tags": bson.M{"$regex": pattern}},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return s.findArticles(ctx, filter, opts)
}

// ListByCategory returns published articles with an exact category match.
func (s *Mongo) ListByCategory(ctx context.Context, category string, limit int) ([]models.Article, error) {
	filter := bson.M{"category": category, "status": models.StatusPublished}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	return s.findArticles(ctx, filter, opts)
}

func (s *Mongo) findArticles(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Article, error) {
	cursor, err := s.articles.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []models.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Update applies a partial update. Aggregates are adjusted when the
// category or tags change.
func (s *Mongo) Update(ctx context.Context, id string, upd models.ArticleUpdate) error {
	article, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	oldCategory := article.Category
	oldTags := article.Tags

	if err := upd.Apply(article, time.Now()); err != nil {
		return err
	}

	if _, err := s.articles.ReplaceOne(ctx, bson.M{"_id": id}, article); err != nil {
		return err
	}

	if upd.Category != nil && *upd.Category != oldCategory {
		if err := s.bumpAggregates(ctx, oldCategory, nil, -1); err != nil {
			return err
		}
		if err := s.bumpAggregates(ctx, article.Category, nil, 1); err != nil {
			return err
		}
	}
	if upd.Tags != nil && !equalTags(oldTags, article.Tags) {
		if err := s.bumpAggregates(ctx, "", oldTags, -1); err != nil {
			return err
		}
		if err := s.bumpAggregates(ctx, "", article.Tags, 1); err != nil {
			return err
		}
	}
	return nil
}

// Publish moves the article to published, stamping publish_date on the
// first transition.
func (s *Mongo) Publish(ctx context.Context, id string) error {
	status := models.StatusPublished
	return s.Update(ctx, id, models.ArticleUpdate{Status: &status})
}

// Archive moves the article to archived.
func (s *Mongo) Archive(ctx context.Context, id string) error {
	status := models.StatusArchived
	return s.Update(ctx, id, models.ArticleUpdate{Status: &status})
}

// IncrementViews atomically adds one view.
func (s *Mongo) IncrementViews(ctx context.Context, id string) error {
	result, err := s.articles.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the article and decrements its aggregates.
func (s *Mongo) Delete(ctx context.Context, id string) error {
	article, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.articles.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}

	return s.bumpAggregates(ctx, article.Category, article.Tags, -1)
}

// Categories returns category counts ordered by descending count.
func (s *Mongo) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "count", Value: -1}})
	cursor, err := s.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.CategoryCount
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// PopularTags returns the most used tags.
func (s *Mongo) PopularTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := s.tags.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tags []models.TagCount
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Seed inserts the default published articles if the store is empty.
func (s *Mongo) Seed(ctx context.Context) error {
	count, err := s.articles.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info().Msg("Empty store, seeding default articles")

	opts := options.Replace().SetUpsert(true)
	for _, article := range defaultArticles() {
		if _, err := s.articles.ReplaceOne(ctx, bson.M{"_id": article.ID}, &article, opts); err != nil {
			return err
		}
		if err := s.bumpAggregates(ctx, article.Category, article.Tags, 1); err != nil {
			return err
		}
	}
	return nil
}

// CountArticles returns the total number of stored articles.
func (s *Mongo) CountArticles(ctx context.Context) (int64, error) {
	return s.articles.CountDocuments(ctx, bson.M{})
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

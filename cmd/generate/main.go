// Command generate produces a single article from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yuchialin/goldpen/internal/catalog"
	"github.com/yuchialin/goldpen/internal/config"
	"github.com/yuchialin/goldpen/internal/content"
	"github.com/yuchialin/goldpen/internal/export"
	"github.com/yuchialin/goldpen/internal/gpt"
	"github.com/yuchialin/goldpen/internal/kitco"
	"github.com/yuchialin/goldpen/internal/models"
	"github.com/yuchialin/goldpen/internal/storage"
)

func main() {
	var (
		category   = flag.String("category", "", "article category, random when empty")
		topic      = flag.String("topic", "", "article topic, random when empty")
		dryRun     = flag.Bool("dry-run", false, "generate without persisting to MongoDB")
		exportPath = flag.String("export", "", "also write the article as JSON to this path")
		withMarket = flag.Bool("market", false, "scrape a market snapshot before generating")
		publish    = flag.Bool("publish", false, "publish the article immediately")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	cfg.Validate()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var store storage.Store
	if *dryRun {
		store = storage.NewMem()
	} else {
		mongoCtx, mongoCancel := context.WithTimeout(ctx, 10*time.Second)
		mongoStore, err := storage.NewMongo(mongoCtx, cfg.MongoURI, cfg.MongoDB)
		mongoCancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			mongoStore.Close(closeCtx)
		}()
		store = mongoStore
	}

	chat := gpt.NewClient(gpt.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})

	var snapshot *models.MarketSnapshot
	if *withMarket {
		snap, err := kitco.NewClient(cfg.KitcoBaseURL).Snapshot(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Market snapshot failed, generating without it")
		} else {
			snapshot = snap
		}
	}

	cat := catalog.Default()
	pipeline := content.NewPipeline(chat, store, cat, nil)

	sel := catalog.Selection{Category: *category, Topic: *topic}
	if sel.Category == "" || sel.Topic == "" {
		picked := catalog.NewRandomSelector().Select(cat)
		if sel.Category == "" {
			sel.Category = picked.Category
		}
		if sel.Topic == "" {
			sel.Topic = picked.Topic
		}
	}

	article, err := pipeline.Synthesize(ctx, sel.Category, sel.Topic, snapshot)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	if err := store.Add(ctx, article); err != nil {
		log.Fatal().Err(err).Msg("Failed to save article")
	}

	if *publish {
		if err := store.Publish(ctx, article.ID); err != nil {
			log.Fatal().Err(err).Str("id", article.ID).Msg("Failed to publish article")
		}
		article.Status = models.StatusPublished
	}

	if *exportPath != "" {
		if err := export.WriteFile(*exportPath, article); err != nil {
			log.Fatal().Err(err).Msg("Export failed")
		}
		log.Info().Str("path", *exportPath).Msg("Article exported")
	}

	log.Info().
		Str("id", article.ID).
		Str("title", article.Title).
		Str("category", article.Category).
		Str("status", string(article.Status)).
		Int("read_time", article.ReadTime).
		Msg("Article generated")
}

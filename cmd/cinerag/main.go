// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/cinerag"
	"github.com/poiesic/cinerag/ai"
	"github.com/poiesic/cinerag/core"
	"github.com/poiesic/cinerag/reembed"
)

func main() {
	app := &cli.App{
		Name:  "cinerag",
		Usage: "Hybrid semantic and keyword movie search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search the catalog with a free-text query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   cinerag.DefaultLimit,
					},
					&cli.StringSliceFlag{
						Name:  "genre",
						Usage: "Restrict results to a genre (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "prefer-genre",
						Usage: "Personalization: boost a preferred genre (repeatable)",
					},
				),
			},
			{
				Name:      "similar",
				Usage:     "List movies similar to a catalog entry",
				ArgsUsage: "<movie-id>",
				Action:    similarCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   cinerag.DefaultLimit,
					},
				),
			},
			{
				Name:   "seed",
				Usage:  "Load movies into the catalog and embed them",
				Action: seedCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "JSON file with movies to load (default: built-in sample catalog)",
					},
				),
			},
			{
				Name:      "warm",
				Usage:     "Run queries through the pipeline to warm the cache",
				ArgsUsage: "<query>...",
				Action:    warmCommand,
				Flags:     engineFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate all catalog vectors with the configured embedding model",
				Action: reembedCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of movies to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N movies",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "stats",
				Usage:  "Show catalog, cache and optimizer statistics",
				Action: statsCommand,
				Flags:  engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to the data directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.DurationFlag{
			Name:  "retrieval-timeout",
			Usage: "Deadline for dual-channel retrieval",
			Value: 800 * time.Millisecond,
		},
	}
}

func openEngine(c *cli.Context) (*cinerag.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := cinerag.NewEngine(c.String("db"),
		cinerag.WithAIConfig(aiConfig),
		cinerag.WithRetrievalTimeout(c.Duration("retrieval-timeout")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	return engine, nil
}

func searchCommand(c *cli.Context) error {
	rawQuery := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(rawQuery) == "" {
		return fmt.Errorf("a query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	var opts []cinerag.SearchOption
	if genres := c.StringSlice("genre"); len(genres) > 0 {
		opts = append(opts, cinerag.WithFilters(genres, nil))
	}
	if preferred := c.StringSlice("prefer-genre"); len(preferred) > 0 {
		opts = append(opts, cinerag.WithUserContext(&core.UserContext{
			SessionId:       "cli",
			PreferredGenres: preferred,
		}))
	}

	result, err := engine.Search(context.Background(), rawQuery, c.Int("limit"), opts...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResult(result)
	return nil
}

func similarCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("a movie id is required")
	}
	var id core.ID
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil {
		return fmt.Errorf("invalid movie id %q", c.Args().First())
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Similar(context.Background(), id, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("similar lookup failed: %w", err)
	}

	printResult(result)
	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	movies := sampleCatalog()
	if file := c.String("file"); file != "" {
		loaded, err := loadMovies(file)
		if err != nil {
			return err
		}
		movies = loaded
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	embedder := engine.Embedder()

	fmt.Fprintf(os.Stderr, "Embedding %d movies...\n", len(movies))
	for i, movie := range movies {
		vector, err := embedder.EmbedText(ctx, reembed.EmbeddingText(movie.Title, movie.Genres, movie.Overview))
		if err != nil {
			return fmt.Errorf("failed to embed %q: %w", movie.Title, err)
		}
		movie.Vector = vector
		if (i+1)%25 == 0 {
			fmt.Fprintf(os.Stderr, "  %d/%d\n", i+1, len(movies))
		}
	}

	if _, err := engine.MovieRepository().AddMovies(ctx, movies...); err != nil {
		return fmt.Errorf("failed to store movies: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d movies into %s\n", len(movies), c.String("db"))
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	reembedder := reembed.NewReembedder(engine.MovieRepository(), engine.Embedder(), reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func warmCommand(c *cli.Context) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	warmed := engine.WarmCache(context.Background(), queries)
	fmt.Fprintf(os.Stderr, "Warmed %d/%d queries\n", warmed, len(queries))
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	fmt.Printf("Movies:           %d\n", stats.Movies)
	fmt.Printf("Cache L1 entries: %d\n", stats.Cache.L1Entries)
	fmt.Printf("Cache L1 hits:    %d\n", stats.Cache.L1Hits)
	fmt.Printf("Cache L2 hits:    %d\n", stats.Cache.L2Hits)
	fmt.Printf("Cache misses:     %d\n", stats.Cache.Misses)
	fmt.Printf("Cache hit rate:   %.2f\n", stats.Cache.HitRate())
	fmt.Printf("Query rewrites:   %d\n", stats.Optimizer.Rewrites)
	fmt.Printf("Tracked patterns: %d\n", stats.Optimizer.Patterns)
	return nil
}

func loadMovies(path string) ([]*core.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var movies []*core.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("%s contains no movies", path)
	}
	return movies, nil
}

func printResult(result *core.RankedResult) {
	if len(result.Items) == 0 {
		fmt.Println("No results.")
		return
	}

	for i, item := range result.Items {
		channels := ""
		if item.Channels.Has(core.ChannelSemantic) {
			channels += "S"
		}
		if item.Channels.Has(core.ChannelLexical) {
			channels += "L"
		}
		fmt.Printf("%2d. %s (%d)  [%s]  score=%.3f  genres=%s\n",
			i+1, item.Movie.Title, item.Movie.Year, channels, item.Combined,
			strings.Join(item.Movie.Genres, ", "))
	}
	fmt.Printf("\n%d results  stage=%s  cache=%s  rewritten=%v  elapsed=%s\n",
		len(result.Items), result.Stage, result.CacheStatus, result.QueryRewritten, result.Elapsed)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

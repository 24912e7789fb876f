// Command vectordb loads pre-embedded document CSVs into PostgreSQL with
// pgvector and runs similarity queries against them.
//
// Usage:
//
//	vectordb [flags] file.csv            save a CSV of text,embedding rows
//	vectordb [flags] -query "..."        rank stored documents against a query
//	vectordb [flags] -stats              show one collection's statistics
//	vectordb [flags] -list               list all collections
//
// The connection string comes from -dsn or the vectordb.dsn config key.
// Queries embed the query text with the OpenAI embeddings API and need
// OPENAI_API_KEY set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/Abhi95081/AI-AudioBook-Generator/internal/config"
	"github.com/Abhi95081/AI-AudioBook-Generator/internal/observe"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/provider/embeddings/openai"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/vectordb"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("vectordb", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the YAML config file")
	dsn := fs.String("dsn", "", "PostgreSQL connection string (default: from config)")
	collection := fs.String("collection", "documents", "collection name")
	batchSize := fs.Int("batch-size", vectordb.DefaultBatchSize, "rows per insert batch")
	query := fs.String("query", "", "rank stored documents against this text")
	topK := fs.Int("top-k", 5, "number of results for -query")
	list := fs.Bool("list", false, "list all collections and exit")
	stats := fs.Bool("stats", false, "show statistics for -collection and exit")
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel.Slog(),
	}))
	slog.SetDefault(logger)

	if *dsn == "" {
		*dsn = cfg.VectorDB.DSN
	}
	if *dsn == "" {
		fmt.Fprintln(os.Stderr, "vectordb: no connection string; pass -dsn or set vectordb.dsn in the config")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := vectordb.NewStore(ctx, *dsn)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}
	defer store.Close()

	switch {
	case *list:
		return runList(ctx, store)
	case *stats:
		return runStats(ctx, store, *collection)
	case *query != "":
		return runQuery(ctx, store, *collection, *query, *topK)
	default:
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "vectordb: expected exactly one CSV file argument")
			return 2
		}
		return runSave(ctx, store, fs.Arg(0), *collection, *batchSize)
	}
}

func runSave(ctx context.Context, store *vectordb.Store, path, collection string, batchSize int) int {
	saved, err := store.SaveCSV(ctx, path, collection, batchSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}

	m := observe.DefaultMetrics()
	m.DocumentsSaved.Add(ctx, int64(saved))

	fmt.Printf("saved %d documents to collection %q\n", saved, collection)
	return 0
}

func runList(ctx context.Context, store *vectordb.Store) int {
	infos, err := store.Collections(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("no collections")
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTION\tDOCUMENTS\tDIMENSIONS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%d\n", info.Name, info.Documents, info.Dimensions)
	}
	w.Flush()
	return 0
}

func runStats(ctx context.Context, store *vectordb.Store, collection string) int {
	st, err := store.Stats(ctx, collection)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}

	fmt.Printf("collection:  %s\n", st.Name)
	fmt.Printf("documents:   %d\n", st.Documents)
	fmt.Printf("dimensions:  %d\n", st.Dimensions)
	fmt.Printf("avg length:  %.1f chars\n", st.AvgLength)
	return 0
}

func runQuery(ctx context.Context, store *vectordb.Store, collection, query string, topK int) int {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "vectordb: -query needs OPENAI_API_KEY to embed the query text")
		return 2
	}

	provider, err := openai.New(apiKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}

	m := observe.DefaultMetrics()
	embedding, err := provider.Embed(ctx, query)
	if err != nil {
		m.RecordProviderError(ctx, "openai", "embeddings")
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}
	m.RecordProviderRequest(ctx, "openai", "embeddings", "ok")

	results, err := store.Query(ctx, collection, embedding, topK)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vectordb:", err)
		return 1
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return 0
	}

	for i, r := range results {
		fmt.Printf("%d. (distance %.4f", i+1, r.Distance)
		if r.Source != "" {
			fmt.Printf(", source %s", r.Source)
		}
		fmt.Printf(")\n   %s\n", r.Content)
	}
	return 0
}

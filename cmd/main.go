package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	corpora "github.com/corpora-ai/gosdk"
)

// config holds the demo's environment-derived settings.
type config struct {
	APIKey   string `mapstructure:"corpora_api_key"`
	BaseURL  string `mapstructure:"corpora_base_url"`
	LogLevel string `mapstructure:"corpora_log_level"`
}

// loadConfig reads configuration from the environment, with an optional
// local .env file.
func loadConfig() (*config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("corpora_api_key", "")
	v.SetDefault("corpora_base_url", "https://api.corpora.ai")
	v.SetDefault("corpora_log_level", "info")
	v.AutomaticEnv()

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("CORPORA_API_KEY environment variable is required")
	}
	return &cfg, nil
}

// buildLogger creates a zap logger at the configured level.
func buildLogger(level string) *zap.Logger {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		lvl,
	)
	return zap.New(core)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := buildLogger(cfg.LogLevel)
	defer logger.Sync()

	fmt.Printf("Testing Corpora SDK against %s...\n", cfg.BaseURL)
	fmt.Printf("API Key: %s...\n", cfg.APIKey[:min(len(cfg.APIKey), 10)])

	client, err := corpora.New(
		corpora.WithAPIKey(cfg.APIKey),
		corpora.WithEndpoint(cfg.BaseURL),
		corpora.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Create a collection with a generated ID.
	collection, err := client.CreateCollection(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}
	fmt.Printf("Created collection: %s\n", collection.ID)

	// Insert a resource.
	inserted, err := client.InsertResource(ctx, &corpora.InsertResourceRequest{
		CollectionID: collection.ID,
		Resource:     "The Corpora SDK demo resource. Corpora answers questions about your content.",
		Type:         corpora.ResourceTypeText,
	})
	if err != nil {
		log.Fatalf("Failed to insert resource: %v", err)
	}
	fmt.Printf("Inserted resource: %s\n", inserted.ResourceID)

	// Plain query.
	answer, err := client.Query(ctx, corpora.NewQueryRequestBuilder().
		CollectionID(collection.ID).
		Query("What does Corpora do?").
		Build())
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Printf("Answer: %s\n", string(answer))

	// Streamed query.
	fmt.Println("Streaming answer:")
	for record, err := range client.QueryStreamIter(ctx, &corpora.QueryRequest{
		CollectionID: collection.ID,
		Query:        "Summarize the collection in one sentence.",
	}) {
		if err != nil {
			log.Fatalf("Stream failed: %v", err)
		}
		fmt.Printf("  %s\n", string(record))
	}

	// Clean up.
	if err := client.DeleteResource(ctx, collection.ID, inserted.ResourceID); err != nil {
		log.Printf("Failed to delete resource: %v", err)
	}
	if err := client.DeleteCollection(ctx, collection.ID); err != nil {
		log.Printf("Failed to delete collection: %v", err)
	}

	fmt.Println("SDK demo completed successfully!")
}

// Package cli implements the boardsense command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	canvasfile "github.com/custodia-labs/boardsense/internal/adapters/driven/canvas/file"
	configfile "github.com/custodia-labs/boardsense/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/boardsense/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/custodia-labs/boardsense/internal/adapters/driven/embedding/openai"
	llmollama "github.com/custodia-labs/boardsense/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/boardsense/internal/adapters/driven/llm/openai"
	vectorsqlite "github.com/custodia-labs/boardsense/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/core/ports/driven"
	"github.com/custodia-labs/boardsense/internal/core/ports/driving"
	"github.com/custodia-labs/boardsense/internal/core/services"
	"github.com/custodia-labs/boardsense/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	boardPath string
)

// Services used by commands. Wired lazily by ensureServices; tests inject
// their own implementations directly.
var (
	configStore      driven.ConfigStore
	boardCanvas      driven.Canvas
	indexerService   driving.Indexer
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	captureService   *services.Capture
	observerService  *services.Observer

	vectorStore driven.VectorStore
)

var rootCmd = &cobra.Command{
	Use:   "boardsense",
	Short: "Semantic search and chat for whiteboard notes",
	Long: `boardsense keeps an embedding index in sync with the text notes on a
whiteboard document, answers free-text queries against it and relays
whiteboard-grounded chat to an LLM provider.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&boardPath, "board", "", "path to the board document (default from config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newConfigStore opens the TOML config store in its default location.
func newConfigStore() (driven.ConfigStore, error) {
	return configfile.NewConfigStore("")
}

// ensureServices wires real adapters into the package service variables.
// Already-set services (from tests or a previous call) are left alone.
func ensureServices() error {
	if indexerService != nil && retrievalService != nil {
		return nil
	}

	if err := ensureConfig(); err != nil {
		return err
	}

	path := boardPath
	if path == "" {
		path = configStore.GetString("board.path")
	}
	if path == "" {
		path = "board.json"
	}

	if boardCanvas == nil {
		canvas, err := canvasfile.New(path)
		if err != nil {
			return fmt.Errorf("opening board: %w", err)
		}
		boardCanvas = canvas
	}

	embedder, err := buildEmbedder(configStore)
	if err != nil {
		return err
	}
	gateway := services.NewEmbeddingGateway(embedder, configStore.GetFloat("provider.rate_limit"))

	if vectorStore == nil {
		store, err := vectorsqlite.NewStore("", boardID(path))
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		vectorStore = store
	}

	indexerService = services.NewIndexer(vectorStore, gateway, services.IndexerConfig{
		ClusterThreshold: configStore.GetFloat(driven.ConfigKeyClusterThreshold),
	})
	retrievalService = services.NewRetrieval(vectorStore, gateway, boardCanvas)
	captureService = services.NewCapture(boardCanvas,
		configStore.GetFloat(driven.ConfigKeyCaptureWidth),
		configStore.GetFloat(driven.ConfigKeyCaptureHeight))
	observerService = services.NewObserver(boardCanvas, indexerService)

	chatService = services.NewChat(buildCompleter(configStore), configStore)

	return nil
}

// buildEmbedder constructs the configured embedding provider. Defaults to
// OpenAI; set provider.type to "ollama" for a local model.
func buildEmbedder(config driven.ConfigStore) (driven.EmbeddingService, error) {
	switch config.GetString("provider.type") {
	case "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: config.GetString("provider.base_url"),
			Model:   config.GetString("provider.embedding_model"),
		}), nil
	default:
		key := apiKey(config)
		if key == "" {
			return nil, fmt.Errorf("%w: set %s or OPENAI_API_KEY",
				domain.ErrAPIKeyMissing, driven.ConfigKeyAPIKey)
		}
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey:  key,
			BaseURL: config.GetString("provider.base_url"),
			Model:   config.GetString("provider.embedding_model"),
		})
	}
}

// buildCompleter constructs the configured chat provider, or nil when the
// OpenAI key is missing. The chat service reports the missing key to the
// user itself. The ollama provider is local and needs no credential.
func buildCompleter(config driven.ConfigStore) driven.ChatCompleter {
	switch config.GetString("provider.type") {
	case "ollama":
		return llmollama.NewChatService(llmollama.Config{
			BaseURL: config.GetString("provider.base_url"),
			Model:   config.GetString("provider.chat_model"),
		})
	default:
		key := apiKey(config)
		if key == "" {
			return nil
		}

		completer, err := llmopenai.NewChatService(llmopenai.Config{
			APIKey:  key,
			BaseURL: config.GetString("provider.base_url"),
			Model:   config.GetString("provider.chat_model"),
		})
		if err != nil {
			logger.Warn("chat provider unavailable: %v", err)
			return nil
		}
		return completer
	}
}

// apiKey resolves the provider API key from config, falling back to the
// OPENAI_API_KEY environment variable.
func apiKey(config driven.ConfigStore) string {
	if key := config.GetString(driven.ConfigKeyAPIKey); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

// boardID derives a stable index storage key from the board file name.
func boardID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/boardsense/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchJump  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed whiteboard notes",
	Long: `Embeds the query and ranks indexed note clusters by semantic similarity.
Positions are read live from the board, so results reflect where notes
are now, not where they were when indexed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchJump, "jump", false, "select the top match and centre the viewport on it")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if err := ensureServices(); err != nil {
		return err
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()

	if searchJump {
		return runJump(ctx, cmd, query)
	}

	matches, err := retrievalService.Retrieve(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputMatchesJSON(cmd, matches)
	}
	return outputMatchesTable(cmd, matches)
}

func runJump(ctx context.Context, cmd *cobra.Command, query string) error {
	match, err := retrievalService.JumpTo(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No matches found.")
			return nil
		}
		return fmt.Errorf("jump failed: %w", err)
	}

	cmd.Printf("Jumped to %q at (%.0f, %.0f)\n", match.Entry.Name, match.Center.X, match.Center.Y)
	return nil
}

func outputMatchesJSON(cmd *cobra.Command, matches []domain.Match) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchesTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, match := range matches {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, match.Entry.Name, match.Similarity)
		cmd.Printf("      Shape: %s at (%.0f, %.0f)\n", match.Entry.ShapeID, match.Center.X, match.Center.Y)
		cmd.Println()
	}

	return nil
}

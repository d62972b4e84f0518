package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/boardsense/internal/core/domain"
	"github.com/custodia-labs/boardsense/internal/logger"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in the board's notes",
	Long: `Retrieves the notes most relevant to the question, captures a screenshot
of the region they occupy and relays everything to the chat provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "context", "k", 5, "number of note clusters to retrieve as context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if err := ensureServices(); err != nil {
		return err
	}
	if retrievalService == nil || chatService == nil {
		return errors.New("chat pipeline not configured")
	}

	ctx := context.Background()

	matches, err := retrievalService.Retrieve(ctx, question, askTopK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	searchContext := buildSearchContext(matches)
	image := captureMatches(ctx, matches)

	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: question},
	}

	reply, err := chatService.Respond(ctx, history, searchContext, image)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(reply)
	return nil
}

// buildSearchContext joins retrieved cluster texts, most similar first.
func buildSearchContext(matches []domain.Match) string {
	texts := make([]string, 0, len(matches))
	for _, match := range matches {
		texts = append(texts, match.Entry.Name)
	}
	return strings.Join(texts, "\n")
}

// captureMatches screenshots the region around the matches. Capture is best
// effort; the chat still works without an image.
func captureMatches(ctx context.Context, matches []domain.Match) string {
	if captureService == nil || len(matches) == 0 {
		return ""
	}

	positions := make([]domain.Point2D, len(matches))
	for i, match := range matches {
		positions[i] = match.Center
	}

	image, err := captureService.Capture(ctx, positions)
	if err != nil {
		logger.Warn("capture failed: %v", err)
		return ""
	}
	return image
}

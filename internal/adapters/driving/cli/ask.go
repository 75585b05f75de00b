package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [doc-id] [question]",
	Short: "Ask a question about a document",
	Long: `Answer a question using the first available tier and record it in the
answer log. Answers produced without a language model are tagged (degraded).`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var historyCmd = &cobra.Command{
	Use:   "history [doc-id]",
	Short: "Show answered questions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var (
	askUser     string
	askJSON     bool
	historyUser string
	historyMax  int
)

// askResult is the --json output of the ask command.
type askResult struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Tier       string `json:"tier,omitempty"`
	Degraded   bool   `json:"degraded"`
	Username   string `json:"username"`
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "", "Username recorded with the answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the answer as JSON")

	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "Only show questions from this user")
	historyCmd.Flags().IntVarP(&historyMax, "limit", "n", 20, "Maximum number of entries (0 = all)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docID := args[0]
	question := strings.Join(args[1:], " ")

	record, err := documentService.Ask(commandContext(cmd), docID, question, askUser)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(askResult{
			ID:         record.ID,
			DocumentID: record.DocumentID,
			Question:   record.Question,
			Answer:     record.Answer,
			Tier:       record.Tier.String(),
			Degraded:   record.Degraded,
			Username:   record.Username,
		})
	}

	cmd.Println(record.Answer)
	cmd.Println()
	cmd.Println(answerTag(record.Tier, record.Degraded))
	return nil
}

// answerTag renders the tier line printed under an answer.
func answerTag(tier domain.Tier, degraded bool) string {
	tag := "[tier: none]"
	if tier != "" {
		tag = fmt.Sprintf("[tier: %s]", tier)
	}
	if degraded {
		tag += " (degraded)"
	}
	return tag
}

func runHistory(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	filter := domain.HistoryFilter{Username: historyUser, Limit: historyMax}
	if len(args) == 1 {
		filter.DocumentID = args[0]
	}

	records, err := documentService.History(commandContext(cmd), filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No questions answered yet.")
		return nil
	}

	for i := range records {
		r := records[i]
		cmd.Printf("%s  %s  %s\n", r.CreatedAt.Format(timeFormat), r.Username, r.DocumentID)
		cmd.Printf("  Q: %s\n", r.Question)
		cmd.Printf("  A: %s\n", firstLine(r.Answer))
		cmd.Printf("  %s\n\n", answerTag(r.Tier, r.Degraded))
	}

	cmd.Printf("Total: %d entries\n", len(records))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

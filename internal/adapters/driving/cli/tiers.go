package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the answering tiers",
	Long: `Show which answering tiers are active, in the order they are tried.

A question is answered by the first active tier; if it fails the next tier
is tried once.`,
	Args: cobra.NoArgs,
	RunE: runTiers,
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}

func runTiers(cmd *cobra.Command, _ []string) error {
	if qaService == nil {
		return errNotConfigured("question answering")
	}

	active := qaService.Tiers()
	isActive := make(map[domain.Tier]bool, len(active))
	for _, t := range active {
		isActive[t] = true
	}

	cmd.Println("Answering tiers (in priority order)")
	cmd.Println("===================================")
	for i, t := range domain.AllTiers() {
		state := "inactive"
		if isActive[t] {
			state = "active"
		}
		cmd.Printf("  %d. %-8s %s\n", i+1, t, state)
	}

	if len(active) == 0 {
		cmd.Println("\nNo tier is active; questions cannot be answered.")
	}

	if cacheSize != nil {
		if n := cacheSize(commandContext(cmd)); n >= 0 {
			cmd.Printf("\nEmbedding cache: %d entries\n", n)
		} else {
			cmd.Println("\nEmbedding cache: size unavailable")
		}
	}

	if len(startupWarnings) > 0 {
		cmd.Println("\nWarnings:")
		for _, w := range startupWarnings {
			cmd.Printf("  - %s\n", w)
		}
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"suggestbox/internal/clix"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [text...]",
	Short: "Submit an anonymous suggestion",
	Long: `Submits an anonymous suggestion in any language. The text is taken from
--file, from the arguments, or from stdin. It is translated to English when a
translator is configured, then labeled with a sentiment and a category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		text, err := clix.ReadText(cmd.Flags(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		s, err := appInstance.Suggestions.Add(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to submit suggestion: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Suggestion recorded.")
		printSuggestion(out, s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringP("file", "f", "", "Read the suggestion from a text file")
}

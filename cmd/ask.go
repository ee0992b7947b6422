package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"suggestbox/internal/clix"
)

var askCmd = &cobra.Command{
	Use:   "ask [text...]",
	Short: "Submit an anonymous question",
	Long: `Submits an anonymous question. Questions are stored in English; a question
that repeats an existing one (ignoring case) is rejected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		text, err := clix.ReadText(cmd.Flags(), args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		q, err := appInstance.Questions.Add(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("failed to submit question: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Question saved with ID %s\n%s\n", q.ID, q.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringP("file", "f", "", "Read the question from a text file")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"suggestbox/internal/clix"
)

var answerCmd = &cobra.Command{
	Use:   "answer <question-id> [text...]",
	Short: "Answer an existing question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		text, err := clix.ReadText(cmd.Flags(), args[1:], cmd.InOrStdin())
		if err != nil {
			return err
		}

		if _, err := appInstance.Questions.AddAnswer(cmd.Context(), args[0], text); err != nil {
			return fmt.Errorf("failed to add answer: %w", err)
		}

		q, _ := appInstance.Questions.FindByID(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Answer added.")
		printQuestion(out, 1, q)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(answerCmd)
	answerCmd.Flags().StringP("file", "f", "", "Read the answer from a text file")
}

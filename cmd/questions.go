package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"suggestbox/internal/clix"
)

var (
	questionsSearch  string
	questionsAnswers bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List questions, optionally filtered by a search term",
	RunE: func(cmd *cobra.Command, args []string) error {
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		questions := appInstance.Questions.Search(questionsSearch)
		out := cmd.OutOrStdout()
		if len(questions) == 0 {
			fmt.Fprintln(out, "No questions found.")
			return nil
		}

		start, end := pagination.Page(len(questions))
		printQuestions(out, questions[start:end], questionsAnswers)
		fmt.Fprintf(out, "Displayed %d of %d questions.\n", end-start, len(questions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().StringVarP(&questionsSearch, "search", "s", "", "Only show questions whose text or answers contain this term")
	questionsCmd.Flags().BoolVarP(&questionsAnswers, "answers", "a", false, "Show the answers under each question")
	questionsCmd.Flags().IntP("limit", "l", 20, "Number of questions to display")
	questionsCmd.Flags().IntP("offset", "o", 0, "Number of questions to skip")
}

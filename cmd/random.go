package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"suggestbox/internal/models"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show one suggestion picked at random",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		s, err := appInstance.Suggestions.Sample()
		if errors.Is(err, models.ErrEmptyCollection) {
			fmt.Fprintln(cmd.OutOrStdout(), "No suggestions submitted yet.")
			return nil
		}
		if err != nil {
			return err
		}
		printSuggestion(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)
}

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show storage, provider and collection diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		out := cmd.OutOrStdout()
		ok := color.GreenString("ok")

		table := newTable(out, "Check", "Status", "Detail")
		table.Append([]string{"store", ok, appInstance.Store.Describe()})
		table.Append([]string{"suggestions", ok, fmt.Sprintf("%d loaded", appInstance.Suggestions.Count())})
		table.Append([]string{"questions", ok, fmt.Sprintf("%d loaded, %d answers", appInstance.Questions.Count(), appInstance.Questions.AnswerCount())})
		table.Append([]string{"detector", ok, appInstance.Providers.Detector})
		table.Append([]string{"translator", translatorStatus(appInstance.Providers.Translator), appInstance.Providers.Translator})
		table.Append([]string{"sentiment", ok, appInstance.Providers.Sentiment})
		table.Append([]string{"admin", adminStatus(appInstance.Config.Admin.Password != ""), "admin.password"})
		table.Render()
		return nil
	},
}

func translatorStatus(name string) string {
	if name == "none" {
		return color.YellowString("disabled")
	}
	return color.GreenString("ok")
}

func adminStatus(configured bool) string {
	if configured {
		return color.GreenString("ok")
	}
	return color.YellowString("locked")
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suggestbox/internal/clix"
	"suggestbox/internal/models"
	"suggestbox/internal/services"
)

var (
	adminPassword string
	adminYes      bool
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Password-protected summaries and maintenance",
	Long: `Admin commands require the admin password, given with --password or typed
when prompted. The password is configured as admin.password
(SUGGESTBOX_ADMIN_PASSWORD); when it is unset every login is refused.`,
}

var adminSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show suggestion counts per category and sentiment",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := adminLogin(cmd)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), session.Summary())
		return nil
	},
}

var adminBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List suggestions, optionally only one category",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}
		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}

		session, _, err := adminLogin(cmd)
		if err != nil {
			return err
		}

		var suggestions []models.Suggestion
		if category == "" {
			for _, c := range models.Categories() {
				suggestions = append(suggestions, session.Browse(c)...)
			}
		} else {
			suggestions = session.Browse(category)
		}

		out := cmd.OutOrStdout()
		if len(suggestions) == 0 {
			fmt.Fprintln(out, "No suggestions found.")
			return nil
		}
		start, end := pagination.Page(len(suggestions))
		printSuggestionTable(out, suggestions[start:end])
		fmt.Fprintf(out, "Displayed %d of %d suggestions.\n", end-start, len(suggestions))
		return nil
	},
}

var adminQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List every question with its answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := adminLogin(cmd)
		if err != nil {
			return err
		}
		questions := session.Questions()
		if len(questions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No questions submitted yet.")
			return nil
		}
		printQuestions(cmd.OutOrStdout(), questions, true)
		return nil
	},
}

var adminDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete all suggestions and questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, in, err := adminLogin(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !adminYes {
			answer, err := promptLine(in, out, "Are you sure? This will delete all data. (yes/no): ")
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			if !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		if err := session.DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to delete data: %w", err)
		}
		fmt.Fprintln(out, color.GreenString("All suggestions and questions were deleted."))
		return nil
	},
}

// adminLogin opens an admin session with --password, or with a password read
// from stdin. The reader is returned so later prompts share its buffer.
func adminLogin(cmd *cobra.Command) (*services.AdminSession, *bufio.Reader, error) {
	appInstance, err := GetAppFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	in := bufio.NewReader(cmd.InOrStdin())
	password := adminPassword
	if !cmd.Flags().Changed("password") {
		password, err = promptLine(in, cmd.ErrOrStderr(), "Enter admin password: ")
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
	}

	session, err := appInstance.Admin.Login(password)
	if err != nil {
		return nil, nil, fmt.Errorf("incorrect password, access denied: %w", err)
	}
	return session, in, nil
}

// promptLine writes prompt and reads one line without its line ending.
func promptLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.PersistentFlags().StringVarP(&adminPassword, "password", "p", "", "Admin password (prompted for when omitted)")

	adminCmd.AddCommand(adminSummaryCmd, adminBrowseCmd, adminQuestionsCmd, adminDeleteAllCmd)

	adminBrowseCmd.Flags().StringP("category", "c", "", "Only show this category (Facility, Work Process, Benefits, Other)")
	adminBrowseCmd.Flags().IntP("limit", "l", 20, "Number of suggestions to display")
	adminBrowseCmd.Flags().IntP("offset", "o", 0, "Number of suggestions to skip")
	adminDeleteAllCmd.Flags().BoolVarP(&adminYes, "yes", "y", false, "Skip the confirmation prompt")
}

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"suggestbox/internal/app"
	"suggestbox/internal/locales"
	"suggestbox/internal/models"
	"suggestbox/internal/services"
)

var menuLang string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive numbered menu",
	Long: `Runs the interactive suggestion box: submit suggestions and questions,
read and answer questions, and enter admin mode. Prompts are shown in the
language set by ui.language or --lang (en, es).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		lang := appInstance.Config.UI.Language
		if menuLang != "" {
			lang = menuLang
		}
		catalog, err := locales.NewCatalog(lang)
		if err != nil {
			return err
		}

		m := &menu{
			app: appInstance,
			cat: catalog,
			in:  bufio.NewReader(cmd.InOrStdin()),
			out: cmd.OutOrStdout(),
		}
		return m.run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().StringVar(&menuLang, "lang", "", "Prompt language (overrides ui.language)")
}

// errQuit ends the menu when input runs out.
var errQuit = errors.New("quit")

type menu struct {
	app *app.App
	cat *locales.Catalog
	in  *bufio.Reader
	out io.Writer
}

func (m *menu) t(id string) string { return m.cat.T(id, nil) }

func (m *menu) tf(id string, data map[string]any) string { return m.cat.T(id, data) }

func (m *menu) println(s string) { fmt.Fprintln(m.out, s) }

// ask prints prompt and returns the trimmed line. EOF becomes errQuit.
func (m *menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			fmt.Fprintln(m.out)
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(m.out)
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *menu) choose(max int) (int, error) {
	answer, err := m.ask(m.tf("PromptChoice", map[string]any{"Max": max}))
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 || n > max {
		m.println(m.tf("InvalidChoice", map[string]any{"Max": max}))
		return 0, nil
	}
	return n, nil
}

func (m *menu) confirm(prompt string) (bool, error) {
	for {
		answer, err := m.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case m.t("YesWord"), "yes":
			return true, nil
		case m.t("NoWord"), "no":
			return false, nil
		}
		m.println(m.t("PleaseYesNo"))
	}
}

func (m *menu) reportError(err error) {
	m.println(color.RedString(m.tf("Error", map[string]any{"Error": err.Error()})))
}

func (m *menu) run(ctx context.Context) error {
	items := []string{"MenuSubmitSuggestion", "MenuRandomSuggestion", "MenuSubmitQuestion", "MenuListQuestions", "MenuAdmin", "MenuExit"}
	for {
		m.println("\n" + m.t("MenuTitle"))
		for i, id := range items {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, m.t(id))
		}

		choice, err := m.choose(len(items))
		if err == nil {
			switch choice {
			case 1:
				err = m.submitSuggestion(ctx)
			case 2:
				m.randomSuggestion()
			case 3:
				err = m.submitQuestion(ctx)
			case 4:
				err = m.listQuestions(ctx)
			case 5:
				err = m.adminMode(ctx)
			case 6:
				m.println(m.t("Goodbye"))
				return nil
			}
		}
		if errors.Is(err, errQuit) {
			m.println(m.t("Goodbye"))
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *menu) submitSuggestion(ctx context.Context) error {
	text, err := m.ask(m.t("PromptSuggestion"))
	if err != nil {
		return err
	}
	if text == "" {
		m.println(m.t("EmptyInput"))
		return nil
	}

	s, err := m.app.Suggestions.Add(ctx, text)
	if err != nil {
		m.reportError(err)
		return nil
	}
	if s.TranslatedText != s.OriginalText {
		m.println(s.TranslatedText)
	}
	m.println(m.tf("SuggestionRecorded", map[string]any{"Category": s.Category, "Sentiment": colorSentiment(s.Sentiment)}))
	if s.HasFlag(models.FlagTranslationUnavailable) {
		m.println(color.YellowString(m.t("TranslationUnavailable")))
	}
	if s.HasFlag(models.FlagSentimentUnavailable) {
		m.println(color.YellowString(m.t("SentimentUnavailable")))
	}
	return nil
}

func (m *menu) randomSuggestion() {
	s, err := m.app.Suggestions.Sample()
	if err != nil {
		m.println(m.t("NoSuggestions"))
		return
	}
	printSuggestion(m.out, s)
}

func (m *menu) submitQuestion(ctx context.Context) error {
	text, err := m.ask(m.t("PromptQuestion"))
	if err != nil {
		return err
	}
	if text == "" {
		m.println(m.t("EmptyInput"))
		return nil
	}

	_, err = m.app.Questions.Add(ctx, text)
	switch {
	case errors.Is(err, models.ErrDuplicate):
		m.println(m.t("QuestionDuplicate"))
	case err != nil:
		m.reportError(err)
	default:
		m.println(m.t("QuestionSaved"))
	}
	return nil
}

func (m *menu) listQuestions(ctx context.Context) error {
	for {
		questions := m.app.Questions.List()
		if len(questions) == 0 {
			m.println(m.t("NoQuestions"))
			return nil
		}
		fmt.Fprintln(m.out)
		for i, q := range questions {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, q.Text)
		}

		answer, err := m.ask(m.t("PromptQuestionNumber"))
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			m.println(m.t("InvalidNumber"))
			continue
		}
		if n == 0 {
			return nil
		}
		if n < 1 || n > len(questions) {
			m.println(m.tf("InvalidChoice", map[string]any{"Max": len(questions)}))
			continue
		}

		if err := m.showQuestion(ctx, questions[n-1]); err != nil {
			return err
		}
	}
}

func (m *menu) showQuestion(ctx context.Context, q models.Question) error {
	m.println("\n" + m.tf("AnswersFor", map[string]any{"Question": q.Text}))
	if len(q.Answers) == 0 {
		m.println(m.t("NoAnswers"))
	}
	for i, a := range q.Answers {
		fmt.Fprintf(m.out, "%d: %s\n", i+1, a.Text)
	}

	add, err := m.confirm(m.t("PromptAddAnswer"))
	if err != nil || !add {
		return err
	}
	text, err := m.ask(m.t("PromptAnswer"))
	if err != nil {
		return err
	}
	if _, err := m.app.Questions.AddAnswer(ctx, q.ID, text); err != nil {
		m.reportError(err)
		return nil
	}
	m.println(m.t("AnswerAdded"))
	return nil
}

func (m *menu) adminMode(ctx context.Context) error {
	password, err := m.ask(m.t("PromptPassword"))
	if err != nil {
		return err
	}
	session, err := m.app.Admin.Login(password)
	if err != nil {
		m.println(m.t("AccessDenied"))
		return nil
	}

	items := []string{"AdminSummary", "AdminBrowse", "AdminQuestions", "AdminDeleteAll", "AdminExit"}
	for {
		m.println("\n" + m.t("AdminTitle"))
		for i, id := range items {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, m.t(id))
		}
		choice, err := m.choose(len(items))
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			printSummary(m.out, session.Summary())
		case 2:
			err = m.browse(session)
		case 3:
			questions := session.Questions()
			if len(questions) == 0 {
				m.println(m.t("NoQuestions"))
			} else {
				printQuestions(m.out, questions, true)
			}
		case 4:
			err = m.deleteAll(ctx, session)
		case 5:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *menu) browse(session *services.AdminSession) error {
	categories := models.Categories()
	summary := session.Summary()
	fmt.Fprintln(m.out)
	for i, c := range categories {
		fmt.Fprintf(m.out, "%d. %s (%d)\n", i+1, c, summary.Suggestions.ByCategory[c])
	}

	answer, err := m.ask(m.tf("PromptCategory", map[string]any{"Max": len(categories)}))
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 0 || n > len(categories) {
		m.println(m.t("InvalidNumber"))
		return nil
	}
	if n == 0 {
		return nil
	}

	category := categories[n-1]
	suggestions := session.Browse(category)
	if len(suggestions) == 0 {
		m.println(m.tf("NoSuggestionsInCategory", map[string]any{"Category": category}))
		return nil
	}
	printSuggestionTable(m.out, suggestions)
	return nil
}

func (m *menu) deleteAll(ctx context.Context, session *services.AdminSession) error {
	ok, err := m.confirm(m.t("ConfirmDelete"))
	if err != nil {
		return err
	}
	if !ok {
		m.println(m.t("DeletionCancelled"))
		return nil
	}
	if err := session.DeleteAll(ctx); err != nil {
		m.reportError(err)
		return nil
	}
	m.println(m.t("Deleted"))
	return nil
}

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"suggestbox/internal/models"
	"suggestbox/internal/services"
)

const timeLayout = "2006-01-02 15:04:05"

func colorSentiment(s models.Sentiment) string {
	switch s {
	case models.SentimentPositive:
		return color.GreenString(string(s))
	case models.SentimentNegative:
		return color.RedString(string(s))
	}
	return string(s)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func snippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}

func printSuggestion(w io.Writer, s models.Suggestion) {
	fmt.Fprintf(w, "ID:        %s\n", s.ID)
	fmt.Fprintf(w, "Language:  %s\n", s.DetectedLanguage)
	if s.TranslatedText != s.OriginalText {
		fmt.Fprintf(w, "Original:  %s\n", s.OriginalText)
	}
	fmt.Fprintf(w, "Text:      %s\n", s.TranslatedText)
	fmt.Fprintf(w, "Sentiment: %s\n", colorSentiment(s.Sentiment))
	fmt.Fprintf(w, "Category:  %s\n", s.Category)
	fmt.Fprintf(w, "Created:   %s\n", s.CreatedAt.Local().Format(timeLayout))
	printFlagWarnings(w, s)
}

func printFlagWarnings(w io.Writer, s models.Suggestion) {
	if s.HasFlag(models.FlagTranslationUnavailable) {
		fmt.Fprintln(w, color.YellowString("Note: translation was unavailable; the text is stored as written."))
	}
	if s.HasFlag(models.FlagSentimentUnavailable) {
		fmt.Fprintln(w, color.YellowString("Note: sentiment analysis was unavailable; recorded as neutral."))
	}
}

func printSuggestionTable(w io.Writer, suggestions []models.Suggestion) {
	table := newTable(w, "ID", "Text", "Lang", "Sentiment", "Category", "Created")
	for _, s := range suggestions {
		table.Append([]string{
			s.ID,
			snippet(s.TranslatedText, 60),
			s.DetectedLanguage,
			colorSentiment(s.Sentiment),
			string(s.Category),
			s.CreatedAt.Local().Format(timeLayout),
		})
	}
	table.Render()
}

func printSummary(w io.Writer, sum services.AdminSummary) {
	fmt.Fprintf(w, "Suggestions: %d\n\n", sum.Suggestions.Total)

	table := newTable(w, "Category", "Count")
	for _, c := range models.Categories() {
		table.Append([]string{string(c), strconv.Itoa(sum.Suggestions.ByCategory[c])})
	}
	table.Render()
	fmt.Fprintln(w)

	table = newTable(w, "Sentiment", "Count")
	for _, s := range models.Sentiments() {
		table.Append([]string{colorSentiment(s), strconv.Itoa(sum.Suggestions.BySentiment[s])})
	}
	table.Render()

	fmt.Fprintf(w, "\nQuestions: %d (answers: %d)\n", sum.Questions, sum.Answers)
}

func printQuestions(w io.Writer, questions []models.Question, withAnswers bool) {
	if !withAnswers {
		table := newTable(w, "ID", "Question", "Answers")
		for _, q := range questions {
			table.Append([]string{q.ID, snippet(q.Text, 70), strconv.Itoa(len(q.Answers))})
		}
		table.Render()
		return
	}
	for i, q := range questions {
		printQuestion(w, i+1, q)
	}
}

func printQuestion(w io.Writer, n int, q models.Question) {
	fmt.Fprintf(w, "%d. %s  %s\n", n, q.Text, color.HiBlackString("[%s]", q.ID))
	if len(q.Answers) == 0 {
		fmt.Fprintln(w, "   No answers yet.")
		return
	}
	for i, a := range q.Answers {
		fmt.Fprintf(w, "   Answer %d: %s\n", i+1, a.Text)
	}
}

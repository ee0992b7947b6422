package providers

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// LocalDetector guesses a language offline from the dominant script and, for
// Latin text, from stop-word frequency. Ties and texts without signal are
// reported as language.Und.
type LocalDetector struct{}

func NewLocalDetector() *LocalDetector { return &LocalDetector{} }

var scriptLanguages = []struct {
	table *unicode.RangeTable
	tag   language.Tag
}{
	{unicode.Hiragana, language.Japanese},
	{unicode.Katakana, language.Japanese},
	{unicode.Hangul, language.Korean},
	{unicode.Han, language.Chinese},
	{unicode.Cyrillic, language.Russian},
	{unicode.Arabic, language.Arabic},
	{unicode.Greek, language.Greek},
	{unicode.Hebrew, language.Hebrew},
	{unicode.Thai, language.Thai},
	{unicode.Devanagari, language.Hindi},
}

var stopWords = map[language.Tag][]string{
	language.English: {
		"the", "is", "are", "and", "of", "to", "in", "it", "that", "this", "we", "i", "you",
		"my", "our", "not", "be", "for", "with", "too", "very", "should", "please", "have", "was", "there",
		"no", "so", "on", "at",
	},
	language.Spanish: {
		"el", "la", "los", "las", "es", "son", "y", "de", "que", "en", "un", "una", "por",
		"para", "con", "no", "muy", "mi", "nuestro", "del", "al", "se", "más", "pero",
	},
	language.French: {
		"le", "la", "les", "est", "sont", "et", "de", "des", "que", "un", "une", "pour",
		"avec", "pas", "très", "mon", "notre", "du", "au", "ce", "il", "je", "nous", "mais",
	},
	language.German: {
		"der", "die", "das", "ist", "sind", "und", "nicht", "ein", "eine", "zu", "mit", "für",
		"sehr", "ich", "wir", "unser", "auf", "auch", "es", "bitte",
	},
	language.Portuguese: {
		"o", "a", "os", "as", "é", "são", "e", "de", "que", "em", "um", "uma", "para", "com",
		"não", "muito", "meu", "nosso", "do", "da",
	},
	language.Italian: {
		"il", "lo", "la", "gli", "le", "è", "sono", "e", "di", "che", "un", "una", "per", "con",
		"non", "molto", "mio", "nostro", "del", "della",
	},
}

var stopWordIndex = buildStopWordIndex()

func buildStopWordIndex() map[string][]language.Tag {
	idx := map[string][]language.Tag{}
	for tag, words := range stopWords {
		for _, w := range words {
			idx[w] = append(idx[w], tag)
		}
	}
	return idx
}

func (d *LocalDetector) Detect(ctx context.Context, text string) (language.Tag, error) {
	if tag, ok := dominantScript(text); ok {
		return tag, nil
	}

	scores := map[language.Tag]int{}
	for _, word := range words(text) {
		for _, tag := range stopWordIndex[word] {
			scores[tag]++
		}
	}

	best, bestScore, runnerUp := language.Und, 0, 0
	for tag, score := range scores {
		switch {
		case score > bestScore:
			runnerUp = bestScore
			best, bestScore = tag, score
		case score > runnerUp:
			runnerUp = score
		}
	}
	if bestScore == 0 || bestScore == runnerUp {
		return language.Und, nil
	}
	return best, nil
}

// dominantScript reports a language when most letters belong to a
// non-Latin script. Kana takes precedence over Han.
func dominantScript(text string) (language.Tag, bool) {
	letters := 0
	counts := make([]int, len(scriptLanguages))
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for i, s := range scriptLanguages {
			if unicode.Is(s.table, r) {
				counts[i]++
				break
			}
		}
	}
	if letters == 0 {
		return language.Und, false
	}

	bestIdx, bestCount := -1, 0
	for i, c := range counts {
		if c > bestCount {
			bestIdx, bestCount = i, c
		}
	}
	if bestIdx < 0 || bestCount*2 < letters {
		return language.Und, false
	}
	tag := scriptLanguages[bestIdx].tag
	if tag == language.Chinese && (counts[0] > 0 || counts[1] > 0) {
		tag = language.Japanese
	}
	return tag, true
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

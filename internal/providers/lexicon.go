package providers

import (
	"context"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// LexiconAnalyzer scores English text offline with a small polarity lexicon.
// Each sentence is the mean of its sentiment words; the text is the mean of
// its scored sentences. Negation flips and damps the next sentiment word,
// intensifiers scale it.
type LexiconAnalyzer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

var polarityLexicon = map[string]float64{
	"excellent": 1.0, "amazing": 0.9, "awesome": 0.9, "great": 0.8, "love": 0.5, "happy": 0.8,
	"good": 0.7, "nice": 0.6, "helpful": 0.5, "friendly": 0.5, "clean": 0.4, "comfortable": 0.4,
	"better": 0.5, "best": 1.0, "fair": 0.3, "appreciate": 0.5, "thanks": 0.2, "thank": 0.2,
	"enjoy": 0.4, "fast": 0.2, "fine": 0.4, "useful": 0.3, "improved": 0.4,
	"terrible": -1.0, "awful": -1.0, "horrible": -1.0, "worst": -1.0, "hate": -0.8, "bad": -0.7,
	"poor": -0.4, "dirty": -0.6, "broken": -0.4, "slow": -0.3, "unfair": -0.5, "rude": -0.6,
	"noisy": -0.4, "annoying": -0.6, "disgusting": -1.0, "useless": -0.5, "stressful": -0.5,
	"boring": -0.6, "sad": -0.5, "angry": -0.5, "uncomfortable": -0.5, "worse": -0.6, "cold": -0.2,
	"late": -0.3, "expensive": -0.4, "frustrating": -0.7, "unhappy": -0.6,
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "hardly": true, "nothing": true,
}

var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "so": 1.2, "too": 1.2, "quite": 1.1, "slightly": 0.5,
}

func NewLexiconAnalyzer() (*LexiconAnalyzer, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &LexiconAnalyzer{tokenizer: tokenizer}, nil
}

func (a *LexiconAnalyzer) Polarity(ctx context.Context, text string) (float64, error) {
	var total float64
	scored := 0
	for _, s := range a.tokenizer.Tokenize(text) {
		if score, ok := sentencePolarity(s.Text); ok {
			total += score
			scored++
		}
	}
	if scored == 0 {
		return 0, nil
	}
	return total / float64(scored), nil
}

func sentencePolarity(sentence string) (float64, bool) {
	var sum float64
	hits := 0
	negate := false
	scale := 1.0
	for _, w := range words(sentence) {
		if negators[w] || strings.HasSuffix(w, "n't") {
			negate = true
			continue
		}
		if m, ok := intensifiers[w]; ok {
			scale *= m
			continue
		}
		p, ok := polarityLexicon[w]
		if !ok {
			continue
		}
		p *= scale
		if negate {
			p *= -0.5
		}
		sum += p
		hits++
		negate = false
		scale = 1.0
	}
	if hits == 0 {
		return 0, false
	}
	score := sum / float64(hits)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, true
}

package models

/*
Label constants shared by the pipeline, the stores and the CLI.
Centralizing these avoids magic strings in the persisted format.
*/

// Sentiment is the polarity label assigned to a suggestion.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists every sentiment in display order.
func Sentiments() []Sentiment {
	return []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}
}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Category is the topic a suggestion is filed under.
type Category string

const (
	CategoryFacility    Category = "Facility"
	CategoryWorkProcess Category = "Work Process"
	CategoryBenefits    Category = "Benefits"
	CategoryOther       Category = "Other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryFacility, CategoryWorkProcess, CategoryBenefits, CategoryOther}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Flag marks a pipeline stage that fell back while creating a suggestion.
type Flag string

const (
	FlagTranslationUnavailable Flag = "translation_unavailable"
	FlagSentimentUnavailable   Flag = "sentiment_unavailable"
)

func (f Flag) Valid() bool {
	return f == FlagTranslationUnavailable || f == FlagSentimentUnavailable
}

// LanguageUnknown is stored when language detection failed or was inconclusive.
const LanguageUnknown = "unknown"

// Package sentiment scores short social media texts with VADER.
package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"

	"github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

// Analyzer computes compound polarity scores.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// New creates an Analyzer backed by the bundled VADER lexicon.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

var defaultAnalyzer = sync.OnceValue(New)

// Default returns a process-wide Analyzer. Loading the lexicon is not free,
// so callers share one instance.
func Default() *Analyzer {
	return defaultAnalyzer()
}

// Polarity maps the compound score of text to a tweet sentiment.
func (a *Analyzer) Polarity(text string) tweet.Sentiment {
	return tweet.FromCompound(a.Compound(text))
}

// Compound returns the normalized polarity of text in [-1, 1].
func (a *Analyzer) Compound(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return a.vader.PolarityScores(text).Compound
}

package tweet

import (
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// DatetimeLayout is the timestamp layout of tweet extracts.
const DatetimeLayout = "2006-01-02 15:04:05"

// Stored field names of a tweet.
const (
	FieldUsername  = "username"
	FieldText      = "tweet"
	FieldDatetime  = "datetime"
	FieldLocation  = "location"
	FieldSentiment = "sentiment"
)

// Sentiment is the tri-state polarity of a tweet.
type Sentiment int

const (
	// Negative polarity.
	Negative Sentiment = -1
	// Neutral polarity.
	Neutral Sentiment = 0
	// Positive polarity.
	Positive Sentiment = 1
)

// ParseSentiment validates an integer polarity.
func ParseSentiment(v int) (Sentiment, error) {
	s := Sentiment(v)
	if !s.Valid() {
		return 0, fmt.Errorf("sentiment must be one of -1, 0, 1, got %d", v)
	}
	return s, nil
}

// FromCompound maps a compound polarity score to a Sentiment.
func FromCompound(score float64) Sentiment {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// Valid reports whether s is one of the three polarities.
func (s Sentiment) Valid() bool {
	return s == Negative || s == Neutral || s == Positive
}

// Tweet is a geotagged post (immutable value object).
type Tweet struct {
	id        string
	username  string
	text      string
	postedAt  time.Time
	location  geo.Point
	sentiment Sentiment
}

// New validates and creates a Tweet that has not been stored yet.
func New(username, text string, postedAt time.Time, location geo.Point, sentiment Sentiment) (Tweet, error) {
	if username == "" {
		return Tweet{}, errors.New("username is required")
	}
	if !sentiment.Valid() {
		return Tweet{}, fmt.Errorf("invalid sentiment %d", sentiment)
	}
	if !geo.ValidateCoordinates(location.Lat(), location.Lon()) {
		return Tweet{}, fmt.Errorf("invalid location for tweet by %q", username)
	}
	return Tweet{
		username:  username,
		text:      text,
		postedAt:  postedAt,
		location:  location,
		sentiment: sentiment,
	}, nil
}

// Reconstruct creates a Tweet without validation (storage hydration).
func Reconstruct(
	id, username, text string, postedAt time.Time, location geo.Point, sentiment Sentiment,
) Tweet {
	return Tweet{
		id:        id,
		username:  username,
		text:      text,
		postedAt:  postedAt,
		location:  location,
		sentiment: sentiment,
	}
}

// ID returns the store-assigned identifier, empty before insertion.
func (t Tweet) ID() string { return t.id }

// Username returns the author.
func (t Tweet) Username() string { return t.username }

// Text returns the tweet content.
func (t Tweet) Text() string { return t.text }

// PostedAt returns the tweet timestamp.
func (t Tweet) PostedAt() time.Time { return t.postedAt }

// Location returns the tweet position.
func (t Tweet) Location() geo.Point { return t.location }

// Sentiment returns the tweet polarity.
func (t Tweet) Sentiment() Sentiment { return t.sentiment }

// Query holds the optional tweet search parameters.
type Query struct {
	Username  string
	Text      string
	Near      *geo.Point
	Distance  int // meters
	Sentiment *Sentiment
}

package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

const tweetFields = 5

// ParseTweet parses a "tweet,username,lat,lon,datetime" row.
// The text may contain commas; the datetime may carry a trailing semicolon.
func ParseTweet(line string, scorer Scorer) (domtweet.Tweet, error) {
	parts := rsplit(line, ",", tweetFields)
	if len(parts) != tweetFields {
		return domtweet.Tweet{}, invalidRow("expected %d fields, got %d", tweetFields, len(parts))
	}

	loc, err := parsePoint(parts[2], parts[3])
	if err != nil {
		return domtweet.Tweet{}, err
	}

	raw := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(parts[4]), ";"))
	postedAt, err := time.ParseInLocation(domtweet.DatetimeLayout, raw, time.UTC)
	if err != nil {
		return domtweet.Tweet{}, invalidRow("datetime %q: want %s", raw, domtweet.DatetimeLayout)
	}

	t, err := domtweet.New(parts[1], parts[0], postedAt, loc, scorer.Polarity(parts[0]))
	if err != nil {
		return domtweet.Tweet{}, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return t, nil
}

func (l *Loader) loadTweets(ctx context.Context) (Stats, error) {
	files, err := listFiles(l.cfg.TweetsDir, ".csv")
	if err != nil {
		return Stats{}, err
	}
	if err := l.tweets.Reset(ctx); err != nil {
		return Stats{}, fmt.Errorf("reset tweets: %w", err)
	}

	return runPipeline(ctx, l.pipeline(DatasetTweets), pipeline[domtweet.Tweet]{
		produce: func(ctx context.Context, emit func(domtweet.Tweet) error, reject func(error) error) error {
			return l.scanRows(ctx, files, reject, func(line string) error {
				t, err := ParseTweet(line, l.scorer)
				if err != nil {
					return err
				}
				return emit(t)
			})
		},
		insert: l.tweets.InsertBatch,
	})
}

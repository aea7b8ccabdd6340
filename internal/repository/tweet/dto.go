package tweet

import (
	"time"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
)

// tweetDTO is the stored shape of a tweet. The identifier is assigned by
// the store on insert and decoded as a hex string.
type tweetDTO struct {
	ID        string    `bson:"_id,omitempty"`
	Username  string    `bson:"username"`
	Tweet     string    `bson:"tweet"`
	Datetime  time.Time `bson:"datetime"`
	Location  geo.Point `bson:"location"`
	Sentiment int       `bson:"sentiment"`
}

func toDTO(t *domtweet.Tweet) tweetDTO {
	return tweetDTO{
		Username:  t.Username(),
		Tweet:     t.Text(),
		Datetime:  t.PostedAt(),
		Location:  t.Location(),
		Sentiment: int(t.Sentiment()),
	}
}

func (d *tweetDTO) toDomain() domtweet.Tweet {
	return domtweet.Reconstruct(
		d.ID, d.Username, d.Tweet, d.Datetime.UTC(), d.Location, domtweet.Sentiment(d.Sentiment),
	)
}

// buildSet converts a patch into dotted $set fields. Coordinates are
// addressed by array position: longitude first.
func buildSet(p *patch.Patch) map[string]any {
	set := make(map[string]any, 5)
	if v := p.Username(); v != nil {
		set[FieldUsername] = *v
	}
	if v := p.Text(); v != nil {
		set[FieldTweet] = *v
	}
	if v := p.Lat(); v != nil {
		set[FieldLocation+".coordinates.1"] = *v
	}
	if v := p.Lon(); v != nil {
		set[FieldLocation+".coordinates.0"] = *v
	}
	if v := p.Sentiment(); v != nil {
		set[FieldSentiment] = int(*v)
	}
	return set
}

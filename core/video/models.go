package video

import "strings"

const (
	DefaultMaxResults = 5
	maxMaxResults     = 50
)

// Match is the resolved video for one topic.
// ID, Title, Channel and Thumbnail are all nil when the search found nothing for Topic.
type Match struct {
	ID        *string `json:"id" bson:"id"`
	Title     *string `json:"title" bson:"title"`
	Channel   *string `json:"channel" bson:"channel"`
	Thumbnail *string `json:"thumbnail" bson:"thumbnail"`
	Topic     string  `json:"topic" bson:"topic"`
}

// Found reports whether the match points to an actual video.
func (m Match) Found() bool {
	return m.ID != nil
}

// NoMatch returns the null placeholder for topic.
func NoMatch(topic string) Match {
	return Match{Topic: topic}
}

// Result is a single hit returned by a Searcher.
type Result struct {
	VideoID   string `json:"videoId"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Thumbnail string `json:"thumbnail"`
}

func (r Result) toMatch(topic string) Match {
	return Match{
		ID:        strPtr(r.VideoID),
		Title:     strPtr(r.Title),
		Channel:   strPtr(r.Channel),
		Thumbnail: strPtr(r.Thumbnail),
		Topic:     topic,
	}
}

// SearchRequest is the payload of a topic search.
type SearchRequest struct {
	Topics     []string `json:"topics" validate:"required,min=1,dive,notblank"`
	MaxResults int      `json:"maxResults" validate:"omitempty,min=0"`
}

// Clean trims topics and clamps MaxResults into the range accepted by the search backend.
func (sr *SearchRequest) Clean() {
	for i, t := range sr.Topics {
		sr.Topics[i] = strings.TrimSpace(t)
	}
	sr.MaxResults = clampMaxResults(sr.MaxResults)
}

func clampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > maxMaxResults:
		return maxMaxResults
	}
	return n
}

func strPtr(s string) *string { return &s }

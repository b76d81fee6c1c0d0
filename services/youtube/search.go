package youtubesvc

import (
	"context"
	"html"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/trezcool/edutube/core/video"
)

// Searcher looks videos up through the YouTube Data API v3.
type Searcher struct {
	svc *youtube.Service
}

var _ video.Searcher = (*Searcher)(nil) // interface compliance check

// NewSearcher creates a YouTube searcher. opts are appended after the API key (endpoint overrides in tests).
func NewSearcher(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Searcher, error) {
	if apiKey == "" {
		return nil, errors.New("youtube: missing API key")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating youtube service")
	}
	return &Searcher{svc: svc}, nil
}

// Search returns videos matching query, most viewed first.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]video.Result, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("viewCount").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "searching %q", query)
	}

	results := make([]video.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		res := video.Result{
			VideoID: item.Id.VideoId,
			Title:   html.UnescapeString(item.Snippet.Title),
			Channel: html.UnescapeString(item.Snippet.ChannelTitle),
		}
		if th := item.Snippet.Thumbnails; th != nil && th.Default != nil {
			res.Thumbnail = th.Default.Url
		}
		results = append(results, res)
	}
	return results, nil
}

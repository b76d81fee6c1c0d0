package video

import (
	"context"
	"fmt"
	"strings"

	"github.com/trezcool/edutube/core"
)

type (
	// Searcher looks videos up on the external search backend, most viewed first.
	Searcher interface {
		Search(ctx context.Context, query string, maxResults int) ([]Result, error)
	}

	// Cache keeps the top hit of a query between requests.
	Cache interface {
		Get(ctx context.Context, query string) (Result, bool, error)
		Set(ctx context.Context, query string, res Result) error
	}

	Service interface {
		// Resolve returns exactly one Match per topic, in the order of topics.
		// A failed lookup never aborts the others; it yields NoMatch for its topic.
		Resolve(ctx context.Context, topics []string, maxResults int) []Match
	}

	service struct {
		searcher  Searcher
		cache     Cache
		qualifier string
		logger    core.Logger
	}
)

var _ Service = (*service)(nil) // interface compliance check

// NewService returns a video Service. cache may be nil.
func NewService(searcher Searcher, cache Cache, qualifier string, logger core.Logger) Service {
	return &service{
		searcher:  searcher,
		cache:     cache,
		qualifier: strings.TrimSpace(qualifier),
		logger:    logger,
	}
}

func (svc *service) query(topic string) string {
	if svc.qualifier == "" {
		return topic
	}
	return topic + " " + svc.qualifier
}

func (svc *service) Resolve(ctx context.Context, topics []string, maxResults int) []Match {
	maxResults = clampMaxResults(maxResults)
	matches := make([]Match, 0, len(topics))
	for _, topic := range topics {
		matches = append(matches, svc.resolveOne(ctx, topic, maxResults))
	}
	return matches
}

func (svc *service) resolveOne(ctx context.Context, topic string, maxResults int) Match {
	q := svc.query(topic)

	if svc.cache != nil {
		res, ok, err := svc.cache.Get(ctx, q)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("video cache get %q failed", q), err)
		} else if ok {
			return res.toMatch(topic)
		}
	}

	results, err := svc.searcher.Search(ctx, q, maxResults)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("video search for topic %q failed", topic), err)
		return NoMatch(topic)
	}
	if len(results) == 0 {
		return NoMatch(topic)
	}

	top := results[0]
	if svc.cache != nil {
		if err = svc.cache.Set(ctx, q, top); err != nil {
			svc.logger.Warn(fmt.Sprintf("video cache set %q failed", q), err)
		}
	}
	return top.toMatch(topic)
}

package video

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct{ errors int }

func (l *discardLogger) Debug(string, ...interface{}) {}
func (l *discardLogger) Info(string, ...interface{})  {}
func (l *discardLogger) Warn(string, ...interface{})  {}
func (l *discardLogger) Error(string, ...interface{}) { l.errors++ }
func (l *discardLogger) Fatal(string, ...interface{}) {}

type searcherStub struct {
	queries    []string
	maxResults []int
	results    map[string][]Result
	errs       map[string]error
}

func (s *searcherStub) Search(_ context.Context, query string, maxResults int) ([]Result, error) {
	s.queries = append(s.queries, query)
	s.maxResults = append(s.maxResults, maxResults)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

type memCache struct {
	entries map[string]Result
	sets    int
	getErr  error
}

func (c *memCache) Get(_ context.Context, query string) (Result, bool, error) {
	if c.getErr != nil {
		return Result{}, false, c.getErr
	}
	res, ok := c.entries[query]
	return res, ok, nil
}

func (c *memCache) Set(_ context.Context, query string, res Result) error {
	c.sets++
	c.entries[query] = res
	return nil
}

var nnResult = Result{VideoID: "aircAruvnKk", Title: "But what is a neural network?", Channel: "3Blue1Brown", Thumbnail: "https://i.ytimg.com/vi/aircAruvnKk/default.jpg"}

func TestService_Resolve(t *testing.T) {
	searcher := &searcherStub{
		results: map[string][]Result{
			"Neural Networks BTech": {nnResult, {VideoID: "second"}},
		},
	}
	logger := new(discardLogger)
	svc := NewService(searcher, nil, "BTech", logger)

	matches := svc.Resolve(context.Background(), []string{"Neural Networks", "Databases"}, 5)

	require.Len(t, matches, 2)
	assert.True(t, matches[0].Found())
	assert.Equal(t, "aircAruvnKk", *matches[0].ID)
	assert.Equal(t, "3Blue1Brown", *matches[0].Channel)
	assert.Equal(t, "Neural Networks", matches[0].Topic)
	assert.Equal(t, NoMatch("Databases"), matches[1])
	assert.Equal(t, []string{"Neural Networks BTech", "Databases BTech"}, searcher.queries)
	assert.Equal(t, 0, logger.errors)
}

func TestService_Resolve_isolatesFailures(t *testing.T) {
	topics := []string{"Graphs", "Sorting", "Heaps", "Tries"}
	searcher := &searcherStub{
		results: map[string][]Result{
			"Sorting BTech": {{VideoID: "s1", Title: "Sorting"}},
			"Tries BTech":   {{VideoID: "t1", Title: "Tries"}},
		},
		errs: map[string]error{
			"Graphs BTech": errors.New("quotaExceeded"),
			"Heaps BTech":  errors.New("connection reset by peer"),
		},
	}
	logger := new(discardLogger)
	svc := NewService(searcher, nil, "BTech", logger)

	matches := svc.Resolve(context.Background(), topics, 3)

	require.Len(t, matches, len(topics))
	for i, topic := range topics {
		assert.Equal(t, topic, matches[i].Topic)
	}
	assert.False(t, matches[0].Found())
	assert.Equal(t, "s1", *matches[1].ID)
	assert.False(t, matches[2].Found())
	assert.Equal(t, "t1", *matches[3].ID)
	assert.Len(t, searcher.queries, len(topics), "every topic must be looked up")
	assert.Equal(t, 2, logger.errors)
}

func TestService_Resolve_maxResults(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "default", in: 0, want: DefaultMaxResults},
		{name: "negative", in: -3, want: DefaultMaxResults},
		{name: "kept", in: 12, want: 12},
		{name: "clamped", in: 500, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(searcherStub)
			svc := NewService(searcher, nil, "", new(discardLogger))
			svc.Resolve(context.Background(), []string{"Recursion"}, tt.in)
			assert.Equal(t, []int{tt.want}, searcher.maxResults)
			assert.Equal(t, []string{"Recursion"}, searcher.queries, "no qualifier appended")
		})
	}
}

func TestService_Resolve_cache(t *testing.T) {
	cache := &memCache{entries: map[string]Result{
		"Databases BTech": {VideoID: "db1", Title: "Databases", Channel: "CMU"},
	}}
	searcher := &searcherStub{results: map[string][]Result{"Neural Networks BTech": {nnResult}}}
	svc := NewService(searcher, cache, "BTech", new(discardLogger))

	matches := svc.Resolve(context.Background(), []string{"Databases", "Neural Networks", "Compilers"}, 5)

	require.Len(t, matches, 3)
	assert.Equal(t, "db1", *matches[0].ID)
	assert.Equal(t, "aircAruvnKk", *matches[1].ID)
	assert.False(t, matches[2].Found())
	assert.Equal(t, []string{"Neural Networks BTech", "Compilers BTech"}, searcher.queries, "cached topic not searched")
	assert.Equal(t, 1, cache.sets, "empty results are not cached")
	assert.Equal(t, nnResult, cache.entries["Neural Networks BTech"])
}

func TestService_Resolve_cacheErrorsAreBypassed(t *testing.T) {
	cache := &memCache{entries: map[string]Result{}, getErr: errors.New("redis: connection refused")}
	searcher := &searcherStub{results: map[string][]Result{"Databases BTech": {{VideoID: "db1"}}}}
	svc := NewService(searcher, cache, "BTech", new(discardLogger))

	matches := svc.Resolve(context.Background(), []string{"Databases"}, 5)

	require.Len(t, matches, 1)
	assert.Equal(t, "db1", *matches[0].ID)
}

func TestSearchRequest_Clean(t *testing.T) {
	req := SearchRequest{Topics: []string{"  Operating Systems ", "DBMS"}, MaxResults: 90}
	req.Clean()
	assert.Equal(t, []string{"Operating Systems", "DBMS"}, req.Topics)
	assert.Equal(t, 50, req.MaxResults)
	assert.False(t, strings.HasSuffix(req.Topics[0], " "))
}

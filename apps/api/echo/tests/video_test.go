package tests

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edutube/core/video"
)

func Test_videoApi_search(t *testing.T) {
	fx := setup(t)
	fx.searcher.results["Neural Networks BTech"] = []video.Result{
		{VideoID: "aircAruvnKk", Title: "But what is a neural network?", Channel: "3Blue1Brown", Thumbnail: "https://i.ytimg.com/vi/aircAruvnKk/default.jpg"},
		{VideoID: "IHZwWFHWa-w", Title: "Gradient descent", Channel: "3Blue1Brown"},
	}
	fx.searcher.errs["Compilers BTech"] = errors.New("googleapi: Error 403: quotaExceeded")

	neural := echoMap{
		"id":        "aircAruvnKk",
		"title":     "But what is a neural network?",
		"channel":   "3Blue1Brown",
		"thumbnail": "https://i.ytimg.com/vi/aircAruvnKk/default.jpg",
		"topic":     "Neural Networks",
	}
	null := func(topic string) echoMap {
		return echoMap{"id": nil, "title": nil, "channel": nil, "thumbnail": nil, "topic": topic}
	}
	videos := func(matches ...echoMap) []byte {
		return marchallObj(t, echoMap{"videos": matches})
	}
	topicsRequired := marchallObj(t, httpErr{Error: "topics array is required"})

	tests := []httpTest{
		{name: "no body", body: []byte(`{}`), wantCode: http.StatusBadRequest, wantData: topicsRequired},
		{name: "empty topics", body: []byte(`{"topics": []}`), wantCode: http.StatusBadRequest, wantData: topicsRequired},
		{
			name: "blank topic", body: []byte(`{"topics": ["Graphs", "  "]}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"topics[1]": "topics[1] cannot be blank"}),
		},
		{
			name: "second topic without results", body: []byte(`{"topics": ["Neural Networks", "Databases"]}`),
			wantData: videos(neural, null("Databases")),
		},
		{
			name: "failed lookup does not abort the others", body: []byte(`{"topics": ["Compilers", "Neural Networks"], "maxResults": 3}`),
			wantData: videos(null("Compilers"), neural),
		},
		{
			name: "legacy path", path: "/api/youtube/search", body: []byte(`{"topics": ["Neural Networks"]}`),
			wantData: videos(neural),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		if tests[i].path == "" {
			tests[i].path = "/api/videos/search"
		}
	}
	runHTTPTests(t, fx.app, tests)

	assert.Equal(t, []string{
		"Neural Networks BTech", "Databases BTech",
		"Compilers BTech", "Neural Networks BTech",
		"Neural Networks BTech",
	}, fx.searcher.queries)
}

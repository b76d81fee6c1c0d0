package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/edutube/apps/api/echo"
	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/core/video"
	"github.com/trezcool/edutube/services/filestore"
	"github.com/trezcool/edutube/storage/database/inmem"
	"github.com/trezcool/edutube/tests"
)

var errModelNotFound = errors.New("googleapi: Error 404: model is not found for API version v1beta, or is not supported for generateContent")

// scriptedModel answers per model name; any other model fails like an unknown model.
type scriptedModel struct {
	answers map[string]string
	calls   []string
}

func (m *scriptedModel) Generate(_ context.Context, cand content.Candidate, _ content.GenerationRequest) (string, error) {
	m.calls = append(m.calls, cand.Name)
	if text, ok := m.answers[cand.Name]; ok {
		return text, nil
	}
	return "", errModelNotFound
}

// stubSearcher returns the canned results of a query; errs fail a query.
type stubSearcher struct {
	results map[string][]video.Result
	errs    map[string]error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) ([]video.Result, error) {
	s.queries = append(s.queries, query)
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

type fixture struct {
	app         *Server
	usrRepo     user.Repository
	contentRepo content.Repository
	files       *filesvc.LocalStore
	model       *scriptedModel
	searcher    *stubSearcher
}

func setup(t *testing.T) fixture {
	t.Helper()

	conf := &core.Config{TestMode: true, AppName: "EduTube"}
	conf.YouTube.Qualifier = "BTech"
	conf.YouTube.MaxResults = video.DefaultMaxResults

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	contentRepo := inmemdb.NewContentRepository(db)

	files, err := filesvc.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	model := &scriptedModel{answers: map[string]string{}}
	searcher := &stubSearcher{results: map[string][]video.Result{}, errs: map[string]error{}}

	// set up services
	validate, translator := testutil.NewValidator()
	logger := testutil.NopLogger{}
	usrSvc := user.NewService(usrRepo, validate)
	contentSvc := content.NewService(content.ServiceDeps{
		Repo:     contentRepo,
		Files:    files,
		Model:    model,
		Validate: validate,
		Logger:   logger,
	})
	videoSvc := video.NewService(searcher, nil, conf.YouTube.Qualifier, logger)

	// set up server
	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    usrSvc,
		ContentSvc: contentSvc,
		VideoSvc:   videoSvc,
	})
	return fixture{
		app:         app,
		usrRepo:     usrRepo,
		contentRepo: contentRepo,
		files:       files,
		model:       model,
		searcher:    searcher,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpMsg struct {
	Message string `json:"message"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshall(%s) failed: %v", data, err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	if _, isList := j1.([]interface{}); !isList {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app http.Handler, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

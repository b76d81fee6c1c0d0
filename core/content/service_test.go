package content_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/services/filestore"
	"github.com/trezcool/edutube/storage/database/inmem"
	"github.com/trezcool/edutube/tests"
)

const (
	pdfMime  = "application/pdf"
	docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type fakeModel struct {
	answers map[string]string
	calls   []string
	parts   int
}

func (m *fakeModel) Generate(_ context.Context, cand content.Candidate, req content.GenerationRequest) (string, error) {
	m.calls = append(m.calls, cand.Name)
	m.parts = len(req.Files)
	if text, ok := m.answers[cand.Name]; ok {
		return text, nil
	}
	return "", errors.New("googleapi: Error 404: model not found")
}

type fixture struct {
	svc   content.Service
	repo  content.Repository
	files *filesvc.LocalStore
	model *fakeModel
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := filesvc.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	validate, _ := testutil.NewValidator()
	repo := inmemdb.NewContentRepository(inmemdb.Open())
	model := &fakeModel{answers: map[string]string{}}
	svc := content.NewService(content.ServiceDeps{
		Repo:     repo,
		Files:    store,
		Model:    model,
		Validate: validate,
		Logger:   testutil.NopLogger{},
	})
	return fixture{svc: svc, repo: repo, files: store, model: model}
}

func upload(name, mime, body string) content.Upload {
	return content.Upload{Name: name, MIMEType: mime, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func stagedCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "want a validation error, got %v", err)
	return vErr.Error()
}

func TestService_Upload(t *testing.T) {
	tests := []struct {
		name    string
		uploads []content.Upload
		wantErr error
	}{
		{name: "no files", wantErr: content.ErrNoFilesUploaded},
		{
			name:    "bad extension",
			uploads: []content.Upload{upload("notes.txt", "text/plain", "hello")},
			wantErr: content.ErrFileType,
		},
		{
			name:    "extension allowed but mime not",
			uploads: []content.Upload{upload("notes.pdf", "text/plain", "hello")},
			wantErr: content.ErrFileType,
		},
		{
			name: "too large",
			uploads: []content.Upload{{
				Name: "big.pdf", MIMEType: pdfMime, Size: content.DefaultMaxFileSize + 1, Body: strings.NewReader(""),
			}},
			wantErr: content.ErrFileTooLarge,
		},
		{
			name: "too many",
			uploads: func() []content.Upload {
				ups := make([]content.Upload, content.DefaultMaxFiles+1)
				for i := range ups {
					ups[i] = upload("a.png", "image/png", "x")
				}
				return ups
			}(),
			wantErr: content.ErrTooManyFiles,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t)
			_, err := fx.svc.Upload(context.Background(), tc.uploads)
			assert.Equal(t, tc.wantErr.Error(), validationMessage(t, err))
			assert.Zero(t, stagedCount(t, fx.files.Dir()), "nothing is staged on rejection")
		})
	}

	t.Run("staged", func(t *testing.T) {
		fx := newFixture(t)
		files, err := fx.svc.Upload(context.Background(), []content.Upload{
			upload("Lecture 1.PDF", pdfMime, "%PDF-1.4"),
			upload("notes.docx", docxMime, "PK"),
			upload("board.jpg", "image/jpeg", "\xff\xd8"),
		})
		require.NoError(t, err)
		require.Len(t, files, 3)

		assert.Equal(t, "Lecture 1.PDF", files[0].Name)
		assert.Equal(t, content.KindPDF, files[0].Type)
		assert.Equal(t, content.KindDOCX, files[1].Type)
		assert.Equal(t, content.KindImage, files[2].Type)
		assert.Equal(t, "0.00 MB", files[0].Size)
		for _, f := range files {
			assert.True(t, strings.HasPrefix(f.ID, "files-"), f.ID)
			data, err := fx.files.Read(f.Path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		}
		assert.Equal(t, 3, stagedCount(t, fx.files.Dir()))
	})
}

func TestService_Process(t *testing.T) {
	const answer = "```json\n{\"assignments\": [], \"flashcards\": [{\"front\": \"F\", \"back\": \"B\"}], \"summaries\": [], \"matchedTopics\": [\"Graphs\"]}\n```"

	stage := func(t *testing.T, fx fixture) []content.UploadedFile {
		files, err := fx.svc.Upload(context.Background(), []content.Upload{
			upload("a.pdf", pdfMime, "%PDF-1.4 a"),
			upload("b.png", "image/png", "png b"),
		})
		require.NoError(t, err)
		return files
	}

	t.Run("no files", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.Process(context.Background(), nil)
		assert.Equal(t, content.ErrNoFilesToProcess.Error(), validationMessage(t, err))
		assert.Empty(t, fx.model.calls)
	})

	t.Run("all models fail", func(t *testing.T) {
		fx := newFixture(t)
		files := stage(t, fx)

		_, err := fx.svc.Process(context.Background(), files)

		assert.Equal(t, content.ErrAllModelsFailed, errors.Cause(err))
		assert.Len(t, fx.model.calls, len(content.DefaultCandidates))
		assert.Equal(t, 2, fx.model.parts)
		assert.Zero(t, stagedCount(t, fx.files.Dir()), "staged files are removed on failure")
	})

	t.Run("success", func(t *testing.T) {
		fx := newFixture(t)
		fx.model.answers["gemini-flash-latest"] = answer
		files := stage(t, fx)

		res, err := fx.svc.Process(context.Background(), files)

		require.NoError(t, err)
		assert.Equal(t, "gemini-flash-latest", res.ModelUsed)
		assert.Equal(t, content.Parsed, res.Outcome)
		assert.Equal(t, []string{"Graphs"}, res.Content.MatchedTopics)
		assert.Len(t, res.Content.Flashcards, 1)
		assert.GreaterOrEqual(t, res.ProcessingTime, int64(0))
		assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-flash-latest"}, fx.model.calls)
		assert.Zero(t, stagedCount(t, fx.files.Dir()), "staged files are removed on success")
	})

	t.Run("unparseable answer", func(t *testing.T) {
		fx := newFixture(t)
		fx.model.answers["gemini-2.5-flash"] = "Sorry, I cannot help with that."
		files := stage(t, fx)

		res, err := fx.svc.Process(context.Background(), files)

		require.NoError(t, err)
		assert.Equal(t, content.Fallback, res.Outcome)
		assert.Equal(t, content.Placeholder(), res.Content)
	})

	t.Run("file outside the upload dir", func(t *testing.T) {
		fx := newFixture(t)
		_, err := fx.svc.Process(context.Background(), []content.UploadedFile{{Name: "passwd", Path: "/etc/passwd"}})
		assert.Error(t, err)
		assert.True(t, core.IsValidation(err))
		assert.Empty(t, fx.model.calls)
	})
}

func TestService_SaveAndList(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	teacherID := core.NewID()

	_, err := fx.svc.Save(ctx, content.NewContent{})
	assert.Equal(t, content.ErrTeacherRequired.Error(), validationMessage(t, err))

	_, err = fx.svc.Save(ctx, content.NewContent{TeacherID: "teacher-1"})
	assert.Equal(t, content.ErrInvalidTeacherID.Error(), validationMessage(t, err))

	rec, err := fx.svc.Save(ctx, content.NewContent{
		TeacherID:        " " + teacherID + " ",
		TeacherName:      "Ada Lovelace",
		OriginalFileName: "graphs.pdf",
		FileType:         content.KindPDF,
		Generated:        content.Generated{MatchedTopics: []string{"Graphs"}},
		ModelUsed:        "gemini-2.5-flash",
		ProcessingTime:   3200,
	})
	require.NoError(t, err)
	assert.True(t, core.IsValidID(rec.ID))
	assert.Equal(t, teacherID, rec.TeacherID)
	assert.Equal(t, content.StatusPublished, rec.Status)
	assert.NotNil(t, rec.Assignments)
	assert.NotNil(t, rec.Flashcards)
	assert.NotNil(t, rec.Summaries)
	assert.Zero(t, rec.Views)

	now := time.Now()
	testutil.CreateContent(t, fx.repo, teacherID, "Trees", content.StatusDraft, now.Add(-time.Hour))
	testutil.CreateContent(t, fx.repo, core.NewID(), "Other", content.StatusPublished)

	all, err := fx.svc.ListByTeacher(ctx, content.QueryFilter{TeacherID: teacherID, Status: "all"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, rec.ID, all[0].ID, "newest first")

	drafts, err := fx.svc.ListByTeacher(ctx, content.QueryFilter{TeacherID: teacherID, Status: "Draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Trees", drafts[0].Flashcards[0].Front)

	none, err := fx.svc.ListByTeacher(ctx, content.QueryFilter{TeacherID: core.NewID()})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = fx.svc.ListByTeacher(ctx, content.QueryFilter{TeacherID: teacherID, Status: "deleted"})
	assert.True(t, core.IsValidation(err))
}

func TestService_ByID(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	rec := testutil.CreateContent(t, fx.repo, core.NewID(), "Graphs", content.StatusPublished)

	got, err := fx.svc.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	for _, id := range []string{"", "nope", core.NewID()} {
		_, err = fx.svc.GetByID(ctx, id)
		assert.True(t, core.IsNotFound(err), "GetByID(%q)", id)
		assert.True(t, core.IsNotFound(fx.svc.DeleteByID(ctx, id)), "DeleteByID(%q)", id)
		_, err = fx.svc.RecordView(ctx, id)
		assert.True(t, core.IsNotFound(err), "RecordView(%q)", id)
	}

	got, err = fx.svc.RecordView(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	got, err = fx.svc.RecordDownload(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)
	assert.Equal(t, 1, got.Downloads)

	got, err = fx.svc.SetStatus(ctx, rec.ID, content.UpdateStatus{Status: " ARCHIVED "})
	require.NoError(t, err)
	assert.Equal(t, content.StatusArchived, got.Status)

	_, err = fx.svc.SetStatus(ctx, rec.ID, content.UpdateStatus{Status: "deleted"})
	var vErrs validator.ValidationErrors
	assert.True(t, errors.As(err, &vErrs), "unknown status is rejected")

	_, err = fx.svc.SetStatus(ctx, "nope", content.UpdateStatus{Status: content.StatusDraft})
	assert.True(t, core.IsNotFound(err))

	require.NoError(t, fx.svc.DeleteByID(ctx, rec.ID))
	_, err = fx.svc.GetByID(ctx, rec.ID)
	assert.Equal(t, content.ErrNotFound, err)
}

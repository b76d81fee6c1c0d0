package content

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("Content not found")
	ErrTeacherRequired  = errors.New("Teacher ID is required")
	ErrInvalidTeacherID = errors.New("Invalid teacherId")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrNoFilesUploaded  = errors.New("No files uploaded")
	ErrNoFilesToProcess = errors.New("No files to process")
	ErrTooManyFiles     = errors.New("Too many files")
	ErrFileTooLarge     = errors.New("File too large")
	ErrFileType         = errors.New("Only PDF, DOCX, and image files are allowed!")
)

// Counter names a Record counter.
type Counter string

const (
	CounterViews     Counter = "views"
	CounterDownloads Counter = "downloads"
)

type (
	Repository interface {
		CreateContent(ctx context.Context, rec Record) (Record, error)
		// QueryContents returns the records of QueryFilter.TeacherID, newest first.
		// An empty QueryFilter.Status matches every status.
		QueryContents(ctx context.Context, filter QueryFilter) ([]Record, error)
		GetContent(ctx context.Context, id string) (Record, error)
		DeleteContent(ctx context.Context, id string) error
		UpdateContentStatus(ctx context.Context, id, status string, updatedAt time.Time) (Record, error)
		IncrementContentCounter(ctx context.Context, id string, counter Counter) (Record, error)
	}

	// FileStore stages uploaded files between upload and processing.
	FileStore interface {
		Save(name string, r io.Reader) (path string, err error)
		Read(path string) ([]byte, error)
		Remove(path string) error
	}

	Service interface {
		Upload(ctx context.Context, uploads []Upload) ([]UploadedFile, error)
		// Process runs the staged files through the model chain and normalizes the answer.
		// The staged files are removed on every exit path.
		Process(ctx context.Context, files []UploadedFile) (ProcessResult, error)
		Save(ctx context.Context, nc NewContent) (Record, error)
		ListByTeacher(ctx context.Context, filter QueryFilter) ([]Record, error)
		GetByID(ctx context.Context, id string) (Record, error)
		DeleteByID(ctx context.Context, id string) error
		SetStatus(ctx context.Context, id string, us UpdateStatus) (Record, error)
		RecordView(ctx context.Context, id string) (Record, error)
		RecordDownload(ctx context.Context, id string) (Record, error)
	}

	ServiceDeps struct {
		Repo       Repository
		Files      FileStore
		Model      ModelClient
		Candidates []Candidate
		Limits     UploadLimits
		Validate   *validator.Validate
		Logger     core.Logger
	}

	service struct {
		ServiceDeps
	}
)

var _ Service = (*service)(nil) // interface compliance check

func NewService(deps ServiceDeps) Service {
	if len(deps.Candidates) == 0 {
		deps.Candidates = DefaultCandidates
	}
	if deps.Limits.MaxFiles <= 0 {
		deps.Limits.MaxFiles = DefaultMaxFiles
	}
	if deps.Limits.MaxFileSize <= 0 {
		deps.Limits.MaxFileSize = DefaultMaxFileSize
	}
	return &service{ServiceDeps: deps}
}

func (svc *service) Upload(_ context.Context, uploads []Upload) ([]UploadedFile, error) {
	if len(uploads) == 0 {
		return nil, core.NewValidationError(ErrNoFilesUploaded)
	}
	if len(uploads) > svc.Limits.MaxFiles {
		return nil, core.NewValidationError(ErrTooManyFiles)
	}
	for _, up := range uploads {
		if up.Size > svc.Limits.MaxFileSize {
			return nil, core.NewValidationError(ErrFileTooLarge)
		}
		if !isAllowedFile(up.Name, up.MIMEType) {
			return nil, core.NewValidationError(ErrFileType)
		}
	}

	files := make([]UploadedFile, 0, len(uploads))
	for _, up := range uploads {
		path, err := svc.Files.Save(up.Name, up.Body)
		if err != nil {
			svc.removeFiles(files)
			return nil, errors.Wrapf(err, "staging %q", up.Name)
		}
		files = append(files, newUploadedFile(up, path))
	}
	return files, nil
}

func (svc *service) Process(ctx context.Context, files []UploadedFile) (ProcessResult, error) {
	if len(files) == 0 {
		return ProcessResult{}, core.NewValidationError(ErrNoFilesToProcess)
	}
	defer svc.removeFiles(files)

	start := time.Now()
	req := GenerationRequest{Prompt: Prompt, Files: make([]File, 0, len(files))}
	for _, f := range files {
		data, err := svc.Files.Read(f.Path)
		if err != nil {
			return ProcessResult{}, errors.Wrapf(err, "reading %q", f.Name)
		}
		req.Files = append(req.Files, File{MIMEType: f.MIMEType, Data: data})
	}

	gen, err := Generate(ctx, svc.Model, svc.Candidates, req, svc.Logger)
	if err != nil {
		return ProcessResult{}, err
	}

	norm := Normalize(gen.Text)
	if norm.Outcome != Parsed {
		svc.Logger.Warn(fmt.Sprintf("model %s answer %s", gen.ModelUsed, norm.Outcome), truncate(gen.Text, 500))
	}
	return ProcessResult{
		Content:        norm.Content,
		ModelUsed:      gen.ModelUsed,
		Outcome:        norm.Outcome,
		ProcessingTime: time.Since(start).Milliseconds(),
	}, nil
}

// removeFiles deletes staged files; failures are only logged.
func (svc *service) removeFiles(files []UploadedFile) {
	for _, f := range files {
		if err := svc.Files.Remove(f.Path); err != nil {
			svc.Logger.Warn(fmt.Sprintf("cleanup of %q failed", f.Path), err)
		}
	}
}

func (svc *service) Save(ctx context.Context, nc NewContent) (Record, error) {
	if err := nc.Validate(); err != nil {
		return Record{}, err
	}

	now := time.Now().UTC()
	rec := Record{
		TeacherID:        nc.TeacherID,
		TeacherName:      nc.TeacherName,
		OriginalFileName: nc.OriginalFileName,
		FileType:         nc.FileType,
		Generated:        nc.Generated,
		ModelUsed:        nc.ModelUsed,
		ProcessingTime:   nc.ProcessingTime,
		Status:           StatusPublished,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	rec, err := svc.Repo.CreateContent(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "creating content")
	}
	return rec, nil
}

func (svc *service) ListByTeacher(ctx context.Context, filter QueryFilter) ([]Record, error) {
	filter.Clean()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	recs, err := svc.Repo.QueryContents(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying contents")
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Record, error) {
	if !core.IsValidID(id) {
		return Record{}, ErrNotFound
	}
	return svc.Repo.GetContent(ctx, id)
}

func (svc *service) DeleteByID(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.Repo.DeleteContent(ctx, id)
}

func (svc *service) SetStatus(ctx context.Context, id string, us UpdateStatus) (Record, error) {
	if err := us.Validate(svc.Validate); err != nil {
		return Record{}, err
	}
	if !core.IsValidID(id) {
		return Record{}, ErrNotFound
	}
	return svc.Repo.UpdateContentStatus(ctx, id, us.Status, time.Now().UTC())
}

func (svc *service) RecordView(ctx context.Context, id string) (Record, error) {
	return svc.increment(ctx, id, CounterViews)
}

func (svc *service) RecordDownload(ctx context.Context, id string) (Record, error) {
	return svc.increment(ctx, id, CounterDownloads)
}

func (svc *service) increment(ctx context.Context, id string, counter Counter) (Record, error) {
	if !core.IsValidID(id) {
		return Record{}, ErrNotFound
	}
	return svc.Repo.IncrementContentCounter(ctx, id, counter)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ProcessResult is the reviewed-before-save output of Process.
type ProcessResult struct {
	Content        Generated
	ModelUsed      string
	Outcome        Outcome
	ProcessingTime int64 // ms
}

func isAllowedFile(name, mimeType string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	return allowedExtensions[ext] && allowedMIMETypes[mimeType]
}

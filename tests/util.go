package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		FullName:  name,
		Email:     email,
		Role:      role,
		Playlists: []user.Playlist{},
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateContent(
	t *testing.T,
	repo content.Repository,
	teacherID, title, status string,
	createdAt ...time.Time,
) content.Record {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	gen := content.Generated{
		Assignments: []content.Assignment{{
			Title:         title,
			Type:          content.TypeQuiz,
			Difficulty:    content.DifficultyBeginner,
			EstimatedTime: "15 minutes",
			TotalPoints:   10,
			Questions: []content.Question{{
				QuestionNumber: 1,
				QuestionText:   "What is " + title + "?",
				QuestionType:   content.QuestionShortAnswer,
				Options:        []string{},
				Points:         10,
			}},
		}},
		Flashcards:    []content.Flashcard{{Front: title, Back: "A topic"}},
		Summaries:     []content.Summary{{Title: title, Content: "About " + title, KeyPoints: []string{title}}},
		MatchedTopics: []string{title},
	}
	rec := content.Record{
		TeacherID:        teacherID,
		TeacherName:      "Ada Lovelace",
		OriginalFileName: title + ".pdf",
		FileType:         content.KindPDF,
		Generated:        gen,
		ModelUsed:        "gemini-2.5-flash",
		ProcessingTime:   1200,
		Status:           status,
		CreatedAt:        tstamp,
		UpdatedAt:        tstamp,
	}
	rec, err := repo.CreateContent(context.Background(), rec)
	if err != nil {
		t.Fatalf("CreateContent() failed: %v", err)
	}
	return rec
}

// NewValidator returns a validator and translator with every app validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)
	return validate, translator
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

package content

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutube/core"
)

// Assignment types
const (
	TypeQuiz       = "Quiz"
	TypeProblemSet = "Problem Set"
	TypeEssay      = "Essay"
	TypeProject    = "Project"
)

// Difficulties
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Question types
const (
	QuestionMCQ         = "MCQ"
	QuestionShortAnswer = "Short Answer"
	QuestionEssay       = "Essay"
	QuestionTrueFalse   = "True/False"
)

// Statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	// StatusAll is only meaningful as a list filter.
	StatusAll = "all"
)

const defaultQuestionPoints = 10

var (
	AssignmentTypes = []string{TypeQuiz, TypeProblemSet, TypeEssay, TypeProject}
	Difficulties    = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
	QuestionTypes   = []string{QuestionMCQ, QuestionShortAnswer, QuestionEssay, QuestionTrueFalse}
	Statuses        = []string{StatusDraft, StatusPublished, StatusArchived}
)

type Question struct {
	QuestionNumber int      `json:"questionNumber" bson:"questionNumber"`
	QuestionText   string   `json:"questionText" bson:"questionText"`
	QuestionType   string   `json:"questionType" bson:"questionType"`
	Options        []string `json:"options" bson:"options"`
	CorrectAnswer  string   `json:"correctAnswer" bson:"correctAnswer"`
	Explanation    string   `json:"explanation" bson:"explanation"`
	Points         int      `json:"points" bson:"points"`
}

type Assignment struct {
	Title         string     `json:"title" bson:"title"`
	Type          string     `json:"type" bson:"type"`
	Difficulty    string     `json:"difficulty" bson:"difficulty"`
	EstimatedTime string     `json:"estimatedTime" bson:"estimatedTime"`
	Description   string     `json:"description" bson:"description"`
	TotalPoints   int        `json:"totalPoints" bson:"totalPoints"`
	Questions     []Question `json:"questions" bson:"questions"`
}

type Flashcard struct {
	Front string `json:"front" bson:"front"`
	Back  string `json:"back" bson:"back"`
}

type Summary struct {
	Title     string   `json:"title" bson:"title"`
	Content   string   `json:"content" bson:"content"`
	KeyPoints []string `json:"keyPoints" bson:"keyPoints"`
}

// Generated is the structured study material produced from uploaded files.
type Generated struct {
	Assignments   []Assignment `json:"assignments" bson:"assignments"`
	Flashcards    []Flashcard  `json:"flashcards" bson:"flashcards"`
	Summaries     []Summary    `json:"summaries" bson:"summaries"`
	MatchedTopics []string     `json:"matchedTopics" bson:"matchedTopics"`
}

// Sanitize replaces absent sequences with empty ones and coerces out-of-range enums,
// so the document is always storable and always serializes without nulls.
func (g *Generated) Sanitize() {
	if g.Assignments == nil {
		g.Assignments = []Assignment{}
	}
	if g.Flashcards == nil {
		g.Flashcards = []Flashcard{}
	}
	if g.Summaries == nil {
		g.Summaries = []Summary{}
	}
	if g.MatchedTopics == nil {
		g.MatchedTopics = []string{}
	}

	for i := range g.Assignments {
		a := &g.Assignments[i]
		a.Type = oneOf(a.Type, AssignmentTypes, TypeQuiz)
		a.Difficulty = oneOf(a.Difficulty, Difficulties, DifficultyIntermediate)
		if a.Questions == nil {
			a.Questions = []Question{}
		}
		var total int
		for j := range a.Questions {
			q := &a.Questions[j]
			q.QuestionType = oneOf(q.QuestionType, QuestionTypes, QuestionShortAnswer)
			if q.Points <= 0 {
				q.Points = defaultQuestionPoints
			}
			if q.Options == nil {
				q.Options = []string{}
			}
			if q.QuestionNumber == 0 {
				q.QuestionNumber = j + 1
			}
			total += q.Points
		}
		if a.TotalPoints <= 0 {
			a.TotalPoints = total
		}
	}
	for i := range g.Summaries {
		if g.Summaries[i].KeyPoints == nil {
			g.Summaries[i].KeyPoints = []string{}
		}
	}
}

// oneOf returns v when it is one of allowed (case-insensitively, canonical casing), def otherwise.
func oneOf(v string, allowed []string, def string) string {
	v = core.CleanString(v)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	return def
}

// Record is a saved, teacher-owned Generated document.
type Record struct {
	ID               string    `json:"_id"`
	TeacherID        string    `json:"teacherId"`
	TeacherName      string    `json:"teacherName"`
	OriginalFileName string    `json:"originalFileName"`
	FileType         string    `json:"fileType"`
	Generated
	ModelUsed      string    `json:"modelUsed"`
	ProcessingTime int64     `json:"processingTime"` // ms
	Status         string    `json:"status"`
	Views          int       `json:"views"`
	Downloads      int       `json:"downloads"`
	CreatedAt      time.Time `json:"createdAt"` // UTC
	UpdatedAt      time.Time `json:"updatedAt"` // UTC
}

// NewContent contains the information needed to save reviewed Generated material.
type NewContent struct {
	TeacherID        string `json:"teacherId"`
	TeacherName      string `json:"teacherName"`
	OriginalFileName string `json:"originalFileName"`
	FileType         string `json:"fileType"`
	Generated
	ModelUsed      string `json:"modelUsed"`
	ProcessingTime int64  `json:"processingTime"`
}

// Validate checks the owner and cleans free-text metadata.
// The owner check is explicit so that the caller gets the exact messages of the public API.
func (nc *NewContent) Validate() error {
	nc.TeacherID = core.CleanString(nc.TeacherID)
	nc.TeacherName = core.CleanString(nc.TeacherName)
	nc.OriginalFileName = core.CleanString(nc.OriginalFileName)
	nc.FileType = core.CleanString(nc.FileType)
	nc.ModelUsed = core.CleanString(nc.ModelUsed)

	if nc.TeacherID == "" {
		return core.NewValidationError(ErrTeacherRequired)
	}
	if !core.IsValidID(nc.TeacherID) {
		return core.NewValidationError(ErrInvalidTeacherID)
	}
	if nc.ProcessingTime < 0 {
		nc.ProcessingTime = 0
	}
	nc.Generated.Sanitize()
	return nil
}

// UpdateStatus is the payload of a status change.
type UpdateStatus struct {
	Status string `json:"status" validate:"required,contentstatus"`
}

func (us *UpdateStatus) Validate(validate *validator.Validate) error {
	us.Status = core.CleanString(us.Status, true /* lower */)
	return validate.Struct(us)
}

// QueryFilter narrows a teacher's content list.
type QueryFilter struct {
	TeacherID string `query:"-"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	if qf.Status == StatusAll {
		qf.Status = ""
	}
}

// Validate rejects unknown statuses; an empty status means "all".
func (qf *QueryFilter) Validate() error {
	if !core.IsValidID(qf.TeacherID) {
		return core.NewValidationError(ErrInvalidTeacherID)
	}
	if qf.Status != "" && !IsStatus(qf.Status) {
		return core.NewValidationError(ErrInvalidStatus, core.FieldError{Field: "status", Error: ErrInvalidStatus.Error()})
	}
	return nil
}

func IsStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/video"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

var Roles = []string{RoleStudent, RoleTeacher}

type User struct {
	ID           string     `json:"_id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	PasswordHash []byte     `json:"-"`
	Playlists    []Playlist `json:"playlists"`
	CreatedAt    time.Time  `json:"createdAt"` // UTC
	UpdatedAt    time.Time  `json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Playlist is a saved list of videos, embedded in its owner.
type Playlist struct {
	ID           string        `json:"_id"`
	Title        string        `json:"title"`
	VideoCount   int           `json:"videoCount"`
	Videos       []video.Match `json:"videos"`
	CreatedAt    time.Time     `json:"createdAt"` // UTC
	IsBookmarked bool          `json:"isBookmarked"`
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return validate.Struct(nu)
}

// LoginRequest is a credential check for one role.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	lr.Role = core.CleanString(lr.Role, true /* lower */)
	return validate.Struct(lr)
}

// NewPlaylist contains information needed to save a Playlist.
type NewPlaylist struct {
	Title      string        `json:"title"`
	VideoCount int           `json:"videoCount" validate:"min=0"`
	Videos     []video.Match `json:"videos"`
}

func (np *NewPlaylist) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	if np.Videos == nil {
		np.Videos = []video.Match{}
	}
	if np.VideoCount == 0 {
		np.VideoCount = len(np.Videos)
	}
	return validate.Struct(np)
}

// UpdatePlaylist defines what may be changed on a Playlist. An empty Title is left untouched.
type UpdatePlaylist struct {
	Title        string `json:"title"`
	IsBookmarked *bool  `json:"isBookmarked"`
}

func (up *UpdatePlaylist) Clean() {
	up.Title = core.CleanString(up.Title)
}

func (up UpdatePlaylist) IsEmpty() bool {
	return up.Title == "" && up.IsBookmarked == nil
}

// Apply mutates pl with the supplied fields.
func (up UpdatePlaylist) Apply(pl *Playlist) {
	if up.Title != "" {
		pl.Title = up.Title
	}
	if up.IsBookmarked != nil {
		pl.IsBookmarked = *up.IsBookmarked
	}
}

// SetPassword is the payload of an operator password reset.
type SetPassword struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"-"` // compared against Password
}

func (sp *SetPassword) Validate(validate *validator.Validate) error {
	sp.Email = core.CleanString(sp.Email, true /* lower */)
	return validate.Struct(sp)
}

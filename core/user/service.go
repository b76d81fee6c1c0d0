package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutube/core"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError("User not found")
	ErrPlaylistNotFound  = core.NewNotFoundError("Playlist not found")
	ErrEmailExists       = errors.New("Email already registered")
	ErrInvalidUserID     = errors.New("Invalid userId")
	ErrNotRegistered     = errors.New("User not registered with this role, please register or check credentials")
	ErrIncorrectPassword = errors.New("Incorrect password, please try again")
)

type (
	Repository interface {
		// CreateUser fails with ErrEmailExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		GetUserByEmailAndRole(ctx context.Context, email, role string) (User, error)
		SetUserPassword(ctx context.Context, id string, hash []byte, updatedAt time.Time) error

		// Playlist operations return the owner's resulting playlists.
		PushPlaylist(ctx context.Context, userID string, pl Playlist) ([]Playlist, error)
		// PullPlaylist is a no-op when no playlist has playlistID.
		PullPlaylist(ctx context.Context, userID, playlistID string) ([]Playlist, error)
		// UpdatePlaylist fails with ErrPlaylistNotFound when no playlist has playlistID.
		UpdatePlaylist(ctx context.Context, userID, playlistID string, up UpdatePlaylist) ([]Playlist, error)
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		// Authenticate checks the credentials of a user registered with the given role.
		Authenticate(ctx context.Context, lr LoginRequest) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		SetPassword(ctx context.Context, sp SetPassword) error

		SavePlaylist(ctx context.Context, userID string, np NewPlaylist) ([]Playlist, error)
		ListPlaylists(ctx context.Context, userID string) ([]Playlist, error)
		RemovePlaylist(ctx context.Context, userID, playlistID string) ([]Playlist, error)
		UpdatePlaylist(ctx context.Context, userID, playlistID string, up UpdatePlaylist) ([]Playlist, error)
	}

	service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil) // interface compliance check

func NewService(repo Repository, validate *validator.Validate) Service {
	return &service{repo: repo, validate: validate}
}

func checkUserID(id string) error {
	if !core.IsValidID(id) {
		return core.NewValidationError(ErrInvalidUserID)
	}
	return nil
}

func emailExistsErr() error {
	return core.NewValidationError(ErrEmailExists)
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	if _, err := svc.repo.GetUserByEmail(ctx, nu.Email); err == nil {
		return User{}, emailExistsErr()
	} else if !core.IsNotFound(err) {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	usr := User{
		FullName:  nu.FullName,
		Email:     nu.Email,
		Role:      nu.Role,
		Playlists: []Playlist{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists { // lost a race with another registration
			return User{}, emailExistsErr()
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (svc *service) Authenticate(ctx context.Context, lr LoginRequest) (User, error) {
	if err := lr.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmailAndRole(ctx, lr.Email, lr.Role)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, core.NewValidationError(ErrNotRegistered)
		}
		return User{}, errors.Wrap(err, "finding user")
	}
	if err = usr.CheckPassword(lr.Password); err != nil {
		return User{}, core.NewValidationError(ErrIncorrectPassword)
	}
	return usr, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	if err := checkUserID(id); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) SetPassword(ctx context.Context, sp SetPassword) error {
	usr, err := svc.GetByEmail(ctx, sp.Email)
	if err != nil {
		return err
	}
	sp.FullName = usr.FullName
	if err = sp.Validate(svc.validate); err != nil {
		return err
	}
	if err = usr.SetPassword(sp.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	return svc.repo.SetUserPassword(ctx, usr.ID, usr.PasswordHash, time.Now().UTC())
}

func (svc *service) SavePlaylist(ctx context.Context, userID string, np NewPlaylist) ([]Playlist, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if err := np.Validate(svc.validate); err != nil {
		return nil, err
	}
	pl := Playlist{
		ID:         core.NewID(),
		Title:      np.Title,
		VideoCount: np.VideoCount,
		Videos:     np.Videos,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.PushPlaylist(ctx, userID, pl)
}

func (svc *service) ListPlaylists(ctx context.Context, userID string) ([]Playlist, error) {
	usr, err := svc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.Playlists == nil {
		return []Playlist{}, nil
	}
	return usr.Playlists, nil
}

func (svc *service) RemovePlaylist(ctx context.Context, userID, playlistID string) ([]Playlist, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	return svc.repo.PullPlaylist(ctx, userID, core.CleanString(playlistID))
}

func (svc *service) UpdatePlaylist(ctx context.Context, userID, playlistID string, up UpdatePlaylist) ([]Playlist, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	up.Clean()
	return svc.repo.UpdatePlaylist(ctx, userID, core.CleanString(playlistID), up)
}

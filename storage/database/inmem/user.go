package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/core/video"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

// copyUser detaches the stored user from the returned value.
func copyUser(usr *user.User) user.User {
	u := *usr
	u.PasswordHash = append([]byte(nil), usr.PasswordHash...)
	u.Playlists = copyPlaylists(usr.Playlists)
	return u
}

func copyPlaylists(pls []user.Playlist) []user.Playlist {
	out := make([]user.Playlist, 0, len(pls))
	for _, pl := range pls {
		pl.Videos = append([]video.Match{}, pl.Videos...)
		out = append(out, pl)
	}
	return out
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.table {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}

	if usr.ID == "" {
		usr.ID = core.NewID()
	}
	stored := copyUser(&usr)
	repo.db.table[usr.ID] = &stored
	return copyUser(&stored), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return copyUser(usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) find(match func(*user.User) bool) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.table {
		if match(usr) {
			return copyUser(usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	return repo.find(func(u *user.User) bool { return u.Email == email })
}

func (repo *userRepository) GetUserByEmailAndRole(_ context.Context, email, role string) (user.User, error) {
	return repo.find(func(u *user.User) bool { return u.Email == email && u.Role == role })
}

func (repo *userRepository) SetUserPassword(_ context.Context, id string, hash []byte, updatedAt time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.PasswordHash = append([]byte(nil), hash...)
	usr.UpdatedAt = updatedAt
	return nil
}

func (repo *userRepository) PushPlaylist(_ context.Context, userID string, pl user.Playlist) ([]user.Playlist, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	usr.Playlists = append(usr.Playlists, copyPlaylists([]user.Playlist{pl})...)
	return copyPlaylists(usr.Playlists), nil
}

func (repo *userRepository) PullPlaylist(_ context.Context, userID, playlistID string) ([]user.Playlist, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	kept := usr.Playlists[:0]
	for _, pl := range usr.Playlists {
		if pl.ID != playlistID {
			kept = append(kept, pl)
		}
	}
	usr.Playlists = kept
	return copyPlaylists(usr.Playlists), nil
}

func (repo *userRepository) UpdatePlaylist(_ context.Context, userID, playlistID string, up user.UpdatePlaylist) ([]user.Playlist, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	for i := range usr.Playlists {
		if usr.Playlists[i].ID == playlistID {
			up.Apply(&usr.Playlists[i])
			return copyPlaylists(usr.Playlists), nil
		}
	}
	return nil, user.ErrPlaylistNotFound
}

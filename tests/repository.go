package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutube/core"
	"github.com/trezcool/edutube/core/content"
	"github.com/trezcool/edutube/core/user"
	"github.com/trezcool/edutube/core/video"
)

// RunUserRepositoryTests checks the behaviour shared by every user.Repository.
// reset must empty the store.
func RunUserRepositoryTests(t *testing.T, repo user.Repository, reset func(t *testing.T)) {
	ctx := context.Background()

	t.Run("create & get", func(t *testing.T) {
		reset(t)
		usr := CreateUser(t, repo, "Grace Hopper", "grace@test.edu", "c0b0l-r0cks", user.RoleTeacher)
		require.True(t, core.IsValidID(usr.ID))

		got, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, usr.Email, got.Email)
		assert.Equal(t, usr.Role, got.Role)
		assert.NoError(t, got.CheckPassword("c0b0l-r0cks"))
		assert.NotNil(t, got.Playlists)

		got, err = repo.GetUserByEmail(ctx, "grace@test.edu")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)

		got, err = repo.GetUserByEmailAndRole(ctx, "grace@test.edu", user.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)

		_, err = repo.GetUserByEmailAndRole(ctx, "grace@test.edu", user.RoleStudent)
		assert.Equal(t, user.ErrNotFound, err)
		_, err = repo.GetUserByID(ctx, core.NewID())
		assert.Equal(t, user.ErrNotFound, err)
		_, err = repo.GetUserByEmail(ctx, "nobody@test.edu")
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("unique email", func(t *testing.T) {
		reset(t)
		CreateUser(t, repo, "Grace Hopper", "grace@test.edu", "", user.RoleTeacher)
		_, err := repo.CreateUser(ctx, user.User{FullName: "Other", Email: "grace@test.edu", Role: user.RoleStudent})
		assert.Equal(t, user.ErrEmailExists, err)
	})

	t.Run("set password", func(t *testing.T) {
		reset(t)
		usr := CreateUser(t, repo, "Grace Hopper", "grace@test.edu", "c0b0l-r0cks", user.RoleTeacher)
		require.NoError(t, usr.SetPassword("n3w-p4ssword"))

		require.NoError(t, repo.SetUserPassword(ctx, usr.ID, usr.PasswordHash, time.Now().UTC()))
		got, err := repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, got.CheckPassword("n3w-p4ssword"))

		assert.Equal(t, user.ErrNotFound, repo.SetUserPassword(ctx, core.NewID(), usr.PasswordHash, time.Now().UTC()))
	})

	t.Run("playlists", func(t *testing.T) {
		reset(t)
		usr := CreateUser(t, repo, "Alan Turing", "alan@test.edu", "", user.RoleStudent)
		vid := video.Match{ID: strPtr("aircAruvnKk"), Title: strPtr("Neural networks"), Channel: strPtr("3Blue1Brown"), Thumbnail: strPtr("t.jpg"), Topic: "Neural Networks"}
		first := user.Playlist{ID: core.NewID(), Title: "ML", VideoCount: 2, Videos: []video.Match{vid, video.NoMatch("Databases")}, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
		second := user.Playlist{ID: core.NewID(), Title: "Systems", Videos: []video.Match{}, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}

		pls, err := repo.PushPlaylist(ctx, usr.ID, first)
		require.NoError(t, err)
		require.Len(t, pls, 1)
		pls, err = repo.PushPlaylist(ctx, usr.ID, second)
		require.NoError(t, err)
		require.Len(t, pls, 2)
		assert.Equal(t, first.ID, pls[0].ID)
		assert.Equal(t, second.ID, pls[1].ID)
		assert.Nil(t, pls[0].Videos[1].ID)
		assert.Equal(t, "Databases", pls[0].Videos[1].Topic)
		assert.Equal(t, "aircAruvnKk", *pls[0].Videos[0].ID)

		_, err = repo.PushPlaylist(ctx, core.NewID(), first)
		assert.Equal(t, user.ErrNotFound, err)

		// update
		bookmarked := true
		pls, err = repo.UpdatePlaylist(ctx, usr.ID, second.ID, user.UpdatePlaylist{IsBookmarked: &bookmarked})
		require.NoError(t, err)
		assert.True(t, pls[1].IsBookmarked)
		assert.Equal(t, "Systems", pls[1].Title, "empty title left untouched")
		assert.False(t, pls[0].IsBookmarked)

		pls, err = repo.UpdatePlaylist(ctx, usr.ID, second.ID, user.UpdatePlaylist{Title: "Operating Systems"})
		require.NoError(t, err)
		assert.Equal(t, "Operating Systems", pls[1].Title)
		assert.True(t, pls[1].IsBookmarked, "absent bookmark left untouched")

		_, err = repo.UpdatePlaylist(ctx, usr.ID, core.NewID(), user.UpdatePlaylist{Title: "x"})
		assert.Equal(t, user.ErrPlaylistNotFound, err)
		_, err = repo.UpdatePlaylist(ctx, core.NewID(), second.ID, user.UpdatePlaylist{Title: "x"})
		assert.Equal(t, user.ErrNotFound, err)

		// remove
		pls, err = repo.PullPlaylist(ctx, usr.ID, "not-a-playlist")
		require.NoError(t, err)
		assert.Len(t, pls, 2, "unknown playlist is a no-op")

		pls, err = repo.PullPlaylist(ctx, usr.ID, first.ID)
		require.NoError(t, err)
		require.Len(t, pls, 1)
		assert.Equal(t, second.ID, pls[0].ID)

		pls, err = repo.PullPlaylist(ctx, usr.ID, second.ID)
		require.NoError(t, err)
		assert.NotNil(t, pls)
		assert.Empty(t, pls)

		_, err = repo.PullPlaylist(ctx, core.NewID(), second.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}

// RunContentRepositoryTests checks the behaviour shared by every content.Repository.
// reset must empty the store.
func RunContentRepositoryTests(t *testing.T, repo content.Repository, reset func(t *testing.T)) {
	ctx := context.Background()
	teacherID, otherID := core.NewID(), core.NewID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("create & get", func(t *testing.T) {
		reset(t)
		rec := CreateContent(t, repo, teacherID, "Graphs", content.StatusPublished, now)
		require.True(t, core.IsValidID(rec.ID))

		got, err := repo.GetContent(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.TeacherID, got.TeacherID)
		assert.Equal(t, rec.Generated, got.Generated)
		assert.Equal(t, content.StatusPublished, got.Status)
		assert.True(t, now.Equal(got.CreatedAt))

		_, err = repo.GetContent(ctx, core.NewID())
		assert.Equal(t, content.ErrNotFound, err)
	})

	t.Run("query", func(t *testing.T) {
		reset(t)
		old := CreateContent(t, repo, teacherID, "Old", content.StatusArchived, now.Add(-2*time.Hour))
		mid := CreateContent(t, repo, teacherID, "Mid", content.StatusPublished, now.Add(-time.Hour))
		recent := CreateContent(t, repo, teacherID, "Recent", content.StatusPublished, now)
		CreateContent(t, repo, otherID, "Foreign", content.StatusPublished, now)

		ids := func(recs []content.Record) []string {
			out := make([]string, 0, len(recs))
			for _, r := range recs {
				out = append(out, r.ID)
			}
			return out
		}

		recs, err := repo.QueryContents(ctx, content.QueryFilter{TeacherID: teacherID})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, mid.ID, old.ID}, ids(recs), "newest first")

		recs, err = repo.QueryContents(ctx, content.QueryFilter{TeacherID: teacherID, Status: content.StatusPublished})
		require.NoError(t, err)
		assert.Equal(t, []string{recent.ID, mid.ID}, ids(recs))

		recs, err = repo.QueryContents(ctx, content.QueryFilter{TeacherID: teacherID, Status: content.StatusDraft})
		require.NoError(t, err)
		assert.Empty(t, recs)

		recs, err = repo.QueryContents(ctx, content.QueryFilter{TeacherID: core.NewID()})
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("status & counters", func(t *testing.T) {
		reset(t)
		rec := CreateContent(t, repo, teacherID, "Trees", content.StatusPublished, now)
		later := now.Add(time.Minute)

		got, err := repo.UpdateContentStatus(ctx, rec.ID, content.StatusArchived, later)
		require.NoError(t, err)
		assert.Equal(t, content.StatusArchived, got.Status)
		assert.True(t, later.Equal(got.UpdatedAt))

		_, err = repo.IncrementContentCounter(ctx, rec.ID, content.CounterViews)
		require.NoError(t, err)
		got, err = repo.IncrementContentCounter(ctx, rec.ID, content.CounterViews)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Views)
		got, err = repo.IncrementContentCounter(ctx, rec.ID, content.CounterDownloads)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Downloads)
		assert.Equal(t, 2, got.Views)

		_, err = repo.UpdateContentStatus(ctx, core.NewID(), content.StatusDraft, later)
		assert.Equal(t, content.ErrNotFound, err)
		_, err = repo.IncrementContentCounter(ctx, core.NewID(), content.CounterViews)
		assert.Equal(t, content.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		reset(t)
		rec := CreateContent(t, repo, teacherID, "Heaps", content.StatusPublished, now)

		require.NoError(t, repo.DeleteContent(ctx, rec.ID))
		_, err := repo.GetContent(ctx, rec.ID)
		assert.Equal(t, content.ErrNotFound, err)
		assert.Equal(t, content.ErrNotFound, repo.DeleteContent(ctx, rec.ID))
	})
}

func strPtr(s string) *string { return &s }

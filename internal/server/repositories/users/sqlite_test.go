package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
	"github.com/dmitrijs2005/friendbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*PostgresRepository, *sql.DB) {
	t.Helper()
	db := testutil.NewUsersDB(t)
	return NewPostgresRepository(db), db
}

func mustCreate(t *testing.T, repo *PostgresRepository, email string) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &models.User{
		FirstName: "F", LastName: "L", Email: email, Password: "hash", Role: common.RoleUser, SecretCode: "S",
	})
	require.NoError(t, err)
	return id
}

func TestSQLite_CreateAndRead(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	id := mustCreate(t, repo, "a@x.com")
	assert.Equal(t, int64(1), id)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Empty(t, byID.Password)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, *byID, *byEmail)

	creds, err := repo.GetCredentials(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", creds.Password)

	_, err = repo.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestSQLite_DuplicateEmail(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	mustCreate(t, repo, "a@x.com")
	_, err := repo.Create(context.Background(), &models.User{
		FirstName: "F", LastName: "L", Email: "a@x.com", Password: "hash", Role: common.RoleUser, SecretCode: "S",
	})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLite_Updates(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, "a@x.com")

	require.NoError(t, repo.UpdateProfile(ctx, id, models.Profile{FirstName: "C", LastName: "D", SecretCode: "S2"}))
	require.NoError(t, repo.UpdatePassword(ctx, id, "hash2"))

	creds, err := repo.GetCredentials(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "C", creds.FirstName)
	assert.Equal(t, "D", creds.LastName)
	assert.Equal(t, "S2", creds.SecretCode)
	assert.Equal(t, "hash2", creds.Password)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, 99, "x"), common.ErrorNotFound)
	assert.ErrorIs(t, repo.UpdateProfile(ctx, 99, models.Profile{}), common.ErrorNotFound)
}

func TestSQLite_Exists(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	id := mustCreate(t, repo, "a@x.com")

	ok, err := repo.Exists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), id+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_ListNotFriends_ExcludesEdgesInBothDirections(t *testing.T) {
	repo, db := newSQLiteRepo(t)
	ctx := context.Background()

	var ids []int64
	for _, e := range []string{"u1@x.com", "u2@x.com", "u3@x.com", "u4@x.com", "u5@x.com"} {
		ids = append(ids, mustCreate(t, repo, e))
	}
	// u1-u2 stored as (1,2), u1-u3 stored as (3,1), u4-u5 unrelated to u1.
	edges := [][2]int64{{ids[0], ids[1]}, {ids[2], ids[0]}, {ids[3], ids[4]}}
	for _, e := range edges {
		testutil.AddFriends(t, db, e[0], e[1])
	}

	for _, u := range ids {
		got, err := repo.ListNotFriends(ctx, u)
		require.NoError(t, err)

		friends := map[int64]bool{}
		for _, e := range edges {
			if e[0] == u {
				friends[e[1]] = true
			}
			if e[1] == u {
				friends[e[0]] = true
			}
		}
		for _, candidate := range got {
			assert.Falsef(t, friends[candidate.ID], "user %d listed as non-friend of %d", candidate.ID, u)
		}
		assert.Len(t, got, len(ids)-len(friends))
	}

	got, err := repo.ListNotFriends(ctx, ids[0])
	require.NoError(t, err)
	var listed []int64
	for _, u := range got {
		listed = append(listed, u.ID)
	}
	assert.Equal(t, []int64{ids[0], ids[3], ids[4]}, listed)
}

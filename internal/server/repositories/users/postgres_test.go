package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var cols = []string{"id", "first_name", "last_name", "email", "role", "secret_code"}

const (
	qInsert      = `(?s)^INSERT\s+INTO\s+users\s*\(first_name,\s*last_name,\s*email,\s*password,\s*role,\s*secret_code\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id\s*$`
	qByID        = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email,\s*role,\s*secret_code\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	qByEmail     = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email,\s*role,\s*secret_code\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	qCredentials = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email,\s*role,\s*secret_code,\s*password\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	qPassword    = `(?s)^UPDATE\s+users\s+SET\s+password\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2\s*$`
	qProfile     = `(?s)^UPDATE\s+users\s+SET\s+first_name\s*=\s*\$1,\s*last_name\s*=\s*\$2,\s*secret_code\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$4\s*$`
	qExists      = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\)\s*$`
	qNotFriends  = `(?s)^SELECT\s+id,.*FROM\s+users\s+u\s+WHERE\s+NOT\s+EXISTS\s*\(.*FROM\s+friends\s+f.*f\.user1\s*=\s*u\.id\s+AND\s+f\.user2\s*=\s*\$1.*f\.user2\s*=\s*u\.id\s+AND\s+f\.user1\s*=\s*\$1.*ORDER\s+BY\s+u\.id\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsert).
		WithArgs("A", "B", "a@x.com", "$2a$hash", "user", "S1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	u := &models.User{FirstName: "A", LastName: "B", Email: "a@x.com", Password: "$2a$hash", Role: "user", SecretCode: "S1"}
	id, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 1 {
		t.Fatalf("unexpected id: %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsert).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@x.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qInsert).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "a@x.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if !errors.Is(err, common.ErrorStore) {
		t.Fatalf("expected common.ErrorStore, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qByID).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(7), "A", "B", "a@x.com", "user", "S1"))

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	want := &models.User{ID: 7, FirstName: "A", LastName: "B", Email: "a@x.com", Role: "user", SecretCode: "S1"}
	if *got != *want {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qByID).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_FoundWithoutPassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qByEmail).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), "A", "B", "a@x.com", "user", "S1"))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 1 || got.Password != "" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qByEmail).WithArgs("a@x.com").WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	if !errors.Is(err, common.ErrorStore) || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected store error distinct from not found, got %v", err)
	}
}

func TestGetCredentials_IncludesHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qCredentials).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(append(cols, "password")).
			AddRow(int64(1), "A", "B", "a@x.com", "user", "S1", "$2a$hash"))

	got, err := repo.GetCredentials(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetCredentials error: %v", err)
	}
	if got.Password != "$2a$hash" {
		t.Fatalf("expected hash, got %+v", got)
	}
}

func TestUpdatePassword(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		execErr error
		wantErr error
	}{
		{name: "updated", rows: 1},
		{name: "unknown id", rows: 0, wantErr: common.ErrorNotFound},
		{name: "db error", execErr: errors.New("db err"), wantErr: common.ErrorStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(qPassword).WithArgs("$2a$new", int64(3))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.rows))
			}

			err := repo.UpdatePassword(context.Background(), 3, "$2a$new")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qProfile).
		WithArgs("C", "D", "S2", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), 1, models.Profile{FirstName: "C", LastName: "D", SecretCode: "S2"})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
}

func TestUpdateProfile_RowsAffectedError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(qProfile).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("no rows info")))

	err := repo.UpdateProfile(context.Background(), 1, models.Profile{FirstName: "C", LastName: "D", SecretCode: "S2"})
	if !errors.Is(err, common.ErrorStore) {
		t.Fatalf("want common.ErrorStore, got %v", err)
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qExists).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(qExists).WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(qExists).WithArgs(int64(3)).WillReturnError(errors.New("db err"))

	ok, err := repo.Exists(context.Background(), 1)
	if err != nil || !ok {
		t.Fatalf("Exists(1) = %v, %v", ok, err)
	}
	ok, err = repo.Exists(context.Background(), 2)
	if err != nil || ok {
		t.Fatalf("Exists(2) = %v, %v", ok, err)
	}
	if _, err = repo.Exists(context.Background(), 3); !errors.Is(err, common.ErrorStore) {
		t.Fatalf("Exists(3) want common.ErrorStore, got %v", err)
	}
}

func TestListNotFriends_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qNotFriends).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "A", "B", "a@x.com", "user", "S1").
			AddRow(int64(4), "E", "F", "e@x.com", "admin", "S4"))

	got, err := repo.ListNotFriends(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListNotFriends error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 4 || got[1].Role != "admin" {
		t.Fatalf("unexpected users: %+v", got)
	}
}

func TestListNotFriends_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qNotFriends).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.ListNotFriends(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListNotFriends error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListNotFriends_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qNotFriends).WithArgs(int64(1)).WillReturnError(errors.New("db err"))
	if _, err := repo.ListNotFriends(context.Background(), 1); !errors.Is(err, common.ErrorStore) {
		t.Fatalf("query error: want common.ErrorStore, got %v", err)
	}

	mock.ExpectQuery(qNotFriends).WithArgs(int64(1)).WillReturnRows(
		sqlmock.NewRows(cols).
			AddRow(int64(1), "A", "B", "a@x.com", "user", "S1").
			RowError(0, errors.New("broken row")))
	if _, err := repo.ListNotFriends(context.Background(), 1); !errors.Is(err, common.ErrorStore) {
		t.Fatalf("row error: want common.ErrorStore, got %v", err)
	}
}

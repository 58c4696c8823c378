// Package services contains the server-side business logic. UserService owns
// password hashing, input validation and token issuing on top of the users
// repository.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendbook/internal/common"
	"github.com/dmitrijs2005/friendbook/internal/cryptox"
	"github.com/dmitrijs2005/friendbook/internal/dbx"
	"github.com/dmitrijs2005/friendbook/internal/server/auth"
	"github.com/dmitrijs2005/friendbook/internal/server/config"
	"github.com/dmitrijs2005/friendbook/internal/server/models"
	"github.com/dmitrijs2005/friendbook/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

// UserService implements the user account operations: registration,
// credential checks, password change and recovery, profile update and the
// lookups used by the transport.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      cryptox.PasswordHasher
	validate                    *validator.Validate
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.PasswordHasher, cfg *config.Config) *UserService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      hasher,
		validate:                    v,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// CheckEmailPassword returns the user owning email when password matches the
// stored hash. Unknown email and wrong password both yield
// common.ErrorInvalidCredentials; store failures are returned as such.
func (s *UserService) CheckEmailPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetCredentials(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time of unknown emails close to known ones
			_ = s.hasher.Compare(s.fakeHash(), password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: user %d: %w", common.ErrorInternal, user.ID, err)
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) fakeHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("friendbook-placeholder")
	})
	return s.dummyHash
}

// RegisterUser validates candidate, stores it with a freshly hashed password
// and returns the stored record re-read by id. candidate is not modified.
func (s *UserService) RegisterUser(ctx context.Context, candidate *models.User) (*models.User, error) {
	if candidate == nil {
		return nil, common.NewValidationError()
	}

	u := *candidate
	u.ID = 0
	u.Email = common.NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = common.RoleUser
	}

	if err := s.validateStruct(&u); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(u.Password)
	if err != nil {
		return nil, err
	}
	u.Password = hash

	var created *models.User
	err = s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		id, err := repo.Create(ctx, &u)
		if err != nil {
			return err
		}

		created, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	created.Password = ""
	return created, nil
}

// ChangePassword replaces the stored hash for id and returns the confirmation
// message shown to the user.
func (s *UserService) ChangePassword(ctx context.Context, id int64, newPassword string) (string, error) {
	if newPassword == "" {
		return "", common.NewValidationError("password")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return "", err
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, id, hash); err != nil {
		return "", err
	}
	return common.PasswordUpdatedMessage, nil
}

// RecoverPassword sets a new password for the account owning email when
// secretCode matches the account's recovery code.
func (s *UserService) RecoverPassword(ctx context.Context, email, secretCode, newPassword string) (string, error) {
	if newPassword == "" {
		return "", common.NewValidationError("password")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidCredentials
		}
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(user.SecretCode), []byte(secretCode)) != 1 {
		return "", common.ErrorInvalidCredentials
	}

	return s.ChangePassword(ctx, user.ID, newPassword)
}

// Update overwrites the profile fields of id and returns the refreshed
// record. Any empty field fails validation before the store is touched.
func (s *UserService) Update(ctx context.Context, profile models.Profile, id int64) (*models.User, error) {
	if err := s.validateStruct(&profile); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if err := repo.UpdateProfile(ctx, id, profile); err != nil {
			return err
		}

		var err error
		updated, err = repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, common.NormalizeEmail(email))
}

func (s *UserService) GetOneAccountByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// CheckUserExist reports whether an account with id exists.
func (s *UserService) CheckUserExist(ctx context.Context, id int64) (bool, error) {
	return s.repomanager.Users(s.db).Exists(ctx, id)
}

// GetAllUsersNotFriends lists every user without a friendship edge to id,
// ordered by id. The list includes id itself.
func (s *UserService) GetAllUsersNotFriends(ctx context.Context, id int64) ([]models.User, error) {
	return s.repomanager.Users(s.db).ListNotFriends(ctx, id)
}

// Login checks credentials and issues an access token for the user.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.CheckEmailPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.accessTokenValidityDuration)
	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// hashPassword reports an over-long password as a validation error; any
// other hashing failure is internal.
func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return "", common.NewValidationError("password")
		}
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return hash, nil
}

// validateStruct runs the struct tags of v and turns failures into a
// *common.ValidationError naming the json fields.
func (s *UserService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return common.NewValidationError(fields...)
}

// withTx runs fn in a transaction. Failures to begin or commit are reported
// as store errors; errors returned by fn pass through unchanged.
func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	var fnErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fnErr = fn(ctx, tx)
		return fnErr
	})
	if err == nil || (fnErr != nil && errors.Is(err, fnErr)) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorStore, err)
}

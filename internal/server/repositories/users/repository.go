package users

import (
	"context"

	"github.com/dmitrijs2005/friendbook/internal/server/models"
)

// Repository is the data-access contract for the users table.
// Read methods never populate User.Password except GetCredentials.
type Repository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetCredentials(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, profile models.Profile) error
	Exists(ctx context.Context, id int64) (bool, error)
	ListNotFriends(ctx context.Context, userID int64) ([]models.User, error)
}

package users

import (
	"context"

	"github.com/dmitrijs2005/seniko/internal/server/models"
)

// Repository is the credential store: lookup by email and insert. There is
// deliberately no update or delete.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

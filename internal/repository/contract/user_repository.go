package contract

import (
	"context"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type LoginTokenRepository interface {
	Create(ctx context.Context, token *entity.LoginToken) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoginToken, error)
	MarkConsumed(ctx context.Context, id uuid.UUID) error
}

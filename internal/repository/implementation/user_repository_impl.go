package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/mapper"
	"github.com/gecBurton/dosac/internal/model"
	"github.com/gecBurton/dosac/internal/repository/contract"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

type LoginTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LoginTokenMapper
}

func NewLoginTokenRepository(db *gorm.DB) contract.LoginTokenRepository {
	return &LoginTokenRepositoryImpl{
		db:     db,
		mapper: mapper.NewLoginTokenMapper(),
	}
}

func (r *LoginTokenRepositoryImpl) Create(ctx context.Context, token *entity.LoginToken) error {
	m := r.mapper.ToModel(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.ToEntity(m)
	return nil
}

func (r *LoginTokenRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoginToken, error) {
	var m model.LoginToken
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LoginTokenRepositoryImpl) MarkConsumed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.LoginToken{}).
		Where("id = ?", id).
		Update("consumed_at", time.Now()).Error
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

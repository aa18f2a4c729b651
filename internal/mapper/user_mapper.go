package mapper

import (
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	return &model.User{
		Id:        e.Id,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *UserMapper) ToEntity(mo *model.User) *entity.User {
	return &entity.User{
		Id:        mo.Id,
		Email:     mo.Email,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}

type LoginTokenMapper struct{}

func NewLoginTokenMapper() *LoginTokenMapper {
	return &LoginTokenMapper{}
}

func (m *LoginTokenMapper) ToModel(e *entity.LoginToken) *model.LoginToken {
	return &model.LoginToken{
		Id:         e.Id,
		UserId:     e.UserId,
		SecretHash: e.SecretHash,
		ExpiresAt:  e.ExpiresAt,
		ConsumedAt: e.ConsumedAt,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *LoginTokenMapper) ToEntity(mo *model.LoginToken) *entity.LoginToken {
	return &entity.LoginToken{
		Id:         mo.Id,
		UserId:     mo.UserId,
		SecretHash: mo.SecretHash,
		ExpiresAt:  mo.ExpiresAt,
		ConsumedAt: mo.ConsumedAt,
		CreatedAt:  mo.CreatedAt,
	}
}

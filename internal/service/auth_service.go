package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gecBurton/dosac/internal/config"
	"github.com/gecBurton/dosac/internal/dto"
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/pkg/mailer"
	"github.com/gecBurton/dosac/internal/pkg/serverutils"
	"github.com/gecBurton/dosac/internal/repository/specification"
	"github.com/gecBurton/dosac/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	// RequestLogin emails a one-time sign-in link. Unknown addresses get an
	// account created on the spot; the response is identical either way so
	// the endpoint cannot be used to probe for registered emails.
	RequestLogin(ctx context.Context, req *dto.RequestLoginRequest) error

	// VerifyLogin consumes a magic-link token and returns a session JWT.
	VerifyLogin(ctx context.Context, req *dto.VerifyLoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	cfg          *config.Config
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, cfg *config.Config) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		cfg:          cfg,
	}
}

func (s *authService) RequestLogin(ctx context.Context, req *dto.RequestLoginRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		user = &entity.User{
			Id:        uuid.New(),
			Email:     email,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return err
		}
	}

	// The secret travels only in the email; the database sees its hash.
	secret := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token := &entity.LoginToken{
		Id:         uuid.New(),
		UserId:     user.Id,
		SecretHash: string(hash),
		ExpiresAt:  time.Now().Add(time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute),
		CreatedAt:  time.Now(),
	}
	if err := uow.LoginTokenRepository().Create(ctx, token); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/login?token=%s.%s", s.cfg.App.ClientURL, token.Id, secret)
	go func() {
		if emailErr := s.emailService.SendMagicLink(user.Email, link); emailErr != nil {
			fmt.Printf("Error sending magic link email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *authService) VerifyLogin(ctx context.Context, req *dto.VerifyLoginRequest) (*dto.LoginResponse, error) {
	tokenId, secret, found := strings.Cut(req.Token, ".")
	if !found {
		return nil, serverutils.NewUnauthorized("invalid login token")
	}
	id, err := uuid.Parse(tokenId)
	if err != nil {
		return nil, serverutils.NewUnauthorized("invalid login token")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	token, err := uow.LoginTokenRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if token == nil || token.ConsumedAt != nil || time.Now().After(token.ExpiresAt) {
		return nil, serverutils.NewUnauthorized("invalid or expired login token")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(token.SecretHash), []byte(secret)); err != nil {
		return nil, serverutils.NewUnauthorized("invalid login token")
	}

	if err := uow.LoginTokenRepository().MarkConsumed(ctx, token.Id); err != nil {
		return nil, err
	}

	accessToken, err := s.issueJWT(token.UserId)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{AccessToken: accessToken}, nil
}

func (s *authService) issueJWT(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

package controller

import (
	"github.com/gecBurton/dosac/internal/dto"
	"github.com/gecBurton/dosac/internal/pkg/serverutils"
	"github.com/gecBurton/dosac/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	RequestLogin(ctx *fiber.Ctx) error
	VerifyLogin(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/login", c.RequestLogin)
	h.Post("/verify", c.VerifyLogin)
}

func (c *authController) RequestLogin(ctx *fiber.Ctx) error {
	var req dto.RequestLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RequestLogin(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("If the address exists, a sign-in link has been sent", nil))
}

func (c *authController) VerifyLogin(ctx *fiber.Ctx) error {
	var req dto.VerifyLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.VerifyLogin(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

package server

import (
	"log"

	"github.com/gecBurton/dosac/internal/bootstrap"
	"github.com/gecBurton/dosac/internal/config"
	"github.com/gecBurton/dosac/internal/pkg/serverutils"
	ws "github.com/gecBurton/dosac/internal/websocket"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // uploaded documents can be large
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Static("/uploads", "./uploads")

	registerRoutes(app, container)
	registerWebsockets(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
}

func registerWebsockets(app *fiber.App, c *bootstrap.Container) {
	// Browsers cannot set headers on websocket upgrades, so the JWT rides
	// the query string and is checked before the upgrade.
	wsGroup := app.Group("/ws", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		userIDStr, ok := serverutils.UserIDFromToken(ctx.Query("token"))
		if !ok {
			return fiber.ErrUnauthorized
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		ctx.Locals("ws_user_id", userID)
		return ctx.Next()
	})

	wsGroup.Get("/chat/:id", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Locals("ws_user_id").(uuid.UUID)
		chatID, err := uuid.Parse(conn.Params("id"))
		if err != nil {
			conn.Close()
			return
		}
		ws.ServeChat(c.ChatService, c.Logger, conn, userID, chatID)
	}))

	wsGroup.Get("/notifications", websocket.New(func(conn *websocket.Conn) {
		userID := conn.Locals("ws_user_id").(uuid.UUID)
		ws.ServeNotifications(c.WebSocketHub, conn, userID)
	}))
}

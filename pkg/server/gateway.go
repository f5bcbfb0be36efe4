package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/promptguard/promptgate/pkg/config"
	handlers "github.com/promptguard/promptgate/pkg/handlers/http"
	"github.com/promptguard/promptgate/pkg/middleware"
	"github.com/sirupsen/logrus"
)

type (
	GatewayServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	GatewayServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewGatewayServer(di GatewayServerDI) *GatewayServer {
	return &GatewayServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *GatewayServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting gateway server")
	return s.Router.Listen(addr)
}

func (s *GatewayServer) Shutdown() error {
	return s.Router.Shutdown()
}

func (s *GatewayServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.RequestIDMiddleware.Middleware())

	s.Router.Post("/check_prompt_similarity", s.handlerTransport.CheckPromptSimilarityHandler.Handle)

	v1 := s.Router.Group("/api/v1")
	{
		v1.Get("/version", s.handlerTransport.GetVersionHandler.Handle)
	}

	s.Router.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}

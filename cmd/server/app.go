// File: cmd/server/app.go
package main

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatrelay/internal/auth"
	"github.com/iyunix/go-chatrelay/internal/config"
	"github.com/iyunix/go-chatrelay/internal/handlers"
	"github.com/iyunix/go-chatrelay/internal/ratelimit"
	"github.com/iyunix/go-chatrelay/internal/repository/chat"
	"github.com/iyunix/go-chatrelay/internal/repository/message"
	"github.com/iyunix/go-chatrelay/internal/services"
	"github.com/iyunix/go-chatrelay/internal/services/delivery"
)

// Application aggregates the long-lived collaborators built at startup.
type Application struct {
	Config         *config.Config
	Logger         *logrus.Entry
	Validator      *auth.Validator
	Limiter        *ratelimit.MemoryRateLimiter
	Hub            *delivery.Hub
	Publisher      delivery.Publisher
	ChatService    *services.ChatService
	MessageService *services.MessageService
	Handler        http.Handler
}

// Close releases background resources. The database is closed by the caller.
func (a *Application) Close() {
	a.Hub.Close()
	a.Limiter.Close()
}

func ProvideLimiter(cfg *config.Config) *ratelimit.MemoryRateLimiter {
	limits := ratelimit.DefaultAuthConfig()
	limits.MaxAttempts = cfg.AuthMaxFailures
	limits.WindowSize = cfg.AuthFailureWindow
	limits.BanDuration = cfg.AuthBanDuration
	return ratelimit.NewMemoryRateLimiter(limits)
}

// ProvidePublisher always includes the websocket hub and adds Pusher when
// credentials are configured.
func ProvidePublisher(cfg *config.Config, hub *delivery.Hub, logger logrus.FieldLogger) (delivery.Publisher, error) {
	if !cfg.PusherEnabled() {
		logger.Warn("Pusher credentials not set; delivering to websocket subscribers only")
		return hub, nil
	}
	pusherPublisher, err := delivery.NewPusherPublisher(delivery.PusherConfig{
		AppID:   cfg.PusherAppID,
		Key:     cfg.PusherKey,
		Secret:  cfg.PusherSecret,
		Cluster: cfg.PusherCluster,
		Secure:  cfg.PusherSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("pusher publisher: %w", err)
	}
	return delivery.Multi{pusherPublisher, hub}, nil
}

// InitializeApplication wires repositories, services and the HTTP surface.
func InitializeApplication(cfg *config.Config, logger *logrus.Entry, db *gorm.DB) (*Application, error) {
	validator, err := auth.NewValidator(cfg.JWTSecretKey, cfg.JWTAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("token validator: %w", err)
	}

	hub := delivery.NewHub(cfg.AllowedOrigins, logger)
	publisher, err := ProvidePublisher(cfg, hub, logger)
	if err != nil {
		return nil, err
	}

	chatService, err := services.NewChatService(chat.NewChatRepository(db, logger), logger)
	if err != nil {
		return nil, err
	}
	messageService, err := services.NewMessageService(message.NewMessageRepository(db, logger), publisher, logger)
	if err != nil {
		return nil, err
	}

	clientIPs, err := ratelimit.NewIPResolver(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	limiter := ProvideLimiter(cfg)
	app := &Application{
		Config:         cfg,
		Logger:         logger,
		Validator:      validator,
		Limiter:        limiter,
		Hub:            hub,
		Publisher:      publisher,
		ChatService:    chatService,
		MessageService: messageService,
	}
	app.Handler = handlers.NewRouter(handlers.RouterDeps{
		Validator:      validator,
		Limiter:        limiter,
		ClientIPs:      clientIPs,
		ChatService:    chatService,
		MessageService: messageService,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	return app, nil
}

package main

import (
	"fmt"
	"os"

	"envelopes/internal/auth"
	"envelopes/internal/config"
	"envelopes/internal/database"
	"envelopes/internal/expand"
	"envelopes/internal/handlers"
	"envelopes/internal/logger"
	"envelopes/internal/repository"
	"envelopes/internal/services"
	"envelopes/internal/store"
	"envelopes/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	client := store.NewSQLStore(dbManager.DB())
	if dbManager.Driver() == "sqlite" {
		if err := client.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	users := repository.NewUsers(client)
	envelopes := repository.NewEnvelopes(client)
	expenses := repository.NewExpenses(client)
	expander := expand.New(expenses)

	userService := services.NewUserService(users, envelopes, expenses, expander)
	envelopeService := services.NewEnvelopeService(envelopes, expenses, expander)
	expenseService := services.NewExpenseService(expenses)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpirationDur)

	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	envelopeHandler := handlers.NewEnvelopeHandler(envelopeService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	validator.Register()
	router := handlers.NewRouter(tokens, authHandler, userHandler, envelopeHandler, expenseHandler)

	log.Infof("Starting envelopes API server on port %s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

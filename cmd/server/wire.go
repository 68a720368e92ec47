// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"charity_marketplace_backend/internal/app"
	"charity_marketplace_backend/internal/auth"
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/donation"
	"charity_marketplace_backend/internal/filestorage"
	"charity_marketplace_backend/internal/jobs"
	"charity_marketplace_backend/internal/notification"
	"charity_marketplace_backend/internal/product"
	"charity_marketplace_backend/internal/shared"
	"charity_marketplace_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var platformSet = wire.NewSet(
	provideDatabase,
	app.NewMetrics,
	provideFileStorage,
	wire.Bind(new(product.ImageStore), new(*filestorage.FileStorageService)),
)

var authSet = wire.NewSet(
	auth.NewInMemoryBlocklistService,
	wire.Bind(new(auth.TokenBlocklistService), new(*auth.InMemoryBlocklistService)),
	auth.NewJWTService,
	wire.Bind(new(shared.TokenService), new(*auth.JWTService)),
	wire.Bind(new(shared.TokenVerifier), new(*auth.JWTService)),
)

var domainSet = wire.NewSet(
	user.NewGORMRepository,
	user.NewService,
	wire.Bind(new(user.Service), new(*user.ServiceImplementation)),

	notification.NewGORMRepository,
	notification.NewService,
	wire.Bind(new(notification.Service), new(*notification.ServiceImplementation)),

	product.NewGORMRepository,
	product.NewService,
	wire.Bind(new(product.Service), new(*product.ServiceImplementation)),
	wire.Bind(new(jobs.ProductExpirer), new(*product.ServiceImplementation)),

	donation.NewGORMRepository,
	donation.NewService,
	wire.Bind(new(donation.Service), new(*donation.ServiceImplementation)),

	jobs.NewProductExpiryJob,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config, logger *zap.Logger) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		authSet,
		domainSet,

		auth.NewHandler,
		user.NewHandler,
		product.NewHandler,
		donation.NewHandler,
		notification.NewHandler,

		app.NewAuthRateLimiter,
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeProductExpiryJob wires the expiry job alone for one-off runs.
func initializeProductExpiryJob(cfg *config.Config, logger *zap.Logger) (*jobs.ProductExpiryJob, func(), error) {
	wire.Build(
		provideDatabase,
		app.NewMetrics,
		provideFileStorage,
		wire.Bind(new(product.ImageStore), new(*filestorage.FileStorageService)),
		notification.NewGORMRepository,
		notification.NewService,
		wire.Bind(new(notification.Service), new(*notification.ServiceImplementation)),
		product.NewGORMRepository,
		product.NewService,
		wire.Bind(new(jobs.ProductExpirer), new(*product.ServiceImplementation)),
		jobs.NewProductExpiryJob,
	)
	return nil, nil, nil
}

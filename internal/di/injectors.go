//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"trustive/internal"
	"trustive/internal/controllers"
	"trustive/internal/providers"
	"trustive/internal/services"
	"trustive/internal/storage"
	"trustive/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewTokenProvider,

		storage.NewZstdCompressor,
		storage.NewStorageProvider,
		storage.NewScheduler,

		services.ProvideSeed,
		services.NewReviewRateLimiter,
		services.NewDirectoryService,
		wire.Bind(new(services.DirectoryServiceInterface), new(*services.DirectoryService)),
		wire.Bind(new(providers.DirectoryStats), new(*services.DirectoryService)),
		services.NewAccountService,
		services.NewSessionService,
		services.NewProfileService,

		controllers.NewDirectoryController,
		controllers.NewAuthController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

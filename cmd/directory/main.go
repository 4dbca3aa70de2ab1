package main

import (
	"campusalloc/internal/directory/handler"
	"campusalloc/internal/directory/repository"
	"campusalloc/internal/directory/service"
	"campusalloc/internal/directory/validator"
	"campusalloc/pkg/app"
	"campusalloc/pkg/config"
)

const ServiceName = "directory"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Directory service")
	directoryService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewDirectoryHandler(directoryService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.DirectoryService {
	directoryValidator := validator.NewDirectoryValidator(cfg.Log)
	userRepo := repository.NewMongoUserRepository(cfg)
	resourceRepo := repository.NewMongoResourceRepository(cfg)
	directoryService := service.NewDirectoryService(
		userRepo,
		resourceRepo,
		directoryValidator,
		cfg,
	)

	cfg.Log.Info("Directory service initialized", "database", cfg.MongoDatabaseName)
	return directoryService
}

package main

import (
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/filestorage"
	"charity_marketplace_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db, logger) }, nil
}

func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.ImageStoragePath, logger)
}

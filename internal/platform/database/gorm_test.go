package database

import (
	"path/filepath"
	"testing"

	"charity_marketplace_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type widget struct {
	ID   uint
	Name string
}

func TestNewGORM_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "test.db"),
		LogLevel:     "error",
	}

	db, err := NewGORM(cfg, zap.NewNop())
	require.NoError(t, err)
	defer CloseGORMDB(db, zap.NewNop())

	require.NoError(t, AutoMigrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "mug"}).Error)

	var got widget
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "mug", got.Name)
}

func TestNewSQLite_InMemory(t *testing.T) {
	db, err := NewSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db, &widget{}))
	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p",
		DBName: "charity", DBSSLMode: "disable", DBTimezone: "UTC",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=charity sslmode=disable TimeZone=UTC", PostgresDSN(cfg))
}

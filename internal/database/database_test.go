package database

import (
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/config"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	err = configurePool(db, cfg)
	assert.NoError(t, err)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NotNil(t, sqlDB)
}

func TestOpenDialector(t *testing.T) {
	pg := openDialector(&config.Config{DatabaseURL: "postgres://u:p@localhost:5432/portfolio"})
	assert.Equal(t, "postgres", pg.Name())

	lite := openDialector(&config.Config{SQLitePath: "portfolio.db"})
	assert.Equal(t, "sqlite", lite.Name())
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantSQL   bool
		wantAuto  bool
		wantError bool
	}{
		{"Hybrid in development", &config.Config{DBSchemaMode: "hybrid", Env: "development"}, true, true, false},
		{"Hybrid in production", &config.Config{DBSchemaMode: "hybrid", Env: "production"}, true, false, false},
		{"Default mode is hybrid", &config.Config{Env: "test"}, true, true, false},
		{"SQL only", &config.Config{DBSchemaMode: "sql", Env: "development"}, true, false, false},
		{"Auto in development", &config.Config{DBSchemaMode: "auto", Env: "development"}, false, true, false},
		{"Auto refused in production", &config.Config{DBSchemaMode: "auto", Env: "production"}, false, false, true},
		{"Auto allowed in production with override", &config.Config{DBSchemaMode: "auto", Env: "production", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"Unknown mode", &config.Config{DBSchemaMode: "bogus", Env: "development"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(tt.cfg)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

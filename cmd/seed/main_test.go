package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldhelptext.io/fieldhelptext/internal/config"
	"fieldhelptext.io/fieldhelptext/internal/domain"
	"fieldhelptext.io/fieldhelptext/internal/infrastructure"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/repository"
)

func init() {
	_ = logger.Init("error", "json")
}

const seedCatalogYAML = `
entity_types:
  - id: node
    label: Content
    fieldable: true
    field_storage:
      - {name: field_summary, type: text_long}
    bundles:
      - id: article
        label: Article
        fields:
          - {name: field_summary, label: Summary, description: Shown in teasers.}
`

func seedConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(seedCatalogYAML), 0o600))
	return &config.Config{
		Catalog: config.CatalogConfig{Path: catalog},
		Storage: config.StorageConfig{Driver: config.DriverSQLite},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(dir, "helptext.db")},
	}
}

func TestSeed_InsertsCatalogConfigs(t *testing.T) {
	cfg := seedConfig(t)
	require.NoError(t, seed(context.Background(), cfg))

	db, err := infrastructure.OpenSQLite(context.Background(), cfg.SQLite)
	require.NoError(t, err)
	store, err := repository.NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(context.Background(), domain.InstanceKey{
		EntityType: "node", Bundle: "article", FieldName: "field_summary",
	})
	require.NoError(t, err)
	assert.Equal(t, "Summary", got.Label)
	assert.Equal(t, "Shown in teasers.", got.Description)
}

func TestSeed_IsIdempotent(t *testing.T) {
	cfg := seedConfig(t)
	require.NoError(t, seed(context.Background(), cfg))
	require.NoError(t, seed(context.Background(), cfg))
}

func TestSeed_RejectsMemoryDriver(t *testing.T) {
	cfg := seedConfig(t)
	cfg.Storage.Driver = config.DriverMemory

	err := seed(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not persist")
}

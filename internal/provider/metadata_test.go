package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/repository"
)

func newTestCatalogProvider(t *testing.T) (*CatalogProvider, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewCatalogProvider(mustParseCatalog(t), store), store
}

func TestCatalogProvider_EntityTypes(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestCatalogProvider(t)

	types, err := p.FieldableEntityTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "node", types[0].ID)
	assert.Equal(t, "user", types[1].ID)

	et, err := p.EntityType(ctx, "path_alias")
	require.NoError(t, err)
	assert.False(t, et.Fieldable)

	_, err = p.EntityType(ctx, "comment")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogProvider_BundlesAndBaseFields(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestCatalogProvider(t)

	bundles, err := p.Bundles(ctx, "node")
	require.NoError(t, err)
	assert.Equal(t, []domain.Bundle{
		{ID: "article", Label: "Article"},
		{ID: "page", Label: "Basic page"},
		{ID: "feature", Label: "Feature"},
	}, bundles)

	base, err := p.BaseFields(ctx, "node")
	require.NoError(t, err)
	require.Len(t, base, 2)
	assert.True(t, base["title"].Base)

	_, err = p.Bundles(ctx, "comment")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogProvider_FieldDefinitions(t *testing.T) {
	ctx := context.Background()
	p, store := newTestCatalogProvider(t)

	edited := domain.FieldInstanceConfig{
		EntityType: "node", Bundle: "article", FieldName: "field_tags",
		Label: "Topics", Description: "Pick topics.",
	}
	require.NoError(t, store.Save(ctx, &edited))

	defs, err := p.FieldDefinitions(ctx, "node", "article")
	require.NoError(t, err)
	require.Len(t, defs, 4)
	assert.Equal(t, "title", defs[0].Name)
	assert.True(t, defs[0].Base)
	assert.Equal(t, domain.FieldDefinition{
		Name: "field_summary", Type: "text_long", Label: "Summary", Description: "Shown in <em>teasers</em>.",
	}, defs[2])
	assert.Equal(t, "Topics", defs[3].Label)
	assert.Equal(t, "entity_reference", defs[3].Type)

	defs, err = p.FieldDefinitions(ctx, "node", "page")
	require.NoError(t, err)
	assert.Len(t, defs, 2)

	_, err = p.FieldDefinitions(ctx, "node", "draft")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogProvider_FieldStorageDefinitions(t *testing.T) {
	p, _ := newTestCatalogProvider(t)

	storage, err := p.FieldStorageDefinitions(context.Background(), "node")
	require.NoError(t, err)
	assert.Contains(t, storage, "field_summary")
	assert.NotContains(t, storage, "title")
}

func TestCatalogProvider_FieldMap(t *testing.T) {
	p, _ := newTestCatalogProvider(t)

	fm, err := p.FieldMap(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, fm, "path_alias")
	assert.Equal(t, domain.FieldMapEntry{Type: "text_long", Bundles: []string{"article", "feature"}}, fm["node"]["field_summary"])
	assert.Equal(t, []string{"article", "page", "feature"}, fm.Bundles("node", "title"))
	assert.Equal(t, []string{"user"}, fm.Bundles("user", "name"))
}

func TestCatalogProvider_FieldInstanceConfig(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestCatalogProvider(t)

	cfg, err := p.FieldInstanceConfig(ctx, "node", "feature", "field_summary")
	require.NoError(t, err)
	assert.Equal(t, "Feature summary", cfg.Label)
	assert.Empty(t, cfg.Description)

	cfg.SetDescription("Lead paragraph.")
	require.NoError(t, p.SaveFieldInstanceConfig(ctx, cfg))

	again, err := p.FieldInstanceConfig(ctx, "node", "feature", "field_summary")
	require.NoError(t, err)
	assert.Equal(t, "Lead paragraph.", again.Description)

	_, err = p.FieldInstanceConfig(ctx, "node", "page", "field_summary")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = p.FieldInstanceConfig(ctx, "node", "article", "title")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogProvider_SaveRejectsUndeclaredInstance(t *testing.T) {
	p, store := newTestCatalogProvider(t)

	err := p.SaveFieldInstanceConfig(context.Background(), &domain.FieldInstanceConfig{
		EntityType: "node", Bundle: "page", FieldName: "field_summary",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, store.SaveCount())
}

type failingStore struct {
	repository.FieldConfigStore
	err error
}

func (s failingStore) Get(context.Context, domain.InstanceKey) (*domain.FieldInstanceConfig, error) {
	return nil, s.err
}

func TestCatalogProvider_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	p := NewCatalogProvider(mustParseCatalog(t), failingStore{FieldConfigStore: repository.NewMemoryStore(), err: boom})

	_, err := p.FieldInstanceConfig(context.Background(), "node", "article", "field_summary")
	require.ErrorIs(t, err, boom)

	_, err = p.FieldDefinitions(context.Background(), "node", "article")
	require.ErrorIs(t, err, boom)
}

func TestCatalogProvider_DefaultFormDisplay(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestCatalogProvider(t)

	weights, err := p.DefaultFormDisplay(ctx, "node", "article")
	require.NoError(t, err)
	assert.Equal(t, 1, weights["field_tags"])

	weights["field_tags"] = 100
	again, err := p.DefaultFormDisplay(ctx, "node", "article")
	require.NoError(t, err)
	assert.Equal(t, 1, again["field_tags"])

	_, err = p.DefaultFormDisplay(ctx, "node", "page")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

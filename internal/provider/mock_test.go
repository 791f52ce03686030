package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

func TestMockProvider_FieldMapIncludesNonFieldable(t *testing.T) {
	p := NewMockProvider()
	p.AddEntityType(domain.EntityType{ID: "path_alias"})
	p.AddBundle("path_alias", domain.Bundle{ID: "path_alias"}, domain.FieldDefinition{Name: "field_x", Type: "string"})

	types, err := p.FieldableEntityTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types)

	fm, err := p.FieldMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"path_alias"}, fm.Bundles("path_alias", "field_x"))
}

func TestMockProvider_SaveFailures(t *testing.T) {
	ctx := context.Background()
	p := NewMockProvider()
	p.AddEntityType(domain.EntityType{ID: "node", Fieldable: true})
	p.AddBundle("node", domain.Bundle{ID: "article"},
		domain.FieldDefinition{Name: "field_a", Type: "string"},
		domain.FieldDefinition{Name: "field_b", Type: "string"},
	)
	boom := errors.New("disk full")
	p.FailSavesAfter(1, boom)

	a, err := p.FieldInstanceConfig(ctx, "node", "article", "field_a")
	require.NoError(t, err)
	require.NoError(t, p.SaveFieldInstanceConfig(ctx, a))

	b, err := p.FieldInstanceConfig(ctx, "node", "article", "field_b")
	require.NoError(t, err)
	require.ErrorIs(t, p.SaveFieldInstanceConfig(ctx, b), boom)
	assert.Len(t, p.Saves(), 1)

	p.Reset()
	_, err = p.EntityType(ctx, "node")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

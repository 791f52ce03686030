package paramconv

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldhelptext.io/fieldhelptext/internal/domain"
	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
	"fieldhelptext.io/fieldhelptext/internal/provider"
)

func newArticleProvider() *provider.MockProvider {
	p := provider.NewMockProvider()
	p.AddEntityType(domain.EntityType{ID: "article", Label: "Article", Fieldable: true},
		domain.FieldDefinition{Name: "title", Type: "string"},
		domain.FieldDefinition{Name: "body", Type: "text"},
	)
	p.AddBundle("article", domain.Bundle{ID: "news", Label: "News"},
		domain.FieldDefinition{Name: "summary", Type: "text_long", Label: "Summary"},
	)
	p.AddBundle("article", domain.Bundle{ID: "blog", Label: "Blog"})
	return p
}

func TestConverters_Applies(t *testing.T) {
	meta := newArticleProvider()
	converters := []Converter{
		NewEntityTypeConverter(meta),
		NewBundleConverter(meta),
		NewFieldNameConverter(meta),
	}
	kinds := []Kind{KindEntityType, KindBundle, KindFieldName}

	for _, c := range converters {
		for _, k := range kinds {
			assert.Equal(t, c.Kind() == k, c.Applies(Definition{Name: "x", Kind: k}), "%s applies to %s", c.Kind(), k)
		}
	}
}

func TestEntityTypeConverter(t *testing.T) {
	c := NewEntityTypeConverter(newArticleProvider())

	params, err := c.Convert(context.Background(), "article", Params{})
	require.NoError(t, err)
	require.NotNil(t, params.EntityType)
	assert.Equal(t, "Article", params.EntityType.Label)

	_, err = c.Convert(context.Background(), "page", Params{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeEntityTypeNotFound, appErr.Code)
}

func TestBundleConverter(t *testing.T) {
	ctx := context.Background()
	c := NewBundleConverter(newArticleProvider())
	article := &domain.EntityType{ID: "article"}

	params, err := c.Convert(ctx, "news", Params{EntityType: article})
	require.NoError(t, err)
	assert.Equal(t, "news", params.Bundle)
	assert.Same(t, article, params.EntityType)

	t.Run("bundle outside the entity type", func(t *testing.T) {
		_, err := c.Convert(ctx, "draft", Params{EntityType: article})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeBundleNotFound, appErr.Code)
		assert.Equal(t, "draft", appErr.Params["bundle"])
	})

	t.Run("entity type not resolved", func(t *testing.T) {
		_, err := c.Convert(ctx, "news", Params{})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestFieldNameConverter(t *testing.T) {
	ctx := context.Background()
	c := NewFieldNameConverter(newArticleProvider())
	article := &domain.EntityType{ID: "article"}

	params, err := c.Convert(ctx, "summary", Params{EntityType: article})
	require.NoError(t, err)
	assert.Equal(t, "summary", params.FieldName)

	// Base fields have no configurable storage.
	_, err = c.Convert(ctx, "title", Params{EntityType: article})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = c.Convert(ctx, "summary", Params{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConverter_MetadataFailureIsNotNotFound(t *testing.T) {
	meta := newArticleProvider()
	meta.FailEntityType("article", errors.New("metadata backend down"))
	c := NewBundleConverter(meta)

	_, err := c.Convert(context.Background(), "news", Params{EntityType: &domain.EntityType{ID: "article"}})
	require.Error(t, err)
	assert.False(t, apperrors.IsNotFound(err))
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeMetadataUnavailable, appErr.Code)
}

func TestRegistry_Resolve(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(newArticleProvider())

	tests := []struct {
		name     string
		defs     []Definition
		raw      map[string]string
		want     Params
		wantCode string
	}{
		{
			name: "bundle route",
			defs: BundleRoute,
			raw:  map[string]string{"entity_type": "article", "bundle": "blog"},
			want: Params{Bundle: "blog"},
		},
		{
			name: "field route",
			defs: FieldRoute,
			raw:  map[string]string{"entity_type": "article", "field_name": "summary"},
			want: Params{FieldName: "summary"},
		},
		{
			name:     "unknown entity type",
			defs:     BundleRoute,
			raw:      map[string]string{"entity_type": "page", "bundle": "news"},
			wantCode: apperrors.CodeEntityTypeNotFound,
		},
		{
			name:     "unknown bundle",
			defs:     BundleRoute,
			raw:      map[string]string{"entity_type": "article", "bundle": "draft"},
			wantCode: apperrors.CodeBundleNotFound,
		},
		{
			name:     "missing segment",
			defs:     FieldRoute,
			raw:      map[string]string{"entity_type": "article"},
			wantCode: apperrors.CodeRouteParamInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, tt.defs, tt.raw)
			if tt.wantCode != "" {
				require.True(t, apperrors.IsNotFound(err))
				appErr, ok := apperrors.IsAppError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, appErr.Code)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got.EntityType)
			assert.Equal(t, "article", got.EntityType.ID)
			assert.Equal(t, tt.want.Bundle, got.Bundle)
			assert.Equal(t, tt.want.FieldName, got.FieldName)
		})
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	r := NewRegistry(newArticleProvider())

	_, err := r.Resolve(context.Background(),
		[]Definition{{Name: "view_mode", Kind: "view_mode"}},
		map[string]string{"view_mode": "teaser"})
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	meta := newArticleProvider()
	r := NewRegistry(meta)

	require.Error(t, r.Register(NewBundleConverter(meta)))
	require.Error(t, r.Register(nil))

	c, ok := r.Lookup(Definition{Name: "bundle", Kind: KindBundle})
	require.True(t, ok)
	assert.Equal(t, KindBundle, c.Kind())
}

func TestNewRegistry_RegistersBuiltinKinds(t *testing.T) {
	var r *Registry
	require.NotPanics(t, func() { r = NewRegistry(newArticleProvider()) })

	for _, kind := range []Kind{KindEntityType, KindBundle, KindFieldName} {
		c, ok := r.Lookup(Definition{Name: string(kind), Kind: kind})
		require.True(t, ok, kind)
		assert.Equal(t, kind, c.Kind())
	}
}

func TestRegistry_MustRegisterPanicsOnConflict(t *testing.T) {
	meta := newArticleProvider()
	r := NewRegistry(meta)

	assert.PanicsWithValue(t,
		"paramconv: converter already registered for kind "+string(KindFieldName),
		func() { r.mustRegister(NewFieldNameConverter(meta)) })
}

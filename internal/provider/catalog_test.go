package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

const testCatalogYAML = `
entity_types:
  - id: node
    label: Content
    fieldable: true
    base_fields:
      - {name: title, type: string, label: Title}
      - {name: body, type: text_with_summary, label: Body}
    field_storage:
      - {name: field_summary, type: text_long}
      - {name: field_tags, type: entity_reference}
    bundles:
      - id: article
        label: Article
        fields:
          - {name: field_summary, label: Summary, description: "Shown in <em>teasers</em>."}
          - {name: field_tags, label: Tags}
        form_display: {field_tags: 1, field_summary: 5}
      - id: page
        label: Basic page
      - id: feature
        label: Feature
        fields:
          - {name: field_summary, label: Feature summary}
  - id: user
    label: User
    fieldable: true
    base_fields:
      - {name: name, type: string, label: Name}
    bundles:
      - id: user
        label: User
  - id: path_alias
    label: URL alias
    fieldable: false
    bundles:
      - id: path_alias
        label: URL alias
`

func mustParseCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte(testCatalogYAML))
	require.NoError(t, err)
	return c
}

func TestParseCatalog(t *testing.T) {
	c := mustParseCatalog(t)

	require.Len(t, c.EntityTypes, 3)
	node := c.EntityTypes[0]
	assert.Equal(t, "node", node.ID)
	assert.True(t, node.Fieldable)
	require.Len(t, node.Bundles, 3)
	assert.Equal(t, map[string]int{"field_tags": 1, "field_summary": 5}, node.Bundles[0].FormDisplay)
	assert.Nil(t, node.Bundles[1].FormDisplay)
	assert.False(t, c.EntityTypes[2].Fieldable)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.EntityTypes, 3)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"entity type without id", `entity_types: [{label: X}]`},
		{"duplicate entity type", `entity_types: [{id: node}, {id: node}]`},
		{"base field without name", `entity_types: [{id: node, base_fields: [{type: string}]}]`},
		{"storage without type", `entity_types: [{id: node, field_storage: [{name: field_a}]}]`},
		{"storage shadows base field", `
entity_types:
  - id: node
    base_fields: [{name: title, type: string}]
    field_storage: [{name: title, type: string}]`},
		{"bundle without id", `entity_types: [{id: node, bundles: [{label: X}]}]`},
		{"duplicate bundle", `entity_types: [{id: node, bundles: [{id: a}, {id: a}]}]`},
		{"instance without storage", `entity_types: [{id: node, bundles: [{id: a, fields: [{name: field_x}]}]}]`},
		{"duplicate instance", `
entity_types:
  - id: node
    field_storage: [{name: field_x, type: string}]
    bundles: [{id: a, fields: [{name: field_x}, {name: field_x}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}

func TestParseCatalog_Malformed(t *testing.T) {
	_, err := ParseCatalog([]byte("entity_types: {"))
	require.Error(t, err)
}

func TestCatalogInstanceConfigs(t *testing.T) {
	configs := mustParseCatalog(t).InstanceConfigs()

	require.Len(t, configs, 3)
	assert.Equal(t, "article", configs[0].Bundle)
	assert.Equal(t, "field_summary", configs[0].FieldName)
	assert.Equal(t, "Shown in <em>teasers</em>.", configs[0].Description)
	assert.Equal(t, "field_tags", configs[1].FieldName)
	assert.Equal(t, "feature", configs[2].Bundle)
	assert.Equal(t, "Feature summary", configs[2].Label)
}

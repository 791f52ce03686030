package modules

import (
	"context"

	"fieldhelptext.io/fieldhelptext/internal/api/handlers"
	"fieldhelptext.io/fieldhelptext/internal/paramconv"
	"fieldhelptext.io/fieldhelptext/internal/provider"
	"fieldhelptext.io/fieldhelptext/internal/service"
)

// HelpTextModule wires the metadata provider, the navigation index and the
// two edit forms.
type HelpTextModule struct {
	metadata   *provider.CatalogProvider
	registry   *paramconv.Registry
	index      *service.IndexBuilder
	bundleForm *service.BundleForm
	fieldForm  *service.FieldForm
}

// NewHelpTextModule builds the help text services on top of infra.
func NewHelpTextModule(infra *Infrastructure) *HelpTextModule {
	meta := provider.NewCatalogProvider(infra.Catalog, infra.Store)
	return &HelpTextModule{
		metadata:   meta,
		registry:   paramconv.NewRegistry(meta),
		index:      service.NewIndexBuilder(meta, infra.Config.Server.BasePath),
		bundleForm: service.NewBundleForm(meta, meta),
		fieldForm:  service.NewFieldForm(meta, service.NewSanitizer()),
	}
}

// Name implements Module.
func (m *HelpTextModule) Name() string { return "helptext" }

// Registry returns the route parameter converters used by the edit pages.
func (m *HelpTextModule) Registry() *paramconv.Registry { return m.registry }

// ContributeServerDeps implements Module.
func (m *HelpTextModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	deps.Index = m.index
	deps.BundleForm = m.bundleForm
	deps.FieldForm = m.fieldForm
}

// Shutdown implements Module.
func (m *HelpTextModule) Shutdown(context.Context) error { return nil }

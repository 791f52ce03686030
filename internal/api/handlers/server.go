// Package handlers serves the field help text admin pages.
//
// Route parameters are resolved by middleware.ResolveParams before the edit
// page handlers run; handlers report failures with c.Error and leave the
// response to middleware.ErrorHandler.
package handlers

import (
	"context"

	"fieldhelptext.io/fieldhelptext/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server implements the admin page handlers.
type Server struct {
	index      *service.IndexBuilder
	bundleForm *service.BundleForm
	fieldForm  *service.FieldForm
	store      Pinger
	basePath   string
}

// ServerDeps holds all dependencies for creating a Server.
type ServerDeps struct {
	Index      *service.IndexBuilder
	BundleForm *service.BundleForm
	FieldForm  *service.FieldForm
	Store      Pinger
	BasePath   string
}

// NewServer creates a new Server with all dependencies.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		index:      deps.Index,
		bundleForm: deps.BundleForm,
		fieldForm:  deps.FieldForm,
		store:      deps.Store,
		basePath:   deps.BasePath,
	}
}

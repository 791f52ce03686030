package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fieldhelptext.io/fieldhelptext/internal/api/middleware"
	"fieldhelptext.io/fieldhelptext/internal/domain"
	"fieldhelptext.io/fieldhelptext/internal/paramconv"
	"fieldhelptext.io/fieldhelptext/internal/pkg/logger"
	"fieldhelptext.io/fieldhelptext/internal/provider"
	"fieldhelptext.io/fieldhelptext/internal/service"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "json"); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testBasePath = "/admin/config/content/fieldhelptext"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// newArticleProvider returns entity type "article" with base field title and
// bundles news (summary, byline), blog (none) and feature (summary).
func newArticleProvider() *provider.MockProvider {
	p := provider.NewMockProvider()
	p.AddEntityType(domain.EntityType{ID: "article", Label: "Article", Fieldable: true},
		domain.FieldDefinition{Name: "title", Type: "string", Label: "Title"},
	)
	p.AddBundle("article", domain.Bundle{ID: "news", Label: "News"},
		domain.FieldDefinition{Name: "summary", Type: "text_long", Label: "Summary", Description: "News teaser."},
		domain.FieldDefinition{Name: "byline", Type: "string", Label: "Byline"},
	)
	p.AddBundle("article", domain.Bundle{ID: "blog", Label: "Blog"})
	p.AddBundle("article", domain.Bundle{ID: "feature", Label: "Feature"},
		domain.FieldDefinition{Name: "summary", Type: "text_long", Label: "Feature summary", Description: "Feature <em>lead</em>."},
	)
	return p
}

func newTestRouter(t *testing.T, meta *provider.MockProvider, store Pinger) *gin.Engine {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	server := NewServer(ServerDeps{
		Index:      service.NewIndexBuilder(meta, testBasePath),
		BundleForm: service.NewBundleForm(meta, meta),
		FieldForm:  service.NewFieldForm(meta, service.NewSanitizer()),
		Store:      store,
		BasePath:   testBasePath,
	})
	registry := paramconv.NewRegistry(meta)
	protect := middleware.ProtectForms(testFormTokens)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.SetHTMLTemplate(tmpl)
	r.GET("/healthz", server.GetLiveness)
	r.GET("/readyz", server.GetReadiness)
	admin := r.Group(testBasePath)
	admin.GET("", server.GetIndex)
	bundle := admin.Group("/bundle/:entity_type/:bundle", protect, middleware.ResolveParams(registry, paramconv.BundleRoute))
	bundle.GET("", server.GetBundleForm)
	bundle.POST("", server.PostBundleForm)
	field := admin.Group("/field/:entity_type/:field_name", protect, middleware.ResolveParams(registry, paramconv.FieldRoute))
	field.GET("", server.GetFieldForm)
	field.POST("", server.PostFieldForm)
	return r
}

var testFormTokens = mustFormTokens()

func mustFormTokens() *middleware.FormTokens {
	tokens, err := middleware.NewFormTokens([]byte("handlers-test-form-key-0123456789"))
	if err != nil {
		panic(err)
	}
	return tokens
}

// doRequest sends form as a post body. Posts carry the form token the page
// would have rendered unless the form sets its own.
func doRequest(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		if _, ok := form[middleware.FormTokenField]; !ok {
			form.Set(middleware.FormTokenField, testFormTokens.Issue("", target))
		}
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var errStoreDown = errors.New("store down")

package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "fieldhelptext.io/fieldhelptext/internal/pkg/errors"
)

// FormTokenField is the hidden input carrying the per-form token.
const FormTokenField = "form_token"

const (
	ctxKeyTokenID   = "token_id"
	ctxKeyFormToken = "form_token"
)

// FormTokens issues and checks per-form tokens. A token is an HMAC over the
// admin token id and the form path, so it is only valid for one session on
// one page.
type FormTokens struct {
	key []byte
}

// NewFormTokens creates FormTokens keyed by key. An empty key is replaced
// by a random one, which invalidates rendered forms on restart.
func NewFormTokens(key []byte) (*FormTokens, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("form token key: %w", err)
		}
	}
	// Derived so the JWT signing key is never used as-is for a second purpose.
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("fieldhelptext form token"))
	return &FormTokens{key: mac.Sum(nil)}, nil
}

// Issue returns the token for sessionID on formPath.
func (f *FormTokens) Issue(sessionID, formPath string) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(sessionID))
	mac.Write([]byte{0})
	mac.Write([]byte(formPath))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether token was issued for sessionID on formPath.
func (f *FormTokens) Verify(sessionID, formPath, token string) bool {
	if token == "" {
		return false
	}
	return hmac.Equal([]byte(token), []byte(f.Issue(sessionID, formPath)))
}

// ProtectForms guards state-changing requests. Cross-site requests are
// rejected outright, and every POST must echo the token rendered into the
// form. Safe requests get the token stored for GetFormToken. It must run
// after JWTAuth when auth is enabled.
func ProtectForms(tokens *FormTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetString(ctxKeyTokenID)
		formPath := c.Request.URL.Path

		if !isSafeMethod(c.Request.Method) {
			if crossSite(c.Request) {
				_ = c.Error(apperrors.Forbidden(apperrors.CodeCrossOrigin, "cross-site form submission rejected"))
				c.Abort()
				return
			}
			if !tokens.Verify(sessionID, formPath, c.PostForm(FormTokenField)) {
				_ = c.Error(apperrors.Forbidden(apperrors.CodeFormTokenInvalid,
					"the form has expired or was not issued by this site; reload the page and try again"))
				c.Abort()
				return
			}
		}

		c.Set(ctxKeyFormToken, tokens.Issue(sessionID, formPath))
		c.Next()
	}
}

// GetFormToken returns the token to render into the current page's form.
func GetFormToken(c *gin.Context) string {
	return c.GetString(ctxKeyFormToken)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// crossSite reports whether the browser marked the request as coming from
// another origin. Requests without these headers, such as scripted
// clients, are left to the form token check.
func crossSite(r *http.Request) bool {
	if site := r.Header.Get("Sec-Fetch-Site"); site == "cross-site" || site == "same-site" {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return true
	}
	return !strings.EqualFold(u.Host, r.Host)
}

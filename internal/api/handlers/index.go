package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetIndex handles GET on the base path: the by-bundle and by-field
// navigation lists.
func (s *Server) GetIndex(c *gin.Context) {
	idx, err := s.index.Build(c.Request.Context())
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Field help text",
		"Index": idx,
	})
}

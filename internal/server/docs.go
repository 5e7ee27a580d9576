package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var openapiSpec []byte

// getDocs serves the API description at GET /docs.
func (s *Server) getDocs(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", openapiSpec)
}

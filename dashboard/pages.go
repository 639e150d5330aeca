package dashboard

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/services"
)

//go:embed static/index.html static/error.html
var static embed.FS

var errorPage = template.Must(template.ParseFS(static, "static/error.html"))

func (s *Server) index(c *gin.Context) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "page unavailable"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// fatalHandler answers every request with 503. Browsers get the error page,
// API clients a JSON body.
func fatalHandler(loadErr error) gin.HandlerFunc {
	kind := "LoadError"
	var le *services.LoadError
	if errors.As(loadErr, &le) {
		kind = string(le.Kind)
	}
	message := loadErr.Error()

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") ||
			!strings.Contains(c.GetHeader("Accept"), "text/html") {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": message, "kind": kind})
			return
		}
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusServiceUnavailable)
		if err := errorPage.Execute(c.Writer, gin.H{"Kind": kind, "Message": message}); err != nil {
			_ = c.Error(err)
		}
	}
}

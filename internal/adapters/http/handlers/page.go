package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// RandomQuotePath is the API path the page calls.
const RandomQuotePath = "/api/quotes/random"

// pageData is rendered into the index template.
type pageData struct {
	Title    string
	Endpoint string
}

// PageHandler serves the single-page quote viewer.
type PageHandler struct {
	data pageData
}

// NewPageHandler creates a page handler. An empty title falls back to "Movie Quote Generator".
func NewPageHandler(title string) *PageHandler {
	if title == "" {
		title = "Movie Quote Generator"
	}

	return &PageHandler{
		data: pageData{
			Title:    title,
			Endpoint: RandomQuotePath,
		},
	}
}

// Index handles GET /.
func (h *PageHandler) Index(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: indexTemplate,
		Data:     h.data,
	})
}

// RegisterPageRoutes registers the page on the engine root.
func (h *PageHandler) RegisterPageRoutes(engine *gin.Engine) {
	engine.GET("/", h.Index)
}

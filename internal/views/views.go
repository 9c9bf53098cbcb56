// Package views holds the server-rendered HTML templates.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine returns a Fiber view engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		// The directory is embedded above, so this cannot fail.
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("money", func(d decimal.Decimal) string {
		return d.StringFixed(2)
	})
	return engine
}

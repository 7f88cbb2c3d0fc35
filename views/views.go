package views

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/yashrajoria/pharmacy-storefront/invoice"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template with the shared helpers.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the page scripts and styles.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money": invoice.FormatMoney,
		"date":  invoice.FormatDate,
		"inStock": func(stock int) bool {
			return stock > 0
		},
	}
}

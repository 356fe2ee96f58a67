package index

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/render"
)

//go:embed static/index.html
var page string

func HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.HTML(w, r, page)
	}
}

package health

import (
	"net/http"
)

// HandleHealth answers 200 with an empty body.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

package pastes

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"whtpst/core"
	"whtpst/handlers/middleware"
)

// HandleCreate stores the request body under the id taken from the path and
// answers with that id.
func HandleCreate(repo core.PasteRepository, rules core.ContentRules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		create(w, r, repo, rules, id)
	}
}

// HandleCreateRandomID is HandleCreate with a freshly generated id.
func HandleCreateRandomID(repo core.PasteRepository, rules core.ContentRules) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		create(w, r, repo, rules, core.RandomPasteID())
	}
}

// HandleGet answers with the content stored under the id taken from the path.
func HandleGet(repo core.PasteRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		log := middleware.LogEntry(r).WithField("paste_id", id)

		content, err := repo.FindOne(r.Context(), id)
		if err != nil {
			log.WithField("error", err).Info("Paste lookup failed")
			respondError(w, r, err)
			return
		}
		log.Debug("Paste retrieved")
		respond(w, r, http.StatusOK, content.String())
	}
}

func create(w http.ResponseWriter, r *http.Request, repo core.PasteRepository, rules core.ContentRules, id core.PasteID) {
	log := middleware.LogEntry(r).WithField("paste_id", id)

	data := new(bytes.Buffer)
	if _, err := io.Copy(data, r.Body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(w, r, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		log.WithField("error", err).Warn("Failed to read request body")
		respond(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	content, err := rules.ParseBytes(data.Bytes())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := repo.Insert(r.Context(), core.NewPaste{ID: id, Content: content}); err != nil {
		log.WithField("error", err).Error("Failed to store paste")
		respondError(w, r, err)
		return
	}
	log.WithField("content_length", len(content)).Info("Paste stored")
	respond(w, r, http.StatusOK, id.String())
}

// pathID validates the {id} route parameter. chi matches against the raw path
// when the request had one, in which case the parameter is still escaped.
func pathID(r *http.Request) (core.PasteID, error) {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			return "", err
		}
		raw = unescaped
	}
	return core.ParsePasteID(raw)
}

// statusFor maps errors to HTTP statuses. Storage failures are the server's
// fault and report 500.
func statusFor(err error) int {
	var validation *core.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrWriteFailure), errors.Is(err, core.ErrReadFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Error bodies are the bare message, no envelope.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respond(w, r, statusFor(err), err.Error())
}

func respond(w http.ResponseWriter, r *http.Request, status int, body string) {
	render.Status(r, status)
	render.PlainText(w, r, body)
}

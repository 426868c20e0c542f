package handlers

import (
	"errors"
	"net/http"

	"github.com/AlexandrosLiaskos/Web-Launcher/internal/httpserver/deps"
	"github.com/AlexandrosLiaskos/Web-Launcher/internal/importer"
)

type importRequest struct {
	Sites []importer.Site `json:"sites"`
}

type importResponse struct {
	Imported []entryView `json:"imported"`
}

// Import writes a batch of browser-history sites into the user's
// entries. The batch either lands whole or not at all.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(w, r, d)
		if !ok {
			return
		}

		var req importRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.Sites) == 0 {
			writeError(w, http.StatusBadRequest, "no sites to import")
			return
		}

		imported, err := d.Importer.ImportSites(r.Context(), sess, req.Sites)
		if err != nil {
			if errors.Is(err, importer.ErrSourceTimeout) {
				writeError(w, http.StatusGatewayTimeout, "import source timed out")
				return
			}
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, importResponse{Imported: toEntryViews(imported)})
	}
}

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/preferencia"
)

// GetPreferencias devolve o documento de preferências do próprio usuário.
func (h *Handler) GetPreferencias(w http.ResponseWriter, r *http.Request) {
	doc, err := h.preferencias.Get(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar preferências", nil)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

// PutPreferencias substitui o documento de preferências do próprio usuário.
func (h *Handler) PutPreferencias(w http.ResponseWriter, r *http.Request) {
	corpo, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido", nil)
		return
	}

	subject := httpmiddleware.GetSubject(r.Context())
	if err := h.preferencias.Set(r.Context(), subject, json.RawMessage(corpo)); err != nil {
		if errors.Is(err, preferencia.ErrDocumentoInvalido) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "preferências devem ser um objeto JSON", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível salvar preferências", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeletePreferencias restaura o padrão removendo o documento salvo.
func (h *Handler) DeletePreferencias(w http.ResponseWriter, r *http.Request) {
	if err := h.preferencias.Limpar(r.Context(), httpmiddleware.GetSubject(r.Context())); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível limpar preferências", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

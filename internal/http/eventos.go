package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Eventos transmite por SSE o nome das coleções alteradas. O cliente refaz a
// busca da coleção anunciada; nenhum dado de domínio trafega pelo stream.
func (h *Handler) Eventos(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "streaming não suportado", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	eventos := h.hub.Subscribe(r.Context())
	for evento := range eventos {
		payload, err := json.Marshal(evento)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/settings"
)

// GetConfiguracao devolve o documento de configuração. A senha master só
// aparece para usuários MASTER.
func (h *Handler) GetConfiguracao(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.Get(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar a configuração", nil)
		return
	}

	visao := *cfg
	if !permission.TemPapel(httpmiddleware.GetPapeis(r.Context()), permission.PapelMaster) {
		visao.SenhaMaster = ""
	}

	WriteJSON(w, http.StatusOK, visao)
}

// UpdateConfiguracao substitui o documento de configuração.
func (h *Handler) UpdateConfiguracao(w http.ResponseWriter, r *http.Request) {
	var payload settings.Configuracao
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	// apenas MASTER troca a senha master; para os demais o valor atual é mantido
	if !permission.TemPapel(httpmiddleware.GetPapeis(r.Context()), permission.PapelMaster) {
		atual, err := h.settings.Get(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar a configuração", nil)
			return
		}
		payload.SenhaMaster = atual.SenhaMaster
	}

	atualizada, err := h.settings.Update(r.Context(), payload, httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	h.hub.Publish("configuracoes")
	WriteJSON(w, http.StatusOK, atualizada)
}

// VerificarSenhaMaster confirma o segredo compartilhado sem efeito colateral.
func (h *Handler) VerificarSenhaMaster(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.settings.VerificarSenhaMaster(r.Context(), payload.Senha); err != nil {
		if errors.Is(err, settings.ErrSenhaMasterInvalida) {
			WriteError(w, http.StatusForbidden, "SENHA_MASTER", "senha master inválida", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível validar a senha master", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

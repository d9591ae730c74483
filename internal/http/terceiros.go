package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inspecar/vistorias/internal/terceiro"
)

type terceiroPayload struct {
	Nome          string `json:"nome"`
	Tipo          string `json:"tipo"`
	TipoDocumento string `json:"tipo_documento"`
	Documento     string `json:"documento"`
	Email         string `json:"email"`
	Telefone      string `json:"telefone"`
}

func (p terceiroPayload) model() terceiro.Terceiro {
	return terceiro.Terceiro{
		Nome:          p.Nome,
		Tipo:          p.Tipo,
		TipoDocumento: p.TipoDocumento,
		Documento:     p.Documento,
		Email:         p.Email,
		Telefone:      p.Telefone,
	}
}

// ListTerceiros devolve clientes e fornecedores cadastrados.
func (h *Handler) ListTerceiros(w http.ResponseWriter, r *http.Request) {
	terceiros, err := h.terceiros.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar terceiros", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"terceiros": terceiros})
}

// CreateTerceiro registra um novo terceiro.
func (h *Handler) CreateTerceiro(w http.ResponseWriter, r *http.Request) {
	var payload terceiroPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	criado, err := h.terceiros.Criar(r.Context(), payload.model())
	if err != nil {
		if errors.Is(err, terceiro.ErrTipoInvalido) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "tipo deve ser Cliente ou Fornecedor", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, criado)
}

// UpdateTerceiro edita um terceiro existente.
func (h *Handler) UpdateTerceiro(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload terceiroPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	modelo := payload.model()
	modelo.ID = id

	atualizado, err := h.terceiros.Atualizar(r.Context(), modelo)
	if err != nil {
		switch {
		case errors.Is(err, terceiro.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "terceiro não encontrado", nil)
		case errors.Is(err, terceiro.ErrTipoInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "tipo deve ser Cliente ou Fornecedor", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, atualizado)
}

// DeleteTerceiro remove um terceiro.
func (h *Handler) DeleteTerceiro(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.terceiros.Excluir(r.Context(), id); err != nil {
		if errors.Is(err, terceiro.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "terceiro não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

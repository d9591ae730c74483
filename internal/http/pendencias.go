package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/pendencia"
	"github.com/inspecar/vistorias/internal/vistoria"
)

type pendenciaPayload struct {
	VistoriaID    string `json:"vistoria_id"`
	Titulo        string `json:"titulo"`
	Descricao     string `json:"descricao"`
	ResponsavelID string `json:"responsavel_id"`
	Status        string `json:"status"`
}

func (p pendenciaPayload) input() (pendencia.Input, error) {
	in := pendencia.Input{
		Titulo:    p.Titulo,
		Descricao: p.Descricao,
		Status:    strings.TrimSpace(p.Status),
	}

	if strings.TrimSpace(p.VistoriaID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(p.VistoriaID))
		if err != nil {
			return pendencia.Input{}, errors.New("vistoria inválida")
		}
		in.VistoriaID = id
	}

	if strings.TrimSpace(p.ResponsavelID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(p.ResponsavelID))
		if err != nil {
			return pendencia.Input{}, errors.New("responsável inválido")
		}
		in.ResponsavelID = id
	}

	return in, nil
}

// ListPendencias devolve as pendências visíveis para o usuário.
func (h *Handler) ListPendencias(w http.ResponseWriter, r *http.Request) {
	ator, err := h.atorPendencia(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	visiveis, err := h.pendencias.Visiveis(r.Context(), ator)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar pendências", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"pendencias": visiveis})
}

// GetPendencia busca uma pendência pelo identificador.
func (h *Handler) GetPendencia(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	p, err := h.pendencias.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pendencia.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "pendência não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar a pendência", nil)
		return
	}

	WriteJSON(w, http.StatusOK, p)
}

// CreatePendencia registra uma pendência atrelada a uma vistoria.
func (h *Handler) CreatePendencia(w http.ResponseWriter, r *http.Request) {
	var payload pendenciaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.atorPendencia(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	criada, err := h.pendencias.Criar(r.Context(), ator, in)
	if err != nil {
		switch {
		case errors.Is(err, vistoria.ErrNotFound):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "vistoria não encontrada", nil)
		case errors.Is(err, pendencia.ErrResponsavelInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "responsável não permitido para o seu papel", nil)
		case errors.Is(err, pendencia.ErrStatusInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "status inválido", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, criada)
}

// UpdatePendencia edita uma pendência existente.
func (h *Handler) UpdatePendencia(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload pendenciaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.atorPendencia(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	atualizada, err := h.pendencias.Atualizar(r.Context(), ator, id, in)
	if err != nil {
		switch {
		case errors.Is(err, pendencia.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "pendência não encontrada", nil)
		case errors.Is(err, pendencia.ErrResponsavelInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "responsável não permitido para o seu papel", nil)
		case errors.Is(err, pendencia.ErrStatusInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "status inválido", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, atualizada)
}

// DeletePendencia remove uma pendência.
func (h *Handler) DeletePendencia(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.pendencias.Excluir(r.Context(), id); err != nil {
		if errors.Is(err, pendencia.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "pendência não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListResponsaveis lista os usuários elegíveis para receber uma pendência
// atribuída pelo ator.
func (h *Handler) ListResponsaveis(w http.ResponseWriter, r *http.Request) {
	ator, err := h.atorPendencia(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	elegiveis, err := h.users.Responsaveis(r.Context(), pendencia.PapeisResponsaveis(ator.Papeis))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar responsáveis", nil)
		return
	}

	views := make([]map[string]any, 0, len(elegiveis))
	for _, u := range elegiveis {
		views = append(views, map[string]any{"id": u.ID, "nome": u.Nome})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"responsaveis": views})
}

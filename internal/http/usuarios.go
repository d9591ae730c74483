package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/repo"
	"github.com/inspecar/vistorias/internal/service"
)

type usuarioPayload struct {
	Nome          string            `json:"nome"`
	Email         string            `json:"email"`
	Senha         string            `json:"senha"`
	Papeis        []string          `json:"papeis"`
	Matriz        map[string]string `json:"matriz"`
	SolicitanteID *string           `json:"solicitante_id"`
	Ativo         *bool             `json:"ativo"`
}

func (p usuarioPayload) input() (service.UsuarioInput, error) {
	in := service.UsuarioInput{
		Nome:   p.Nome,
		Email:  p.Email,
		Senha:  p.Senha,
		Papeis: p.Papeis,
		Matriz: p.Matriz,
		Ativo:  true,
	}
	if p.Ativo != nil {
		in.Ativo = *p.Ativo
	}

	if p.SolicitanteID != nil && strings.TrimSpace(*p.SolicitanteID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*p.SolicitanteID))
		if err != nil {
			return service.UsuarioInput{}, errors.New("solicitante inválido")
		}
		in.SolicitanteID = &id
	}

	return in, nil
}

func (h *Handler) usuarioAtor(r *http.Request) (repo.Usuario, error) {
	u, err := h.users.Get(r.Context(), httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		return repo.Usuario{}, err
	}
	return *u, nil
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
	case errors.Is(err, repo.ErrEmailEmUso):
		WriteError(w, http.StatusConflict, "CONFLICT", "e-mail já cadastrado", nil)
	case errors.Is(err, service.ErrEdicaoNaoPermitida):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "sem permissão para alterar este usuário", nil)
	case errors.Is(err, service.ErrAutoExclusao):
		WriteError(w, http.StatusConflict, "CONFLICT", "não é possível excluir a própria conta", nil)
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	}
}

// ListUsuarios devolve todos os usuários cadastrados.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.users.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar usuários", nil)
		return
	}

	views := make([]usuarioView, 0, len(usuarios))
	for _, u := range usuarios {
		views = append(views, viewUsuario(u))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"usuarios": views})
}

// GetUsuario busca um usuário pelo identificador.
func (h *Handler) GetUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, viewUsuario(*u))
}

// CreateUsuario cadastra um usuário com senha provisória.
func (h *Handler) CreateUsuario(w http.ResponseWriter, r *http.Request) {
	var payload usuarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.usuarioAtor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	criado, err := h.users.Criar(r.Context(), ator, in)
	if err != nil {
		writeUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, viewUsuario(*criado))
}

// UpdateUsuario edita cadastro, papéis e matriz de um usuário.
func (h *Handler) UpdateUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload usuarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.usuarioAtor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	atualizado, err := h.users.Atualizar(r.Context(), ator, id, in)
	if err != nil {
		writeUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, viewUsuario(*atualizado))
}

// ResetarSenhaUsuario define senha provisória com troca obrigatória.
func (h *Handler) ResetarSenhaUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload struct {
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	ator, err := h.usuarioAtor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	if err := h.users.ResetarSenha(r.Context(), ator, id, payload.Senha); err != nil {
		writeUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteUsuario remove um usuário.
func (h *Handler) DeleteUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	ator, err := h.usuarioAtor(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	if err := h.users.Excluir(r.Context(), ator, id); err != nil {
		writeUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

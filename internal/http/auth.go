package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/inspecar/vistorias/internal/auth"
	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/repo"
	"github.com/inspecar/vistorias/internal/service"
)

type loginPayload struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

type usuarioView struct {
	ID            string            `json:"id"`
	Nome          string            `json:"nome"`
	Email         string            `json:"email"`
	Papeis        []string          `json:"papeis"`
	Matriz        map[string]string `json:"matriz"`
	SolicitanteID *string           `json:"solicitante_id,omitempty"`
	TrocarSenha   bool              `json:"trocar_senha"`
	Ativo         bool              `json:"ativo"`
}

func viewUsuario(u repo.Usuario) usuarioView {
	view := usuarioView{
		ID:          u.ID.String(),
		Nome:        u.Nome,
		Email:       u.Email,
		TrocarSenha: u.TrocarSenha,
		Ativo:       u.Ativo,
	}
	for _, p := range u.Papeis {
		view.Papeis = append(view.Papeis, string(p))
	}
	view.Matriz = make(map[string]string, len(permission.Modulos))
	for modulo, nivel := range u.MatrizEfetiva() {
		view.Matriz[string(modulo)] = string(nivel)
	}
	if u.SolicitanteID != nil {
		s := u.SolicitanteID.String()
		view.SolicitanteID = &s
	}
	return view
}

// Login autentica por e-mail e senha e emite o par de tokens.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	par, usuario, err := h.auth.Login(r.Context(), payload.Email, payload.Senha)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredenciaisInvalidas):
			WriteError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas", nil)
		case errors.Is(err, service.ErrUsuarioInativo):
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "usuário inativo", nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível autenticar", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"tokens":  par,
		"usuario": viewUsuario(*usuario),
	})
}

// Refresh rotaciona o refresh token.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.RefreshToken) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	par, err := h.auth.Refresh(r.Context(), strings.TrimSpace(payload.RefreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefresh) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "refresh token inválido", nil)
			return
		}
		if errors.Is(err, service.ErrUsuarioInativo) {
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "usuário inativo", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível renovar a sessão", nil)
		return
	}

	WriteJSON(w, http.StatusOK, par)
}

// Logout revoga o refresh token informado.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload refreshPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.auth.Logout(r.Context(), strings.TrimSpace(payload.RefreshToken)); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível encerrar a sessão", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Me devolve o usuário autenticado com a matriz efetiva.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject := httpmiddleware.GetSubject(r.Context())

	usuario, err := h.auth.GetMe(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	WriteJSON(w, http.StatusOK, viewUsuario(*usuario))
}

// AlterarSenha troca a senha do próprio usuário.
func (h *Handler) AlterarSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SenhaAtual string `json:"senha_atual"`
		SenhaNova  string `json:"senha_nova"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	subject := httpmiddleware.GetSubject(r.Context())
	if err := h.auth.AlterarSenha(r.Context(), subject, payload.SenhaAtual, payload.SenhaNova); err != nil {
		if errors.Is(err, service.ErrSenhaAtualIncorreta) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "senha atual incorreta", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// SolicitarRecuperacao inicia o fluxo de recuperação de senha. A resposta é
// idêntica para e-mails conhecidos e desconhecidos.
func (h *Handler) SolicitarRecuperacao(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if _, err := h.auth.SolicitarRecuperacao(r.Context(), payload.Email); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível iniciar a recuperação", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// RedefinirSenha consome o token de recuperação e grava a nova senha.
func (h *Handler) RedefinirSenha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token     string `json:"token"`
		SenhaNova string `json:"senha_nova"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.auth.RedefinirSenha(r.Context(), strings.TrimSpace(payload.Token), payload.SenhaNova); err != nil {
		if errors.Is(err, service.ErrRecuperacaoInvalida) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "token de recuperação inválido", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/importacao"
)

// maxUploadBytes limita o tamanho da planilha de importação.
const maxUploadBytes = 10 << 20

// ListSolicitacoes devolve a fila de pedidos aguardando aprovação.
func (h *Handler) ListSolicitacoes(w http.ResponseWriter, r *http.Request) {
	fila, err := h.vistorias.FilaSolicitacoes(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar solicitações", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"solicitacoes": fila})
}

// AprovarSolicitacoes move solicitações para Agendado em lote atômico.
func (h *Handler) AprovarSolicitacoes(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.IDs) == 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "ids obrigatórios", nil)
		return
	}

	ids := make([]uuid.UUID, 0, len(payload.IDs))
	for _, raw := range payload.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido: "+raw, nil)
			return
		}
		ids = append(ids, id)
	}

	aprovadas, err := h.vistorias.Aprovar(r.Context(), ids)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível aprovar", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"aprovadas": aprovadas})
}

// UploadImportacao recebe a planilha XLSX e devolve o lote encenado para
// revisão. Nada entra na fila antes da confirmação.
func (h *Handler) UploadImportacao(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "upload inválido", nil)
		return
	}

	file, _, err := r.FormFile("arquivo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "campo arquivo obrigatório", nil)
		return
	}
	defer file.Close()

	lote, err := h.importacoes.Encenar(r.Context(), file)
	if err != nil {
		if errors.Is(err, importacao.ErrPlanilhaVazia) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "planilha vazia", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, lote)
}

// GetImportacao devolve um lote encenado ainda não confirmado.
func (h *Handler) GetImportacao(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	lote, err := h.importacoes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, importacao.ErrLoteNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "lote não encontrado ou expirado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar o lote", nil)
		return
	}

	WriteJSON(w, http.StatusOK, lote)
}

// ConfirmarImportacao grava as linhas selecionadas como solicitações.
func (h *Handler) ConfirmarImportacao(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload struct {
		Indices []int `json:"indices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	criadas, err := h.importacoes.Confirmar(r.Context(), id, payload.Indices)
	if err != nil {
		switch {
		case errors.Is(err, importacao.ErrLoteNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "lote não encontrado ou expirado", nil)
		case errors.Is(err, importacao.ErrSelecaoVazia):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "nenhuma linha selecionada", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"criadas": criadas})
}

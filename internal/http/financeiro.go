package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/financeiro"
	"github.com/inspecar/vistorias/internal/settings"
	"github.com/inspecar/vistorias/internal/util"
)

type lancamentoPayload struct {
	Descricao     string  `json:"descricao"`
	Tipo          string  `json:"tipo"`
	Valor         float64 `json:"valor"`
	Data          string  `json:"data"`
	Categoria     string  `json:"categoria"`
	ContaID       *string `json:"conta_id"`
	TerceiroID    *string `json:"terceiro_id"`
	VistoriaID    *string `json:"vistoria_id"`
	Observacoes   string  `json:"observacoes"`
	APagarReceber bool    `json:"a_pagar_receber"`
	Vencimento    *string `json:"vencimento"`

	// SenhaMaster autoriza edição e exclusão de lançamentos.
	SenhaMaster string `json:"senha_master"`
}

func parseUUIDPtr(raw *string, campo string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, errors.New(campo + " inválido")
	}
	return &id, nil
}

func (p lancamentoPayload) input() (financeiro.Input, error) {
	in := financeiro.Input{
		Descricao:     p.Descricao,
		Tipo:          strings.TrimSpace(p.Tipo),
		Valor:         p.Valor,
		Categoria:     p.Categoria,
		Observacoes:   p.Observacoes,
		APagarReceber: p.APagarReceber,
	}

	if strings.TrimSpace(p.Data) != "" {
		data, err := parseISODate(p.Data)
		if err != nil {
			return financeiro.Input{}, errors.New("data inválida")
		}
		in.Data = data
	}

	if p.Vencimento != nil && strings.TrimSpace(*p.Vencimento) != "" {
		venc, err := parseISODate(*p.Vencimento)
		if err != nil {
			return financeiro.Input{}, errors.New("vencimento inválido")
		}
		in.Vencimento = &venc
	}

	var err error
	if in.ContaID, err = parseUUIDPtr(p.ContaID, "conta"); err != nil {
		return financeiro.Input{}, err
	}
	if in.TerceiroID, err = parseUUIDPtr(p.TerceiroID, "terceiro"); err != nil {
		return financeiro.Input{}, err
	}
	if in.VistoriaID, err = parseUUIDPtr(p.VistoriaID, "vistoria"); err != nil {
		return financeiro.Input{}, err
	}

	return in, nil
}

// exigirSenhaMaster aplica o segredo compartilhado às operações destrutivas do
// financeiro. Devolve false já tendo escrito a resposta.
func (h *Handler) exigirSenhaMaster(w http.ResponseWriter, r *http.Request, fornecida string) bool {
	if err := h.settings.VerificarSenhaMaster(r.Context(), fornecida); err != nil {
		if errors.Is(err, settings.ErrSenhaMasterInvalida) {
			WriteError(w, http.StatusForbidden, "SENHA_MASTER", "senha master inválida", nil)
			return false
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível validar a senha master", nil)
		return false
	}
	return true
}

// ListLancamentos devolve os lançamentos com status efetivo derivado.
func (h *Handler) ListLancamentos(w http.ResponseWriter, r *http.Request) {
	lancamentos, err := h.financeiro.ListLancamentos(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar lançamentos", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"lancamentos": lancamentos})
}

// CreateLancamento registra um movimento financeiro.
func (h *Handler) CreateLancamento(w http.ResponseWriter, r *http.Request) {
	var payload lancamentoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	criado, err := h.financeiro.CriarLancamento(r.Context(), in)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, criado)
}

// UpdateLancamento edita um lançamento; exige a senha master.
func (h *Handler) UpdateLancamento(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload lancamentoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if !h.exigirSenhaMaster(w, r, payload.SenhaMaster) {
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	atualizado, err := h.financeiro.AtualizarLancamento(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, financeiro.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "lançamento não encontrado", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, atualizado)
}

// BaixarLancamento marca um a pagar/receber como pago.
func (h *Handler) BaixarLancamento(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload struct {
		ContaID       string `json:"conta_id"`
		DataPagamento string `json:"data_pagamento"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	contaID, err := uuid.Parse(strings.TrimSpace(payload.ContaID))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "conta obrigatória", nil)
		return
	}

	dataPagamento, err := parseISODate(payload.DataPagamento)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "data de pagamento inválida", nil)
		return
	}

	baixado, err := h.financeiro.Baixar(r.Context(), id, contaID, dataPagamento)
	if err != nil {
		switch {
		case errors.Is(err, financeiro.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "lançamento não encontrado", nil)
		case errors.Is(err, financeiro.ErrContaNotFound):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "conta não encontrada", nil)
		case errors.Is(err, financeiro.ErrNaoPendente):
			WriteError(w, http.StatusConflict, "CONFLICT", "lançamento não está pendente", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, baixado)
}

// DeleteLancamento remove um lançamento; exige a senha master.
func (h *Handler) DeleteLancamento(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload struct {
		SenhaMaster string `json:"senha_master"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if !h.exigirSenhaMaster(w, r, payload.SenhaMaster) {
		return
	}

	if err := h.financeiro.ExcluirLancamento(r.Context(), id); err != nil {
		if errors.Is(err, financeiro.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "lançamento não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ListContas devolve as contas com saldo derivado na leitura.
func (h *Handler) ListContas(w http.ResponseWriter, r *http.Request) {
	contas, err := h.financeiro.ListContasComSaldo(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar contas", nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"contas": contas})
}

type contaPayload struct {
	Nome         string  `json:"nome"`
	Tipo         string  `json:"tipo"`
	SaldoInicial float64 `json:"saldo_inicial"`
	Cor          string  `json:"cor"`
}

// CreateConta registra uma nova conta.
func (h *Handler) CreateConta(w http.ResponseWriter, r *http.Request) {
	var payload contaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	criada, err := h.financeiro.CriarConta(r.Context(), financeiro.Conta{
		Nome:         payload.Nome,
		Tipo:         payload.Tipo,
		SaldoInicial: payload.SaldoInicial,
		Cor:          payload.Cor,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, criada)
}

// UpdateConta edita uma conta existente.
func (h *Handler) UpdateConta(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload contaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	atualizada, err := h.financeiro.AtualizarConta(r.Context(), financeiro.Conta{
		ID:           id,
		Nome:         payload.Nome,
		Tipo:         payload.Tipo,
		SaldoInicial: payload.SaldoInicial,
		Cor:          payload.Cor,
	})
	if err != nil {
		if errors.Is(err, financeiro.ErrContaNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "conta não encontrada", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusOK, atualizada)
}

// DeleteConta remove uma conta sem lançamentos vinculados.
func (h *Handler) DeleteConta(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.financeiro.ExcluirConta(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, financeiro.ErrContaNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "conta não encontrada", nil)
		case errors.Is(err, financeiro.ErrContaEmUso):
			WriteError(w, http.StatusConflict, "CONFLICT", "conta possui lançamentos vinculados", nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// ResumoFinanceiro calcula os agregados do painel para a janela informada;
// sem parâmetros, considera o mês corrente.
func (h *Handler) ResumoFinanceiro(w http.ResponseWriter, r *http.Request) {
	agora := util.Now()
	inicio := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, time.UTC)
	fim := inicio.AddDate(0, 1, -1)

	if raw := strings.TrimSpace(r.URL.Query().Get("inicio")); raw != "" {
		parsed, err := parseISODate(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "inicio inválido", nil)
			return
		}
		inicio = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("fim")); raw != "" {
		parsed, err := parseISODate(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "fim inválido", nil)
			return
		}
		fim = parsed
	}

	resumo, err := h.financeiro.Resumo(r.Context(), inicio, fim)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível calcular o resumo", nil)
		return
	}

	WriteJSON(w, http.StatusOK, resumo)
}

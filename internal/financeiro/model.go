package financeiro

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("lançamento não encontrado")
	ErrContaNotFound = errors.New("conta não encontrada")
	// ErrContaEmUso impede excluir conta referenciada por lançamentos.
	ErrContaEmUso = errors.New("conta possui lançamentos vinculados")
	// ErrNaoPendente indica baixa sobre lançamento que não está em aberto.
	ErrNaoPendente   = errors.New("lançamento não está pendente")
	ErrTipoInvalido  = errors.New("tipo de lançamento inválido")
	ErrValorInvalido = errors.New("valor deve ser positivo")
)

const (
	TipoReceita = "Receita"
	TipoDespesa = "Despesa"

	StatusPendente = "Pendente"
	StatusPaga     = "Paga"
	StatusVencida  = "Vencida"
)

// Lancamento é um movimento financeiro, imediato ou a pagar/receber.
type Lancamento struct {
	ID            uuid.UUID  `json:"id"`
	Descricao     string     `json:"descricao"`
	Tipo          string     `json:"tipo"`
	Valor         float64    `json:"valor"`
	Data          time.Time  `json:"data"`
	Categoria     string     `json:"categoria"`
	ContaID       *uuid.UUID `json:"conta_id,omitempty"`
	TerceiroID    *uuid.UUID `json:"terceiro_id,omitempty"`
	VistoriaID    *uuid.UUID `json:"vistoria_id,omitempty"`
	Observacoes   string     `json:"observacoes"`
	APagarReceber bool       `json:"a_pagar_receber"`
	Vencimento    *time.Time `json:"vencimento,omitempty"`
	Status        string     `json:"status,omitempty"`
	DataPagamento *time.Time `json:"data_pagamento,omitempty"`
	CriadoEm      time.Time  `json:"criado_em"`
}

// Conta é uma conta financeira; o saldo corrente nunca é armazenado.
type Conta struct {
	ID           uuid.UUID `json:"id"`
	Nome         string    `json:"nome"`
	Tipo         string    `json:"tipo"`
	SaldoInicial float64   `json:"saldo_inicial"`
	Cor          string    `json:"cor"`
	CriadoEm     time.Time `json:"criado_em"`
}

// ContaComSaldo apresenta a conta com o saldo derivado no momento da leitura.
type ContaComSaldo struct {
	Conta
	SaldoAtual float64 `json:"saldo_atual"`
}

package pendencia

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("pendência não encontrada")
	ErrStatusInvalido = errors.New("status de pendência inválido")
	// ErrResponsavelInvalido indica atribuição a papel não permitido para o ator.
	ErrResponsavelInvalido = errors.New("responsável não permitido")
)

const (
	StatusPendente    = "Pendente"
	StatusEmAndamento = "Em Andamento"
	StatusFinalizada  = "Finalizada"
)

var statusValidos = map[string]struct{}{
	StatusPendente:    {},
	StatusEmAndamento: {},
	StatusFinalizada:  {},
}

// StatusValido informa se o rótulo de status é conhecido.
func StatusValido(status string) bool {
	_, ok := statusValidos[status]
	return ok
}

// Pendencia é uma tarefa de acompanhamento sempre atrelada a uma vistoria.
type Pendencia struct {
	ID            uuid.UUID `json:"id"`
	VistoriaID    uuid.UUID `json:"vistoria_id"`
	Titulo        string    `json:"titulo"`
	Descricao     string    `json:"descricao"`
	ResponsavelID uuid.UUID `json:"responsavel_id"`
	Status        string    `json:"status"`
	CriadoEm      time.Time `json:"criado_em"`
}

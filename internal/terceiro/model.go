package terceiro

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("terceiro não encontrado")
	ErrTipoInvalido = errors.New("tipo de terceiro inválido")
)

const (
	TipoCliente    = "Cliente"
	TipoFornecedor = "Fornecedor"
)

// Terceiro é uma contraparte financeira: cliente ou fornecedor.
type Terceiro struct {
	ID            uuid.UUID `json:"id"`
	Nome          string    `json:"nome"`
	Tipo          string    `json:"tipo"`
	TipoDocumento string    `json:"tipo_documento"`
	Documento     string    `json:"documento"`
	Email         string    `json:"email"`
	Telefone      string    `json:"telefone"`
	CriadoEm      time.Time `json:"criado_em"`
}

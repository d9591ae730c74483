package settings

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("configuração não encontrada")
	ErrSenhaMasterInvalida = errors.New("senha master incorreta")
)

// Solicitante identifica uma organização solicitante de vistorias.
type Solicitante struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}

// Configuracao é o documento singleton com as enumerações da plataforma e a
// senha master usada como confirmação secundária de mutações financeiras.
type Configuracao struct {
	Solicitantes          []Solicitante `json:"solicitantes"`
	Demandas              []string      `json:"demandas"`
	TiposVistoria         []string      `json:"tipos_vistoria"`
	Patios                []string      `json:"patios"`
	StatusPersonalizados  []string      `json:"status_personalizados"`
	CategoriasFinanceiras []string      `json:"categorias_financeiras"`
	Servicos              []string      `json:"servicos"`
	SenhaMaster           string        `json:"senha_master"`
	AtualizadoEm          time.Time     `json:"atualizado_em"`
	AtualizadoPor         *uuid.UUID    `json:"atualizado_por,omitempty"`
}

// Padrao devolve a configuração semeada quando o documento ainda não existe.
func Padrao() Configuracao {
	return Configuracao{
		Demandas:              []string{"Transferência", "Primeiro Emplacamento", "Sinistro", "Leilão"},
		TiposVistoria:         []string{"Cautelar", "Prévia", "Lacração", "Estrutural"},
		Patios:                []string{"Pátio Central"},
		StatusPersonalizados:  []string{},
		CategoriasFinanceiras: []string{"Vistoria", "Taxas", "Combustível", "Folha", "Outros"},
		Servicos:              []string{"Vistoria Veicular"},
	}
}

// NomeSolicitante devolve o nome do solicitante vinculado, se existir.
func (c Configuracao) NomeSolicitante(id uuid.UUID) (string, bool) {
	for _, s := range c.Solicitantes {
		if s.ID == id {
			return s.Nome, true
		}
	}
	return "", false
}

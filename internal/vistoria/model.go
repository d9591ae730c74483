package vistoria

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/util"
)

var (
	ErrNotFound       = errors.New("vistoria não encontrada")
	ErrStatusInvalido = errors.New("status inválido")
	// ErrDuplicada indica vistoria com mesma placa em janela de 30 dias;
	// a criação exige confirmação explícita.
	ErrDuplicada = errors.New("possível vistoria duplicada")
)

const (
	StatusSolicitado  = "Solicitado"
	StatusAgendado    = "Agendado"
	StatusEmAndamento = "Em Andamento"
	StatusConcluido   = "Concluído"
	StatusPendente    = "Pendente"
	StatusFinalizado  = "Finalizado"
)

var statusValidos = map[string]struct{}{
	StatusSolicitado:  {},
	StatusAgendado:    {},
	StatusEmAndamento: {},
	StatusConcluido:   {},
	StatusPendente:    {},
	StatusFinalizado:  {},
}

// StatusValido informa se o rótulo de status é conhecido.
func StatusValido(status string) bool {
	_, ok := statusValidos[status]
	return ok
}

// Vistoria é o agendamento de inspeção veicular.
type Vistoria struct {
	ID             uuid.UUID  `json:"id"`
	CodigoExibicao *string    `json:"codigo_exibicao,omitempty"`
	Solicitante    string     `json:"solicitante"`
	Demanda        string     `json:"demanda"`
	TipoVistoria   string     `json:"tipo_vistoria"`
	Placa          string     `json:"placa"`
	Descricao      string     `json:"descricao"`
	Patio          string     `json:"patio"`
	Data           time.Time  `json:"data"`
	VistoriadorID  *uuid.UUID `json:"vistoriador_id,omitempty"`
	Status         string     `json:"status"`
	Observacoes    string     `json:"observacoes"`
	CriadoEm       time.Time  `json:"criado_em"`
}

// Mensagem compõe o histórico de conversa de uma vistoria.
type Mensagem struct {
	ID         uuid.UUID `json:"id"`
	VistoriaID uuid.UUID `json:"vistoria_id"`
	AutorID    uuid.UUID `json:"autor_id"`
	AutorNome  string    `json:"autor_nome"`
	Texto      string    `json:"texto"`
	CriadoEm   time.Time `json:"criado_em"`
}

// CodigoEfetivo devolve o código exibido nas listagens: o código cadastrado,
// ou os últimos 6 caracteres do identificador em maiúsculas com prefixo '#'.
func (v Vistoria) CodigoEfetivo() string {
	if v.CodigoExibicao != nil && strings.TrimSpace(*v.CodigoExibicao) != "" {
		return strings.TrimSpace(*v.CodigoExibicao)
	}
	return util.CodigoCurto(v.ID.String())
}

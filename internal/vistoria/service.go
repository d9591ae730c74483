package vistoria

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/util"
)

// Colecao é o nome publicado no hub a cada mutação.
const Colecao = "vistorias"

type repository interface {
	ListAll(ctx context.Context) ([]Vistoria, error)
	ListByStatus(ctx context.Context, status string) ([]Vistoria, error)
	Get(ctx context.Context, id uuid.UUID) (*Vistoria, error)
	Create(ctx context.Context, v Vistoria) (*Vistoria, error)
	CreateLote(ctx context.Context, vistorias []Vistoria) error
	Update(ctx context.Context, v Vistoria) (*Vistoria, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteLote(ctx context.Context, ids []uuid.UUID) error
	AtualizarStatusLote(ctx context.Context, ids []uuid.UUID, de, para string) (int64, error)
	ListMensagens(ctx context.Context, vistoriaID uuid.UUID) ([]Mensagem, error)
	AddMensagem(ctx context.Context, m Mensagem) (*Mensagem, error)
}

// Ator identifica quem executa a operação.
type Ator struct {
	ID          uuid.UUID
	Papeis      []permission.Papel
	Solicitante string // nome vinculado, quando CLIENTE
}

// Service concentra regras de agendamento e visibilidade de vistorias.
type Service struct {
	repo repository
	hub  *realtime.Hub
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, hub *realtime.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Input agrupa os campos editáveis de uma vistoria.
type Input struct {
	CodigoExibicao *string
	Solicitante    string
	Demanda        string
	TipoVistoria   string
	Placa          string
	Descricao      string
	Patio          string
	Data           time.Time
	VistoriadorID  *uuid.UUID
	Status         string
	Observacoes    string

	// ConfirmarDuplicidade libera a criação mesmo com placa repetida
	// dentro da janela de 30 dias.
	ConfirmarDuplicidade bool
}

func (in *Input) validar() error {
	in.Solicitante = strings.TrimSpace(in.Solicitante)
	in.Placa = util.NormalizePlaca(in.Placa)
	in.Demanda = strings.TrimSpace(in.Demanda)
	in.TipoVistoria = strings.TrimSpace(in.TipoVistoria)
	in.Patio = strings.TrimSpace(in.Patio)

	if in.Solicitante == "" {
		return errors.New("solicitante obrigatório")
	}
	if in.Placa == "" {
		return errors.New("placa obrigatória")
	}
	if in.Data.IsZero() {
		return errors.New("data obrigatória")
	}
	return nil
}

// Visiveis devolve o subconjunto visível para o ator, já ordenado.
func (s *Service) Visiveis(ctx context.Context, ator Ator, periodo *Periodo) ([]Vistoria, error) {
	colecao, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FiltrarVisiveis(colecao, Visao{
		UsuarioID:   ator.ID,
		Papeis:      ator.Papeis,
		Solicitante: ator.Solicitante,
		Periodo:     periodo,
		Hoje:        util.Now(),
	}), nil
}

// Get busca uma vistoria pelo identificador.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Vistoria, error) {
	return s.repo.Get(ctx, id)
}

// Criar registra uma nova vistoria. CLIENTE entra sempre como Solicitado; o
// alerta de duplicidade de placa exige confirmação explícita e só vale na criação.
func (s *Service) Criar(ctx context.Context, ator Ator, in Input) (*Vistoria, error) {
	if err := in.validar(); err != nil {
		return nil, err
	}

	status := strings.TrimSpace(in.Status)
	if permission.TemPapel(ator.Papeis, permission.PapelCliente) &&
		!permission.TemPapel(ator.Papeis, permission.PapelMaster) &&
		!permission.TemPapel(ator.Papeis, permission.PapelAdmin) {
		// cliente não escolhe status: todo pedido entra na fila de aprovação
		status = StatusSolicitado
		in.VistoriadorID = nil
	}
	if status == "" {
		status = StatusAgendado
	}
	if !StatusValido(status) {
		return nil, ErrStatusInvalido
	}

	if !in.ConfirmarDuplicidade {
		colecao, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if dup := DuplicadaProxima(colecao, in.Placa, in.Data, nil); dup != nil {
			return nil, ErrDuplicada
		}
	}

	criada, err := s.repo.Create(ctx, Vistoria{
		ID:             uuid.New(),
		CodigoExibicao: in.CodigoExibicao,
		Solicitante:    in.Solicitante,
		Demanda:        in.Demanda,
		TipoVistoria:   in.TipoVistoria,
		Placa:          in.Placa,
		Descricao:      in.Descricao,
		Patio:          in.Patio,
		Data:           in.Data,
		VistoriadorID:  in.VistoriadorID,
		Status:         status,
		Observacoes:    in.Observacoes,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return criada, nil
}

// Atualizar edita uma vistoria existente. CLIENTE não altera status; a checagem
// de duplicidade não se aplica a edições.
func (s *Service) Atualizar(ctx context.Context, ator Ator, id uuid.UUID, in Input) (*Vistoria, error) {
	if err := in.validar(); err != nil {
		return nil, err
	}

	atual, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(in.Status)
	if permission.TemPapel(ator.Papeis, permission.PapelCliente) &&
		!permission.TemPapel(ator.Papeis, permission.PapelMaster) &&
		!permission.TemPapel(ator.Papeis, permission.PapelAdmin) {
		status = atual.Status
	}
	if status == "" {
		status = atual.Status
	}
	if !StatusValido(status) {
		return nil, ErrStatusInvalido
	}

	atualizada, err := s.repo.Update(ctx, Vistoria{
		ID:             id,
		CodigoExibicao: in.CodigoExibicao,
		Solicitante:    in.Solicitante,
		Demanda:        in.Demanda,
		TipoVistoria:   in.TipoVistoria,
		Placa:          in.Placa,
		Descricao:      in.Descricao,
		Patio:          in.Patio,
		Data:           in.Data,
		VistoriadorID:  in.VistoriadorID,
		Status:         status,
		Observacoes:    in.Observacoes,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return atualizada, nil
}

// Excluir remove uma vistoria.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(Colecao)
	return nil
}

// ExcluirLote remove várias vistorias em um único commit.
func (s *Service) ExcluirLote(ctx context.Context, ids []uuid.UUID) error {
	if err := s.repo.DeleteLote(ctx, ids); err != nil {
		return err
	}
	s.hub.Publish(Colecao)
	return nil
}

// FilaSolicitacoes lista os pedidos aguardando aprovação (fila de MASTER/ADMIN).
func (s *Service) FilaSolicitacoes(ctx context.Context) ([]Vistoria, error) {
	fila, err := s.repo.ListByStatus(ctx, StatusSolicitado)
	if err != nil {
		return nil, err
	}
	Ordenar(fila)
	return fila, nil
}

// Aprovar move solicitações para Agendado, em lote atômico.
func (s *Service) Aprovar(ctx context.Context, ids []uuid.UUID) (int64, error) {
	aprovadas, err := s.repo.AtualizarStatusLote(ctx, ids, StatusSolicitado, StatusAgendado)
	if err != nil {
		return 0, err
	}
	if aprovadas > 0 {
		s.hub.Publish(Colecao)
	}
	log.Info().Int64("aprovadas", aprovadas).Int("solicitadas", len(ids)).Msg("aprovação de solicitações")
	return aprovadas, nil
}

// CriarLote insere vistorias importadas: status forçado para Solicitado e sem
// vistoriador atribuído.
func (s *Service) CriarLote(ctx context.Context, vistorias []Vistoria) error {
	for i := range vistorias {
		if vistorias[i].ID == uuid.Nil {
			vistorias[i].ID = uuid.New()
		}
		vistorias[i].Status = StatusSolicitado
		vistorias[i].VistoriadorID = nil
		vistorias[i].Placa = util.NormalizePlaca(vistorias[i].Placa)
	}
	if err := s.repo.CreateLote(ctx, vistorias); err != nil {
		return err
	}
	s.hub.Publish(Colecao)
	return nil
}

// Mensagens lista o histórico de conversa.
func (s *Service) Mensagens(ctx context.Context, vistoriaID uuid.UUID) ([]Mensagem, error) {
	if _, err := s.repo.Get(ctx, vistoriaID); err != nil {
		return nil, err
	}
	return s.repo.ListMensagens(ctx, vistoriaID)
}

// AddMensagem acrescenta uma mensagem ao histórico.
func (s *Service) AddMensagem(ctx context.Context, ator Ator, vistoriaID uuid.UUID, texto string) (*Mensagem, error) {
	texto = strings.TrimSpace(texto)
	if texto == "" {
		return nil, errors.New("mensagem vazia")
	}
	if _, err := s.repo.Get(ctx, vistoriaID); err != nil {
		return nil, err
	}

	m, err := s.repo.AddMensagem(ctx, Mensagem{
		ID:         uuid.New(),
		VistoriaID: vistoriaID,
		AutorID:    ator.ID,
		Texto:      texto,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return m, nil
}

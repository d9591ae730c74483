package pendencia

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/vistoria"
)

// Colecao é o nome publicado no hub a cada mutação.
const Colecao = "pendencias"

type repository interface {
	ListAll(ctx context.Context) ([]Pendencia, error)
	Get(ctx context.Context, id uuid.UUID) (*Pendencia, error)
	Create(ctx context.Context, p Pendencia) (*Pendencia, error)
	Update(ctx context.Context, p Pendencia) (*Pendencia, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type vistoriaLookup interface {
	ListAll(ctx context.Context) ([]vistoria.Vistoria, error)
	Get(ctx context.Context, id uuid.UUID) (*vistoria.Vistoria, error)
}

type papeisLookup interface {
	PapeisDoUsuario(ctx context.Context, id uuid.UUID) ([]permission.Papel, error)
}

// Ator identifica quem executa a operação.
type Ator struct {
	ID          uuid.UUID
	Papeis      []permission.Papel
	Solicitante string
}

// Service concentra regras de pendências.
type Service struct {
	repo      repository
	vistorias vistoriaLookup
	usuarios  papeisLookup
	hub       *realtime.Hub
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, vistorias vistoriaLookup, usuarios papeisLookup, hub *realtime.Hub) *Service {
	return &Service{repo: repo, vistorias: vistorias, usuarios: usuarios, hub: hub}
}

// Input agrupa os campos editáveis de uma pendência.
type Input struct {
	VistoriaID    uuid.UUID
	Titulo        string
	Descricao     string
	ResponsavelID uuid.UUID
	Status        string
}

func (in *Input) validar() error {
	in.Titulo = strings.TrimSpace(in.Titulo)
	if in.Titulo == "" {
		return errors.New("título obrigatório")
	}
	if in.VistoriaID == uuid.Nil {
		return errors.New("vistoria obrigatória")
	}
	if in.ResponsavelID == uuid.Nil {
		return errors.New("responsável obrigatório")
	}
	if in.Status == "" {
		in.Status = StatusPendente
	}
	if !StatusValido(in.Status) {
		return ErrStatusInvalido
	}
	return nil
}

// Visiveis devolve o subconjunto visível de pendências para o ator.
func (s *Service) Visiveis(ctx context.Context, ator Ator) ([]Pendencia, error) {
	pendencias, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	visao := Visao{UsuarioID: ator.ID, Papeis: ator.Papeis, Solicitante: ator.Solicitante}

	// o mapa de vistorias só é necessário para o recorte por solicitante
	var indice map[uuid.UUID]vistoria.Vistoria
	if permission.TemPapel(ator.Papeis, permission.PapelCliente) {
		todas, err := s.vistorias.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		indice = make(map[uuid.UUID]vistoria.Vistoria, len(todas))
		for _, v := range todas {
			indice[v.ID] = v
		}
	}

	return FiltrarVisiveis(pendencias, indice, visao), nil
}

// Get busca uma pendência.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pendencia, error) {
	return s.repo.Get(ctx, id)
}

// Criar registra uma pendência atrelada a uma vistoria existente, validando a
// elegibilidade do responsável para o papel do ator.
func (s *Service) Criar(ctx context.Context, ator Ator, in Input) (*Pendencia, error) {
	if err := in.validar(); err != nil {
		return nil, err
	}

	if _, err := s.vistorias.Get(ctx, in.VistoriaID); err != nil {
		return nil, err
	}

	if err := s.validarResponsavel(ctx, ator, in.ResponsavelID); err != nil {
		return nil, err
	}

	criada, err := s.repo.Create(ctx, Pendencia{
		ID:            uuid.New(),
		VistoriaID:    in.VistoriaID,
		Titulo:        in.Titulo,
		Descricao:     in.Descricao,
		ResponsavelID: in.ResponsavelID,
		Status:        in.Status,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return criada, nil
}

// Atualizar edita uma pendência existente.
func (s *Service) Atualizar(ctx context.Context, ator Ator, id uuid.UUID, in Input) (*Pendencia, error) {
	atual, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.VistoriaID = atual.VistoriaID

	if err := in.validar(); err != nil {
		return nil, err
	}

	if in.ResponsavelID != atual.ResponsavelID {
		if err := s.validarResponsavel(ctx, ator, in.ResponsavelID); err != nil {
			return nil, err
		}
	}

	atualizada, err := s.repo.Update(ctx, Pendencia{
		ID:            id,
		VistoriaID:    atual.VistoriaID,
		Titulo:        in.Titulo,
		Descricao:     in.Descricao,
		ResponsavelID: in.ResponsavelID,
		Status:        in.Status,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return atualizada, nil
}

// Excluir remove uma pendência.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(Colecao)
	return nil
}

func (s *Service) validarResponsavel(ctx context.Context, ator Ator, responsavelID uuid.UUID) error {
	papeisAlvo, err := s.usuarios.PapeisDoUsuario(ctx, responsavelID)
	if err != nil {
		return err
	}
	if !ResponsavelPermitido(ator.Papeis, papeisAlvo) {
		return ErrResponsavelInvalido
	}
	return nil
}

package terceiro

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/util"
)

// Colecao é o nome publicado no hub a cada mutação.
const Colecao = "terceiros"

type repository interface {
	List(ctx context.Context) ([]Terceiro, error)
	Get(ctx context.Context, id uuid.UUID) (*Terceiro, error)
	Create(ctx context.Context, t Terceiro) (*Terceiro, error)
	Update(ctx context.Context, t Terceiro) (*Terceiro, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service concentra regras de terceiros.
type Service struct {
	repo repository
	hub  *realtime.Hub
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, hub *realtime.Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func validar(t *Terceiro) error {
	t.Nome = strings.TrimSpace(t.Nome)
	t.Documento = strings.TrimSpace(t.Documento)
	t.Email = strings.TrimSpace(t.Email)

	if t.Nome == "" {
		return errors.New("nome obrigatório")
	}
	if t.Tipo != TipoCliente && t.Tipo != TipoFornecedor {
		return ErrTipoInvalido
	}
	if t.Email != "" {
		if err := util.ValidateEmail(t.Email); err != nil {
			return err
		}
	}
	return nil
}

// List devolve todos os terceiros.
func (s *Service) List(ctx context.Context) ([]Terceiro, error) {
	return s.repo.List(ctx)
}

// Get busca um terceiro.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Terceiro, error) {
	return s.repo.Get(ctx, id)
}

// Criar registra um novo terceiro.
func (s *Service) Criar(ctx context.Context, t Terceiro) (*Terceiro, error) {
	if err := validar(&t); err != nil {
		return nil, err
	}
	t.ID = uuid.New()

	criado, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return criado, nil
}

// Atualizar edita um terceiro existente.
func (s *Service) Atualizar(ctx context.Context, t Terceiro) (*Terceiro, error) {
	if err := validar(&t); err != nil {
		return nil, err
	}

	atualizado, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(Colecao)
	return atualizado, nil
}

// Excluir remove um terceiro.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.Publish(Colecao)
	return nil
}

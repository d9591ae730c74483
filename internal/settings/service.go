package settings

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type repository interface {
	Get(ctx context.Context) (*Configuracao, error)
	Save(ctx context.Context, cfg Configuracao) (*Configuracao, error)
}

// Service reúne regras sobre o documento de configuração.
type Service struct {
	repo repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Get devolve a configuração vigente, semeando o padrão quando ausente.
func (s *Service) Get(ctx context.Context) (*Configuracao, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			padrao := Padrao()
			return s.repo.Save(ctx, padrao)
		}
		return nil, err
	}
	return cfg, nil
}

// Update substitui o documento de configuração.
func (s *Service) Update(ctx context.Context, cfg Configuracao, atualizadoPor uuid.UUID) (*Configuracao, error) {
	cfg.SenhaMaster = strings.TrimSpace(cfg.SenhaMaster)
	for i := range cfg.Solicitantes {
		cfg.Solicitantes[i].Nome = strings.TrimSpace(cfg.Solicitantes[i].Nome)
		if cfg.Solicitantes[i].Nome == "" {
			return nil, errors.New("solicitante sem nome")
		}
		if cfg.Solicitantes[i].ID == uuid.Nil {
			cfg.Solicitantes[i].ID = uuid.New()
		}
	}
	cfg.AtualizadoPor = &atualizadoPor
	return s.repo.Save(ctx, cfg)
}

// VerificarSenhaMaster compara a senha informada com o segredo compartilhado.
// Comparação por igualdade exata, conforme o fluxo original do produto.
func (s *Service) VerificarSenhaMaster(ctx context.Context, fornecida string) error {
	cfg, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if cfg.SenhaMaster == "" {
		return ErrSenhaMasterInvalida
	}
	if subtle.ConstantTimeCompare([]byte(cfg.SenhaMaster), []byte(strings.TrimSpace(fornecida))) != 1 {
		return ErrSenhaMasterInvalida
	}
	return nil
}

// NomeSolicitante resolve o nome do solicitante pelo identificador.
func (s *Service) NomeSolicitante(ctx context.Context, id uuid.UUID) (string, error) {
	cfg, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	nome, ok := cfg.NomeSolicitante(id)
	if !ok {
		return "", ErrNotFound
	}
	return nome, nil
}

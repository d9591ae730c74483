package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/inspecar/vistorias/internal/auth"
	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/realtime"
	"github.com/inspecar/vistorias/internal/repo"
	"github.com/inspecar/vistorias/internal/util"
)

var (
	// ErrPapelDesconhecido indica papel fora do conjunto suportado.
	ErrPapelDesconhecido = errors.New("papel desconhecido")
	// ErrSemPapeis indica tentativa de deixar um usuário sem nenhum papel.
	ErrSemPapeis = errors.New("usuário precisa de pelo menos um papel")
	// ErrClienteSemSolicitante indica CLIENTE sem vínculo com solicitante.
	ErrClienteSemSolicitante = errors.New("usuário CLIENTE exige solicitante vinculado")
	// ErrEdicaoNaoPermitida indica que o ator não pode alterar o usuário alvo.
	ErrEdicaoNaoPermitida = errors.New("sem permissão para alterar este usuário")
	// ErrAutoExclusao impede que o usuário remova a própria conta.
	ErrAutoExclusao = errors.New("não é possível excluir a própria conta")
)

// ColecaoUsuarios é o nome publicado no hub a cada mutação de usuário.
const ColecaoUsuarios = "usuarios"

type userRepository interface {
	ListUsuarios(ctx context.Context) ([]repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertUsuario(ctx context.Context, u repo.Usuario) (repo.Usuario, error)
	UpdateUsuario(ctx context.Context, u repo.Usuario) (repo.Usuario, error)
	UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string, trocarSenha bool) error
	DeleteUsuario(ctx context.Context, id uuid.UUID) error
	InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error
}

// UsuarioInput agrupa os campos editáveis de um usuário.
type UsuarioInput struct {
	Nome          string
	Email         string
	Senha         string
	Papeis        []string
	Matriz        map[string]string
	SolicitanteID *uuid.UUID
	Ativo         bool
}

// UserService concentra o cadastro de usuários e a edição de papéis e
// permissões.
type UserService struct {
	repo userRepository
	hub  *realtime.Hub
}

// NewUserService cria instância de UserService.
func NewUserService(repository userRepository, hub *realtime.Hub) *UserService {
	return &UserService{repo: repository, hub: hub}
}

func parsePapeis(brutos []string) ([]permission.Papel, error) {
	var papeis []permission.Papel
	for _, raw := range brutos {
		papel, ok := permission.ParsePapel(raw)
		if !ok {
			return nil, ErrPapelDesconhecido
		}
		if !permission.TemPapel(papeis, papel) {
			papeis = append(papeis, papel)
		}
	}
	if len(papeis) == 0 {
		return nil, ErrSemPapeis
	}
	return papeis, nil
}

func parseMatriz(bruta map[string]string) permission.Matriz {
	if len(bruta) == 0 {
		return nil
	}
	matriz := make(permission.Matriz, len(bruta))
	for modulo, raw := range bruta {
		if nivel, ok := permission.ParseNivel(raw); ok {
			matriz[permission.Modulo(modulo)] = nivel
		}
	}
	return matriz
}

func validarVinculos(papeis []permission.Papel, solicitante *uuid.UUID) error {
	if permission.TemPapel(papeis, permission.PapelCliente) && solicitante == nil {
		return ErrClienteSemSolicitante
	}
	return nil
}

// List devolve todos os usuários cadastrados.
func (s *UserService) List(ctx context.Context) ([]repo.Usuario, error) {
	return s.repo.ListUsuarios(ctx)
}

// Get carrega um usuário.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*repo.Usuario, error) {
	u, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Criar cadastra um novo usuário com senha provisória.
func (s *UserService) Criar(ctx context.Context, ator repo.Usuario, in UsuarioInput) (*repo.Usuario, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" {
		return nil, errors.New("nome obrigatório")
	}
	if err := util.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(in.Senha); err != nil {
		return nil, err
	}

	papeis, err := parsePapeis(in.Papeis)
	if err != nil {
		return nil, err
	}
	if !permission.PodeEditarPapeis(ator.Papeis, papeis) {
		return nil, ErrEdicaoNaoPermitida
	}
	if err := validarVinculos(papeis, in.SolicitanteID); err != nil {
		return nil, err
	}

	matriz := parseMatriz(in.Matriz)
	if len(matriz) > 0 && !permission.PodeEditarPermissoes(ator.Papeis, papeis) {
		return nil, ErrEdicaoNaoPermitida
	}

	hash, err := auth.Hash(in.Senha)
	if err != nil {
		return nil, err
	}

	criado, err := s.repo.InsertUsuario(ctx, repo.Usuario{
		ID:            uuid.New(),
		Nome:          in.Nome,
		Email:         strings.TrimSpace(in.Email),
		SenhaHash:     hash,
		Papeis:        papeis,
		Matriz:        matriz,
		SolicitanteID: in.SolicitanteID,
		TrocarSenha:   true,
		Ativo:         in.Ativo,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoUsuarios)
	log.Info().Str("usuario", criado.ID.String()).Str("por", ator.ID.String()).Msg("usuário criado")
	return &criado, nil
}

// Atualizar edita nome, e-mail, papéis, matriz e vínculos de um usuário.
func (s *UserService) Atualizar(ctx context.Context, ator repo.Usuario, id uuid.UUID, in UsuarioInput) (*repo.Usuario, error) {
	alvo, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Nome = strings.TrimSpace(in.Nome)
	if in.Nome == "" {
		return nil, errors.New("nome obrigatório")
	}
	if err := util.ValidateEmail(in.Email); err != nil {
		return nil, err
	}

	papeis, err := parsePapeis(in.Papeis)
	if err != nil {
		return nil, err
	}
	if !permission.PodeEditarPapeis(ator.Papeis, alvo.Papeis) || !permission.PodeEditarPapeis(ator.Papeis, papeis) {
		return nil, ErrEdicaoNaoPermitida
	}
	if err := validarVinculos(papeis, in.SolicitanteID); err != nil {
		return nil, err
	}

	matriz := parseMatriz(in.Matriz)
	if !matrizIgual(matriz, alvo.Matriz) && !permission.PodeEditarPermissoes(ator.Papeis, alvo.Papeis) {
		return nil, ErrEdicaoNaoPermitida
	}

	alvo.Nome = in.Nome
	alvo.Email = strings.TrimSpace(in.Email)
	alvo.Papeis = papeis
	alvo.Matriz = matriz
	alvo.SolicitanteID = in.SolicitanteID
	alvo.Ativo = in.Ativo

	atualizado, err := s.repo.UpdateUsuario(ctx, alvo)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ColecaoUsuarios)
	return &atualizado, nil
}

func matrizIgual(a, b permission.Matriz) bool {
	if len(a) != len(b) {
		return false
	}
	for modulo, nivel := range a {
		if b[modulo] != nivel {
			return false
		}
	}
	return true
}

// ResetarSenha define uma senha provisória e força a troca no próximo login.
func (s *UserService) ResetarSenha(ctx context.Context, ator repo.Usuario, id uuid.UUID, senha string) error {
	alvo, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return err
	}
	if !permission.PodeEditarPapeis(ator.Papeis, alvo.Papeis) {
		return ErrEdicaoNaoPermitida
	}

	if err := util.ValidatePassword(senha); err != nil {
		return err
	}
	hash, err := auth.Hash(senha)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSenha(ctx, id, hash, true); err != nil {
		return err
	}
	if err := s.repo.InvalidateOtherRefreshTokens(ctx, id, ""); err != nil {
		return err
	}

	log.Info().Str("usuario", id.String()).Str("por", ator.ID.String()).Msg("senha redefinida pelo gestor")
	return nil
}

// Excluir remove um usuário. Contas MASTER e a própria conta não podem ser
// removidas.
func (s *UserService) Excluir(ctx context.Context, ator repo.Usuario, id uuid.UUID) error {
	if ator.ID == id {
		return ErrAutoExclusao
	}

	alvo, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return err
	}
	if alvo.TemPapel(permission.PapelMaster) {
		return ErrEdicaoNaoPermitida
	}
	if !permission.PodeEditarPapeis(ator.Papeis, alvo.Papeis) {
		return ErrEdicaoNaoPermitida
	}

	if err := s.repo.DeleteUsuario(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(ColecaoUsuarios)
	log.Info().Str("usuario", id.String()).Str("por", ator.ID.String()).Msg("usuário excluído")
	return nil
}

// PapeisDoUsuario devolve os papéis de um usuário, para validar atribuições.
func (s *UserService) PapeisDoUsuario(ctx context.Context, id uuid.UUID) ([]permission.Papel, error) {
	u, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Papeis, nil
}

// MatrizDoUsuario devolve a matriz efetiva vigente, consultada a cada
// requisição para refletir revogações imediatamente.
func (s *UserService) MatrizDoUsuario(ctx context.Context, id uuid.UUID) (permission.Matriz, error) {
	u, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Ativo {
		return permission.Matriz{}, nil
	}
	return u.MatrizEfetiva(), nil
}

// Responsaveis lista usuários ativos que possuem algum dos papéis dados.
func (s *UserService) Responsaveis(ctx context.Context, papeis []permission.Papel) ([]repo.Usuario, error) {
	todos, err := s.repo.ListUsuarios(ctx)
	if err != nil {
		return nil, err
	}

	var elegiveis []repo.Usuario
	for _, u := range todos {
		if !u.Ativo {
			continue
		}
		for _, p := range papeis {
			if u.TemPapel(p) {
				elegiveis = append(elegiveis, u)
				break
			}
		}
	}
	return elegiveis, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/inspecar/vistorias/internal/auth"
	"github.com/inspecar/vistorias/internal/repo"
	"github.com/inspecar/vistorias/internal/util"
)

var (
	// ErrCredenciaisInvalidas cobre e-mail desconhecido e senha incorreta,
	// sem distinguir os dois casos na resposta.
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
	// ErrUsuarioInativo indica conta desativada pelo administrador.
	ErrUsuarioInativo = errors.New("usuário inativo")
	// ErrSenhaAtualIncorreta indica falha na confirmação da senha vigente.
	ErrSenhaAtualIncorreta = errors.New("senha atual incorreta")
	// ErrRecuperacaoInvalida indica token de recuperação desconhecido ou expirado.
	ErrRecuperacaoInvalida = errors.New("token de recuperação inválido")
)

const recuperacaoTTL = 30 * time.Minute

// TokenPair agrupa os tokens emitidos em um login ou refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TrocarSenha  bool   `json:"trocar_senha"`
}

type authRepository interface {
	GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error
	UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string, trocarSenha bool) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra autenticação, sessão e recuperação de senha.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria instância de AuthService.
func NewAuthService(repository authRepository, redisClient redisCommander, jwtManager *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repository,
		redis:      redisClient,
		jwt:        jwtManager,
		refreshTTL: refreshTTL,
	}
}

// JWT expõe o gerenciador de tokens para o middleware de autenticação.
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

func papeisTexto(u repo.Usuario) []string {
	out := make([]string, 0, len(u.Papeis))
	for _, p := range u.Papeis {
		out = append(out, string(p))
	}
	return out
}

// emitir gera o par access+refresh e registra o refresh em banco e Redis.
func (s *AuthService) emitir(ctx context.Context, u repo.Usuario) (*TokenPair, error) {
	access, _, err := s.jwt.GenerateAccessToken(u.ID.String(), papeisTexto(u))
	if err != nil {
		return nil, err
	}

	raw, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	agora := util.Now()
	_, err = s.repo.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		ID:        uuid.New(),
		Subject:   u.ID,
		TokenHash: hashed,
		Expiracao: agora.Add(s.refreshTTL),
		CriadoEm:  agora,
	})
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, auth.RefreshRedisKey(hashed), u.ID.String(), s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		TrocarSenha:  u.TrocarSenha,
	}, nil
}

// Login autentica por e-mail e senha.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*TokenPair, *repo.Usuario, error) {
	u, err := s.repo.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, ErrCredenciaisInvalidas
		}
		return nil, nil, err
	}

	if !u.Ativo {
		return nil, nil, ErrUsuarioInativo
	}

	ok, err := auth.Verify(senha, u.SenhaHash)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrCredenciaisInvalidas
	}

	par, err := s.emitir(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("usuario", u.ID.String()).Msg("login efetuado")
	return par, &u, nil
}

// Refresh rotaciona o refresh token: valida o atual, revoga e emite um novo par.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	hashed := auth.HashRefreshToken(rawToken)

	token, err := s.repo.GetRefreshTokenByHash(ctx, hashed)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, auth.ErrInvalidRefresh
		}
		return nil, err
	}
	if token.Revogado || util.Now().After(token.Expiracao) {
		return nil, auth.ErrInvalidRefresh
	}

	if err := s.redis.Get(ctx, auth.RefreshRedisKey(hashed)).Err(); err != nil {
		if err == redis.Nil {
			return nil, auth.ErrInvalidRefresh
		}
		return nil, err
	}

	u, err := s.repo.GetUsuarioByID(ctx, token.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, auth.ErrInvalidRefresh
		}
		return nil, err
	}
	if !u.Ativo {
		return nil, ErrUsuarioInativo
	}

	if err := s.repo.RevokeRefreshToken(ctx, hashed); err != nil {
		return nil, err
	}
	if err := s.redis.Del(ctx, auth.RefreshRedisKey(hashed)).Err(); err != nil && err != redis.Nil {
		return nil, err
	}

	return s.emitir(ctx, u)
}

// Logout revoga o refresh token informado. Token desconhecido não é erro.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	hashed := auth.HashRefreshToken(rawToken)

	if err := s.repo.RevokeRefreshToken(ctx, hashed); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if err := s.redis.Del(ctx, auth.RefreshRedisKey(hashed)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// GetMe carrega o usuário autenticado.
func (s *AuthService) GetMe(ctx context.Context, id uuid.UUID) (*repo.Usuario, error) {
	u, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AlterarSenha troca a senha do próprio usuário após confirmar a atual e
// derruba as demais sessões ativas.
func (s *AuthService) AlterarSenha(ctx context.Context, id uuid.UUID, senhaAtual, senhaNova string) error {
	u, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.Verify(senhaAtual, u.SenhaHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSenhaAtualIncorreta
	}

	if err := util.ValidatePassword(senhaNova); err != nil {
		return err
	}

	hash, err := auth.Hash(senhaNova)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSenha(ctx, id, hash, false); err != nil {
		return err
	}

	if err := s.repo.InvalidateOtherRefreshTokens(ctx, id, ""); err != nil {
		return err
	}

	log.Info().Str("usuario", id.String()).Msg("senha alterada")
	return nil
}

// SolicitarRecuperacao emite um token de recuperação de curta duração. O token
// bruto é devolvido para envio fora de banda; e-mail inexistente não gera erro.
func (s *AuthService) SolicitarRecuperacao(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	raw, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return "", err
	}

	if err := s.redis.Set(ctx, auth.RecoveryRedisKey(hashed), u.ID.String(), recuperacaoTTL).Err(); err != nil {
		return "", err
	}

	log.Info().Str("usuario", u.ID.String()).Msg("recuperação de senha solicitada")
	return raw, nil
}

// RedefinirSenha consome um token de recuperação e define a nova senha.
func (s *AuthService) RedefinirSenha(ctx context.Context, rawToken, senhaNova string) error {
	hashed := auth.HashRefreshToken(rawToken)
	chave := auth.RecoveryRedisKey(hashed)

	valor, err := s.redis.Get(ctx, chave).Result()
	if err == redis.Nil {
		return ErrRecuperacaoInvalida
	}
	if err != nil {
		return err
	}

	id, err := uuid.Parse(valor)
	if err != nil {
		return ErrRecuperacaoInvalida
	}

	if err := util.ValidatePassword(senhaNova); err != nil {
		return err
	}

	hash, err := auth.Hash(senhaNova)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateSenha(ctx, id, hash, false); err != nil {
		return err
	}

	if err := s.redis.Del(ctx, chave).Err(); err != nil && err != redis.Nil {
		return err
	}
	if err := s.repo.InvalidateOtherRefreshTokens(ctx, id, ""); err != nil {
		return err
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inspecar/vistorias/internal/auth"
	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/repo"
)

type stubAuthRepo struct {
	usuarios map[uuid.UUID]repo.Usuario
	tokens   map[string]repo.TokenRefresh
	senhas   map[uuid.UUID]string
}

func novoStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		usuarios: make(map[uuid.UUID]repo.Usuario),
		tokens:   make(map[string]repo.TokenRefresh),
		senhas:   make(map[uuid.UUID]string),
	}
}

func (r *stubAuthRepo) GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (r *stubAuthRepo) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (r *stubAuthRepo) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error) {
	token := repo.TokenRefresh{
		ID:        arg.ID,
		Subject:   arg.Subject,
		TokenHash: arg.TokenHash,
		Expiracao: arg.Expiracao,
		CriadoEm:  arg.CriadoEm,
	}
	r.tokens[arg.TokenHash] = token
	return token, nil
}

func (r *stubAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return repo.TokenRefresh{}, repo.ErrNotFound
	}
	return token, nil
}

func (r *stubAuthRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return repo.ErrNotFound
	}
	token.Revogado = true
	r.tokens[tokenHash] = token
	return nil
}

func (r *stubAuthRepo) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	for hash, token := range r.tokens {
		if token.Subject == subject && hash != keepHash {
			token.Revogado = true
			r.tokens[hash] = token
		}
	}
	return nil
}

func (r *stubAuthRepo) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string, trocarSenha bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.SenhaHash = senhaHash
	u.TrocarSenha = trocarSenha
	r.usuarios[id] = u
	return nil
}

type fakeRedis struct {
	dados map[string]string
}

func novoFakeRedis() *fakeRedis {
	return &fakeRedis{dados: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f.dados[key] = v
	case []byte:
		f.dados[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	valor, ok := f.dados[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(valor, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.dados[key]; ok {
			delete(f.dados, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func novoAuthService(t *testing.T) (*AuthService, *stubAuthRepo, *fakeRedis, repo.Usuario) {
	t.Helper()

	repositorio := novoStubAuthRepo()
	rdb := novoFakeRedis()

	hash, err := auth.Hash("senha-correta")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := repo.Usuario{
		ID:        uuid.New(),
		Nome:      "Operador",
		Email:     "operador@exemplo.com",
		SenhaHash: hash,
		Papeis:    []permission.Papel{permission.PapelAdmin},
		Ativo:     true,
	}
	repositorio.usuarios[u.ID] = u

	jwtManager := auth.NewJWTManager("segredo-de-teste", 15*time.Minute)
	svc := NewAuthService(repositorio, rdb, jwtManager, 24*time.Hour)
	return svc, repositorio, rdb, u
}

func TestLogin(t *testing.T) {
	svc, repositorio, _, u := novoAuthService(t)
	ctx := context.Background()

	par, logado, err := svc.Login(ctx, u.Email, "senha-correta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if par.AccessToken == "" || par.RefreshToken == "" {
		t.Fatal("par de tokens incompleto")
	}
	if logado.ID != u.ID {
		t.Error("usuário errado no retorno")
	}

	claims, err := svc.JWT().ParseAndValidate(par.AccessToken)
	if err != nil {
		t.Fatalf("access token inválido: %v", err)
	}
	if claims.Subject != u.ID.String() {
		t.Errorf("subject: %s", claims.Subject)
	}
	if len(claims.Papeis) != 1 || claims.Papeis[0] != "ADMIN" {
		t.Errorf("papeis no token: %v", claims.Papeis)
	}

	if len(repositorio.tokens) != 1 {
		t.Errorf("refresh não registrado em banco: %d", len(repositorio.tokens))
	}
}

func TestLoginCredenciaisInvalidas(t *testing.T) {
	svc, _, _, u := novoAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, u.Email, "senha-errada"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Errorf("senha errada: veio %v", err)
	}
	if _, _, err := svc.Login(ctx, "ninguem@exemplo.com", "tanto-faz"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Errorf("e-mail desconhecido: veio %v", err)
	}
}

func TestLoginUsuarioInativo(t *testing.T) {
	svc, repositorio, _, u := novoAuthService(t)
	u.Ativo = false
	repositorio.usuarios[u.ID] = u

	if _, _, err := svc.Login(context.Background(), u.Email, "senha-correta"); !errors.Is(err, ErrUsuarioInativo) {
		t.Fatalf("esperado ErrUsuarioInativo, veio %v", err)
	}
}

func TestRefreshRotaciona(t *testing.T) {
	svc, _, _, u := novoAuthService(t)
	ctx := context.Background()

	par, _, err := svc.Login(ctx, u.Email, "senha-correta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	novo, err := svc.Refresh(ctx, par.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if novo.RefreshToken == par.RefreshToken {
		t.Fatal("refresh token não foi rotacionado")
	}

	// o token antigo foi revogado na rotação
	if _, err := svc.Refresh(ctx, par.RefreshToken); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("token antigo reusado: veio %v", err)
	}
}

func TestRefreshDesconhecido(t *testing.T) {
	svc, _, _, _ := novoAuthService(t)

	if _, err := svc.Refresh(context.Background(), "token-inventado"); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("esperado ErrInvalidRefresh, veio %v", err)
	}
}

func TestLogoutRevoga(t *testing.T) {
	svc, _, _, u := novoAuthService(t)
	ctx := context.Background()

	par, _, err := svc.Login(ctx, u.Email, "senha-correta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, par.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, par.RefreshToken); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("sessão encerrada ainda renova: veio %v", err)
	}

	// token desconhecido não é erro
	if err := svc.Logout(ctx, "token-inventado"); err != nil {
		t.Fatalf("logout idempotente: %v", err)
	}
}

func TestAlterarSenha(t *testing.T) {
	svc, _, _, u := novoAuthService(t)
	ctx := context.Background()

	if err := svc.AlterarSenha(ctx, u.ID, "senha-errada", "senha-nova-123"); !errors.Is(err, ErrSenhaAtualIncorreta) {
		t.Errorf("confirmação errada: veio %v", err)
	}
	if err := svc.AlterarSenha(ctx, u.ID, "senha-correta", "curta"); err == nil {
		t.Error("senha curta deveria ser rejeitada")
	}

	par, _, err := svc.Login(ctx, u.Email, "senha-correta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.AlterarSenha(ctx, u.ID, "senha-correta", "senha-nova-123"); err != nil {
		t.Fatalf("AlterarSenha: %v", err)
	}

	// troca de senha derruba as sessões existentes
	if _, err := svc.Refresh(ctx, par.RefreshToken); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("sessão antiga sobreviveu: veio %v", err)
	}
	if _, _, err := svc.Login(ctx, u.Email, "senha-nova-123"); err != nil {
		t.Fatalf("login com a senha nova: %v", err)
	}
}

func TestRecuperacaoDeSenha(t *testing.T) {
	svc, repositorio, _, u := novoAuthService(t)
	ctx := context.Background()

	// e-mail desconhecido não revela nada
	token, err := svc.SolicitarRecuperacao(ctx, "ninguem@exemplo.com")
	if err != nil || token != "" {
		t.Fatalf("e-mail desconhecido: %q, %v", token, err)
	}

	token, err = svc.SolicitarRecuperacao(ctx, u.Email)
	if err != nil || token == "" {
		t.Fatalf("SolicitarRecuperacao: %q, %v", token, err)
	}

	if err := svc.RedefinirSenha(ctx, "token-inventado", "senha-nova-123"); !errors.Is(err, ErrRecuperacaoInvalida) {
		t.Errorf("token inventado: veio %v", err)
	}

	if err := svc.RedefinirSenha(ctx, token, "senha-nova-123"); err != nil {
		t.Fatalf("RedefinirSenha: %v", err)
	}
	if _, _, err := svc.Login(ctx, u.Email, "senha-nova-123"); err != nil {
		t.Fatalf("login após redefinição: %v", err)
	}

	// o token é de uso único
	if err := svc.RedefinirSenha(ctx, token, "outra-senha-123"); !errors.Is(err, ErrRecuperacaoInvalida) {
		t.Fatalf("token reusado: veio %v", err)
	}

	if u := repositorio.usuarios[u.ID]; u.TrocarSenha {
		t.Error("redefinição não deve forçar nova troca")
	}
}

package repo

import (
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
)

// Usuario representa um usuário do painel de vistorias.
type Usuario struct {
	ID            uuid.UUID
	Nome          string
	Email         string
	SenhaHash     string
	Papeis        []permission.Papel
	Matriz        permission.Matriz
	SolicitanteID *uuid.UUID
	TrocarSenha   bool
	Ativo         bool
	CriadoEm      time.Time
}

// MatrizEfetiva calcula a matriz de permissões vigente do usuário.
func (u Usuario) MatrizEfetiva() permission.Matriz {
	return permission.Efetiva(u.Papeis, u.Matriz)
}

// TemPapel informa se o usuário possui determinado papel.
func (u Usuario) TemPapel(p permission.Papel) bool {
	return permission.TemPapel(u.Papeis, p)
}

// TokenRefresh modela a tabela de refresh tokens.
type TokenRefresh struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
	Revogado  bool
}

// InsertRefreshTokenParams agrupa os campos de inserção de refresh token.
type InsertRefreshTokenParams struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inspecar/vistorias/internal/permission"
)

// Queries provê acesso às tabelas de usuários e refresh tokens.
type Queries struct {
	pool *pgxpool.Pool
}

// New cria uma instância de Queries sobre o pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const usuarioColunas = `id, nome, email, senha_hash, papeis, matriz, solicitante_id, trocar_senha, ativo, criado_em`

func scanUsuario(row pgx.Row) (Usuario, error) {
	var (
		u          Usuario
		papeis     []string
		matrizJSON []byte
	)
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &papeis, &matrizJSON, &u.SolicitanteID, &u.TrocarSenha, &u.Ativo, &u.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Usuario{}, ErrNotFound
		}
		return Usuario{}, err
	}

	for _, p := range papeis {
		if papel, ok := permission.ParsePapel(p); ok {
			u.Papeis = append(u.Papeis, papel)
		}
	}

	if len(matrizJSON) > 0 {
		var bruta map[string]string
		if err := json.Unmarshal(matrizJSON, &bruta); err != nil {
			return Usuario{}, err
		}
		if len(bruta) > 0 {
			u.Matriz = make(permission.Matriz, len(bruta))
			for modulo, nivel := range bruta {
				if n, ok := permission.ParseNivel(nivel); ok {
					u.Matriz[permission.Modulo(modulo)] = n
				}
			}
		}
	}

	return u, nil
}

func papeisParaTexto(papeis []permission.Papel) []string {
	out := make([]string, 0, len(papeis))
	for _, p := range papeis {
		out = append(out, string(p))
	}
	return out
}

func matrizParaJSON(matriz permission.Matriz) ([]byte, error) {
	if len(matriz) == 0 {
		return []byte("{}"), nil
	}
	bruta := make(map[string]string, len(matriz))
	for modulo, nivel := range matriz {
		bruta[string(modulo)] = string(nivel)
	}
	return json.Marshal(bruta)
}

// GetUsuarioByEmail busca usuário pelo e-mail normalizado.
func (q *Queries) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+usuarioColunas+` FROM usuarios WHERE lower(email) = $1`, strings.ToLower(strings.TrimSpace(email)))
	return scanUsuario(row)
}

// GetUsuarioByID busca usuário pelo identificador.
func (q *Queries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	row := q.pool.QueryRow(ctx, `SELECT `+usuarioColunas+` FROM usuarios WHERE id = $1`, id)
	return scanUsuario(row)
}

// ListUsuarios lista todos os usuários ordenados por nome.
func (q *Queries) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	rows, err := q.pool.Query(ctx, `SELECT `+usuarioColunas+` FROM usuarios ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}
	return usuarios, rows.Err()
}

// InsertUsuario insere um novo usuário.
func (q *Queries) InsertUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	matrizJSON, err := matrizParaJSON(u.Matriz)
	if err != nil {
		return Usuario{}, err
	}

	row := q.pool.QueryRow(ctx, `
        INSERT INTO usuarios (id, nome, email, senha_hash, papeis, matriz, solicitante_id, trocar_senha, ativo)
        VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9)
        RETURNING `+usuarioColunas,
		u.ID, u.Nome, u.Email, u.SenhaHash, papeisParaTexto(u.Papeis), matrizJSON, u.SolicitanteID, u.TrocarSenha, u.Ativo,
	)

	criado, err := scanUsuario(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Usuario{}, ErrEmailEmUso
		}
		return Usuario{}, err
	}
	return criado, nil
}

// UpdateUsuario atualiza os campos editáveis do usuário.
func (q *Queries) UpdateUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	matrizJSON, err := matrizParaJSON(u.Matriz)
	if err != nil {
		return Usuario{}, err
	}

	row := q.pool.QueryRow(ctx, `
        UPDATE usuarios
        SET nome = $2, email = lower($3), papeis = $4, matriz = $5, solicitante_id = $6, trocar_senha = $7, ativo = $8
        WHERE id = $1
        RETURNING `+usuarioColunas,
		u.ID, u.Nome, u.Email, papeisParaTexto(u.Papeis), matrizJSON, u.SolicitanteID, u.TrocarSenha, u.Ativo,
	)

	atualizado, err := scanUsuario(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Usuario{}, ErrEmailEmUso
		}
		return Usuario{}, err
	}
	return atualizado, nil
}

// UpdateSenha troca o hash de senha e o flag de troca obrigatória.
func (q *Queries) UpdateSenha(ctx context.Context, id uuid.UUID, senhaHash string, trocarSenha bool) error {
	cmd, err := q.pool.Exec(ctx, `UPDATE usuarios SET senha_hash = $2, trocar_senha = $3 WHERE id = $1`, id, senhaHash, trocarSenha)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUsuario remove o usuário.
func (q *Queries) DeleteUsuario(ctx context.Context, id uuid.UUID) error {
	cmd, err := q.pool.Exec(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertRefreshToken insere um refresh token ativo.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	var t TokenRefresh
	err := q.pool.QueryRow(ctx, `
        INSERT INTO tokens_refresh (id, subject, token_hash, expiracao, criado_em, revogado)
        VALUES ($1, $2, $3, $4, $5, false)
        RETURNING id, subject, token_hash, expiracao, criado_em, revogado`,
		arg.ID, arg.Subject, arg.TokenHash, arg.Expiracao, arg.CriadoEm,
	).Scan(&t.ID, &t.Subject, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	return t, err
}

// GetRefreshTokenByHash busca refresh token pelo hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	var t TokenRefresh
	err := q.pool.QueryRow(ctx, `
        SELECT id, subject, token_hash, expiracao, criado_em, revogado
        FROM tokens_refresh WHERE token_hash = $1`, tokenHash,
	).Scan(&t.ID, &t.Subject, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenRefresh{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshToken marca o token como revogado.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	cmd, err := q.pool.Exec(ctx, `UPDATE tokens_refresh SET revogado = true WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InvalidateOtherRefreshTokens revoga todos os tokens do subject exceto o informado.
func (q *Queries) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	_, err := q.pool.Exec(ctx, `
        UPDATE tokens_refresh SET revogado = true
        WHERE subject = $1 AND token_hash <> $2 AND NOT revogado`, subject, keepHash)
	return err
}

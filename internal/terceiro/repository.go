package terceiro

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê acesso à tabela de terceiros.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, nome, tipo, tipo_documento, documento, email, telefone, criado_em`

func scanTerceiro(row pgx.Row) (Terceiro, error) {
	var t Terceiro
	err := row.Scan(&t.ID, &t.Nome, &t.Tipo, &t.TipoDocumento, &t.Documento, &t.Email, &t.Telefone, &t.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Terceiro{}, ErrNotFound
	}
	return t, err
}

// List carrega todos os terceiros ordenados por nome.
func (r *Repository) List(ctx context.Context) ([]Terceiro, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM terceiros ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terceiros []Terceiro
	for rows.Next() {
		t, err := scanTerceiro(rows)
		if err != nil {
			return nil, err
		}
		terceiros = append(terceiros, t)
	}
	return terceiros, rows.Err()
}

// Get busca um terceiro pelo identificador.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Terceiro, error) {
	t, err := scanTerceiro(r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM terceiros WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create insere um novo terceiro.
func (r *Repository) Create(ctx context.Context, t Terceiro) (*Terceiro, error) {
	criado, err := scanTerceiro(r.pool.QueryRow(ctx, `
        INSERT INTO terceiros (id, nome, tipo, tipo_documento, documento, email, telefone)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+colunas,
		t.ID, t.Nome, t.Tipo, t.TipoDocumento, t.Documento, t.Email, t.Telefone,
	))
	if err != nil {
		return nil, err
	}
	return &criado, nil
}

// Update substitui os campos editáveis do terceiro.
func (r *Repository) Update(ctx context.Context, t Terceiro) (*Terceiro, error) {
	atualizado, err := scanTerceiro(r.pool.QueryRow(ctx, `
        UPDATE terceiros
        SET nome = $2, tipo = $3, tipo_documento = $4, documento = $5, email = $6, telefone = $7
        WHERE id = $1
        RETURNING `+colunas,
		t.ID, t.Nome, t.Tipo, t.TipoDocumento, t.Documento, t.Email, t.Telefone,
	))
	if err != nil {
		return nil, err
	}
	return &atualizado, nil
}

// Delete remove o terceiro.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM terceiros WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package pendencia

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê acesso à tabela de pendências.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, vistoria_id, titulo, descricao, responsavel_id, status, criado_em`

func scanPendencia(row pgx.Row) (Pendencia, error) {
	var p Pendencia
	err := row.Scan(&p.ID, &p.VistoriaID, &p.Titulo, &p.Descricao, &p.ResponsavelID, &p.Status, &p.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pendencia{}, ErrNotFound
	}
	return p, err
}

// ListAll carrega a coleção completa; visibilidade é resolvida em memória.
func (r *Repository) ListAll(ctx context.Context) ([]Pendencia, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM pendencias ORDER BY criado_em`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pendencias []Pendencia
	for rows.Next() {
		p, err := scanPendencia(rows)
		if err != nil {
			return nil, err
		}
		pendencias = append(pendencias, p)
	}
	return pendencias, rows.Err()
}

// Get busca uma pendência pelo identificador.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Pendencia, error) {
	p, err := scanPendencia(r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM pendencias WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create insere uma nova pendência.
func (r *Repository) Create(ctx context.Context, p Pendencia) (*Pendencia, error) {
	criada, err := scanPendencia(r.pool.QueryRow(ctx, `
        INSERT INTO pendencias (id, vistoria_id, titulo, descricao, responsavel_id, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+colunas,
		p.ID, p.VistoriaID, p.Titulo, p.Descricao, p.ResponsavelID, p.Status,
	))
	if err != nil {
		return nil, err
	}
	return &criada, nil
}

// Update substitui os campos editáveis da pendência.
func (r *Repository) Update(ctx context.Context, p Pendencia) (*Pendencia, error) {
	atualizada, err := scanPendencia(r.pool.QueryRow(ctx, `
        UPDATE pendencias
        SET titulo = $2, descricao = $3, responsavel_id = $4, status = $5
        WHERE id = $1
        RETURNING `+colunas,
		p.ID, p.Titulo, p.Descricao, p.ResponsavelID, p.Status,
	))
	if err != nil {
		return nil, err
	}
	return &atualizada, nil
}

// Delete remove a pendência.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pendencias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

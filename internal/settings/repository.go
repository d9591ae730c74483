package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persiste o documento singleton de configuração.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get carrega o documento singleton.
func (r *Repository) Get(ctx context.Context) (*Configuracao, error) {
	const query = `
        SELECT documento, atualizado_em, atualizado_por
        FROM configuracoes
        WHERE singleton = TRUE
        LIMIT 1
    `

	var (
		doc []byte
		cfg Configuracao
	)
	if err := r.pool.QueryRow(ctx, query).Scan(&doc, &cfg.AtualizadoEm, &cfg.AtualizadoPor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	atualizadoEm := cfg.AtualizadoEm
	atualizadoPor := cfg.AtualizadoPor
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, err
	}
	cfg.AtualizadoEm = atualizadoEm
	cfg.AtualizadoPor = atualizadoPor

	return &cfg, nil
}

// Save grava o documento singleton por inteiro.
func (r *Repository) Save(ctx context.Context, cfg Configuracao) (*Configuracao, error) {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	const query = `
        INSERT INTO configuracoes (singleton, documento, atualizado_por)
        VALUES (TRUE, $1, $2)
        ON CONFLICT (singleton)
        DO UPDATE SET documento = EXCLUDED.documento, atualizado_em = now(), atualizado_por = EXCLUDED.atualizado_por
        RETURNING atualizado_em
    `

	if err := r.pool.QueryRow(ctx, query, doc, cfg.AtualizadoPor).Scan(&cfg.AtualizadoEm); err != nil {
		return nil, err
	}

	return &cfg, nil
}

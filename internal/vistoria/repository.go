package vistoria

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê acesso à tabela de vistorias e seu histórico de mensagens.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, codigo_exibicao, solicitante, demanda, tipo_vistoria, placa, descricao, patio, data, vistoriador_id, status, observacoes, criado_em`

func scanVistoria(row pgx.Row) (Vistoria, error) {
	var v Vistoria
	err := row.Scan(&v.ID, &v.CodigoExibicao, &v.Solicitante, &v.Demanda, &v.TipoVistoria, &v.Placa,
		&v.Descricao, &v.Patio, &v.Data, &v.VistoriadorID, &v.Status, &v.Observacoes, &v.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vistoria{}, ErrNotFound
	}
	return v, err
}

// ListAll carrega a coleção completa; a filtragem de visibilidade é feita em memória.
func (r *Repository) ListAll(ctx context.Context) ([]Vistoria, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM vistorias ORDER BY data`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vistorias []Vistoria
	for rows.Next() {
		v, err := scanVistoria(rows)
		if err != nil {
			return nil, err
		}
		vistorias = append(vistorias, v)
	}
	return vistorias, rows.Err()
}

// ListByStatus carrega vistorias em um status específico.
func (r *Repository) ListByStatus(ctx context.Context, status string) ([]Vistoria, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM vistorias WHERE status = $1 ORDER BY data`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vistorias []Vistoria
	for rows.Next() {
		v, err := scanVistoria(rows)
		if err != nil {
			return nil, err
		}
		vistorias = append(vistorias, v)
	}
	return vistorias, rows.Err()
}

// Get busca uma vistoria pelo identificador.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Vistoria, error) {
	v, err := scanVistoria(r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM vistorias WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create insere uma nova vistoria.
func (r *Repository) Create(ctx context.Context, v Vistoria) (*Vistoria, error) {
	criada, err := scanVistoria(r.pool.QueryRow(ctx, `
        INSERT INTO vistorias (id, codigo_exibicao, solicitante, demanda, tipo_vistoria, placa, descricao, patio, data, vistoriador_id, status, observacoes)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING `+colunas,
		v.ID, v.CodigoExibicao, v.Solicitante, v.Demanda, v.TipoVistoria, v.Placa,
		v.Descricao, v.Patio, v.Data, v.VistoriadorID, v.Status, v.Observacoes,
	))
	if err != nil {
		return nil, err
	}
	return &criada, nil
}

// CreateLote insere várias vistorias em um único commit atômico.
func (r *Repository) CreateLote(ctx context.Context, vistorias []Vistoria) error {
	if len(vistorias) == 0 {
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, v := range vistorias {
		batch.Queue(`
            INSERT INTO vistorias (id, codigo_exibicao, solicitante, demanda, tipo_vistoria, placa, descricao, patio, data, vistoriador_id, status, observacoes)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			v.ID, v.CodigoExibicao, v.Solicitante, v.Demanda, v.TipoVistoria, v.Placa,
			v.Descricao, v.Patio, v.Data, v.VistoriadorID, v.Status, v.Observacoes,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update substitui os campos editáveis da vistoria.
func (r *Repository) Update(ctx context.Context, v Vistoria) (*Vistoria, error) {
	atualizada, err := scanVistoria(r.pool.QueryRow(ctx, `
        UPDATE vistorias
        SET codigo_exibicao = $2, solicitante = $3, demanda = $4, tipo_vistoria = $5, placa = $6,
            descricao = $7, patio = $8, data = $9, vistoriador_id = $10, status = $11, observacoes = $12
        WHERE id = $1
        RETURNING `+colunas,
		v.ID, v.CodigoExibicao, v.Solicitante, v.Demanda, v.TipoVistoria, v.Placa,
		v.Descricao, v.Patio, v.Data, v.VistoriadorID, v.Status, v.Observacoes,
	))
	if err != nil {
		return nil, err
	}
	return &atualizada, nil
}

// Delete remove a vistoria e suas mensagens.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM vistorias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLote remove várias vistorias em um único commit atômico.
func (r *Repository) DeleteLote(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM vistorias WHERE id = ANY($1)`, ids)
	return err
}

// AtualizarStatusLote muda o status de um conjunto de vistorias atomicamente,
// apenas quando o status atual for o esperado.
func (r *Repository) AtualizarStatusLote(ctx context.Context, ids []uuid.UUID, de, para string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE vistorias SET status = $3 WHERE id = ANY($1) AND status = $2`, ids, de, para)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// ListMensagens carrega o histórico de mensagens da vistoria.
func (r *Repository) ListMensagens(ctx context.Context, vistoriaID uuid.UUID) ([]Mensagem, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT m.id, m.vistoria_id, m.autor_id, u.nome, m.texto, m.criado_em
        FROM vistoria_mensagens m
        JOIN usuarios u ON u.id = m.autor_id
        WHERE m.vistoria_id = $1
        ORDER BY m.criado_em`, vistoriaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mensagens []Mensagem
	for rows.Next() {
		var m Mensagem
		if err := rows.Scan(&m.ID, &m.VistoriaID, &m.AutorID, &m.AutorNome, &m.Texto, &m.CriadoEm); err != nil {
			return nil, err
		}
		mensagens = append(mensagens, m)
	}
	return mensagens, rows.Err()
}

// AddMensagem acrescenta uma mensagem ao histórico.
func (r *Repository) AddMensagem(ctx context.Context, m Mensagem) (*Mensagem, error) {
	err := r.pool.QueryRow(ctx, `
        INSERT INTO vistoria_mensagens (id, vistoria_id, autor_id, texto)
        VALUES ($1, $2, $3, $4)
        RETURNING criado_em`,
		m.ID, m.VistoriaID, m.AutorID, m.Texto,
	).Scan(&m.CriadoEm)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

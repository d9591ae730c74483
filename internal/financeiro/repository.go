package financeiro

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inspecar/vistorias/internal/db"
)

// Repository provê acesso às tabelas de lançamentos e contas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunasLancamento = `id, descricao, tipo, valor, data, categoria, conta_id, terceiro_id, vistoria_id, observacoes, a_pagar_receber, vencimento, status, data_pagamento, criado_em`

func scanLancamento(row pgx.Row) (Lancamento, error) {
	var (
		l      Lancamento
		status *string
	)
	err := row.Scan(&l.ID, &l.Descricao, &l.Tipo, &l.Valor, &l.Data, &l.Categoria, &l.ContaID,
		&l.TerceiroID, &l.VistoriaID, &l.Observacoes, &l.APagarReceber, &l.Vencimento, &status, &l.DataPagamento, &l.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lancamento{}, ErrNotFound
	}
	if status != nil {
		l.Status = *status
	}
	return l, err
}

// ListLancamentos carrega todos os lançamentos ordenados por data.
func (r *Repository) ListLancamentos(ctx context.Context) ([]Lancamento, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunasLancamento+` FROM lancamentos ORDER BY data, criado_em`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lancamentos []Lancamento
	for rows.Next() {
		l, err := scanLancamento(rows)
		if err != nil {
			return nil, err
		}
		lancamentos = append(lancamentos, l)
	}
	return lancamentos, rows.Err()
}

// GetLancamento busca um lançamento pelo identificador.
func (r *Repository) GetLancamento(ctx context.Context, id uuid.UUID) (*Lancamento, error) {
	l, err := scanLancamento(r.pool.QueryRow(ctx, `SELECT `+colunasLancamento+` FROM lancamentos WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLancamento insere um novo lançamento.
func (r *Repository) CreateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error) {
	var status *string
	if l.Status != "" {
		status = &l.Status
	}
	criado, err := scanLancamento(r.pool.QueryRow(ctx, `
        INSERT INTO lancamentos (id, descricao, tipo, valor, data, categoria, conta_id, terceiro_id, vistoria_id, observacoes, a_pagar_receber, vencimento, status, data_pagamento)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING `+colunasLancamento,
		l.ID, l.Descricao, l.Tipo, l.Valor, l.Data, l.Categoria, l.ContaID, l.TerceiroID,
		l.VistoriaID, l.Observacoes, l.APagarReceber, l.Vencimento, status, l.DataPagamento,
	))
	if err != nil {
		return nil, err
	}
	return &criado, nil
}

// UpdateLancamento substitui os campos editáveis do lançamento.
func (r *Repository) UpdateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error) {
	var status *string
	if l.Status != "" {
		status = &l.Status
	}
	atualizado, err := scanLancamento(r.pool.QueryRow(ctx, `
        UPDATE lancamentos
        SET descricao = $2, tipo = $3, valor = $4, data = $5, categoria = $6, conta_id = $7,
            terceiro_id = $8, vistoria_id = $9, observacoes = $10, a_pagar_receber = $11,
            vencimento = $12, status = $13, data_pagamento = $14
        WHERE id = $1
        RETURNING `+colunasLancamento,
		l.ID, l.Descricao, l.Tipo, l.Valor, l.Data, l.Categoria, l.ContaID, l.TerceiroID,
		l.VistoriaID, l.Observacoes, l.APagarReceber, l.Vencimento, status, l.DataPagamento,
	))
	if err != nil {
		return nil, err
	}
	return &atualizado, nil
}

// BaixarLancamento efetiva a baixa de um a pagar/receber em aberto: status
// Paga, data efetiva igual à data do pagamento e conta de liquidação definida.
// É o único caminho que tira um lançamento de Pendente/Vencida.
func (r *Repository) BaixarLancamento(ctx context.Context, id uuid.UUID, contaID uuid.UUID, dataPagamento time.Time) (*Lancamento, error) {
	baixado, err := scanLancamento(r.pool.QueryRow(ctx, `
        UPDATE lancamentos
        SET status = $4, data_pagamento = $3, data = $3, conta_id = $2
        WHERE id = $1 AND a_pagar_receber AND status = $5
        RETURNING `+colunasLancamento,
		id, contaID, dataPagamento, StatusPaga, StatusPendente,
	))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// distingue inexistente de já baixado
			if _, getErr := r.GetLancamento(ctx, id); getErr == nil {
				return nil, ErrNaoPendente
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &baixado, nil
}

// DeleteLancamento remove um lançamento.
func (r *Repository) DeleteLancamento(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM lancamentos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const colunasConta = `id, nome, tipo, saldo_inicial, cor, criado_em`

func scanConta(row pgx.Row) (Conta, error) {
	var c Conta
	err := row.Scan(&c.ID, &c.Nome, &c.Tipo, &c.SaldoInicial, &c.Cor, &c.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Conta{}, ErrContaNotFound
	}
	return c, err
}

// ListContas carrega todas as contas.
func (r *Repository) ListContas(ctx context.Context) ([]Conta, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunasConta+` FROM contas ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contas []Conta
	for rows.Next() {
		c, err := scanConta(rows)
		if err != nil {
			return nil, err
		}
		contas = append(contas, c)
	}
	return contas, rows.Err()
}

// GetConta busca uma conta pelo identificador.
func (r *Repository) GetConta(ctx context.Context, id uuid.UUID) (*Conta, error) {
	c, err := scanConta(r.pool.QueryRow(ctx, `SELECT `+colunasConta+` FROM contas WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateConta insere uma nova conta.
func (r *Repository) CreateConta(ctx context.Context, c Conta) (*Conta, error) {
	criada, err := scanConta(r.pool.QueryRow(ctx, `
        INSERT INTO contas (id, nome, tipo, saldo_inicial, cor)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+colunasConta,
		c.ID, c.Nome, c.Tipo, c.SaldoInicial, c.Cor,
	))
	if err != nil {
		return nil, err
	}
	return &criada, nil
}

// UpdateConta substitui os campos editáveis da conta.
func (r *Repository) UpdateConta(ctx context.Context, c Conta) (*Conta, error) {
	atualizada, err := scanConta(r.pool.QueryRow(ctx, `
        UPDATE contas SET nome = $2, tipo = $3, saldo_inicial = $4, cor = $5
        WHERE id = $1
        RETURNING `+colunasConta,
		c.ID, c.Nome, c.Tipo, c.SaldoInicial, c.Cor,
	))
	if err != nil {
		return nil, err
	}
	return &atualizada, nil
}

// DeleteConta remove a conta; falha com ErrContaEmUso se houver lançamentos
// vinculados. Verificação e exclusão rodam na mesma transação para que um
// lançamento criado em paralelo não deixe a conta ser removida por baixo dele.
func (r *Repository) DeleteConta(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var referencias int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM lancamentos WHERE conta_id = $1`, id).Scan(&referencias); err != nil {
			return err
		}
		if referencias > 0 {
			return ErrContaEmUso
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM contas WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrContaNotFound
		}
		return nil
	})
}

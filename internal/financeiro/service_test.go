package financeiro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/realtime"
)

type stubRepo struct {
	lancamentos []Lancamento
	contas      []Conta
}

func (r *stubRepo) ListLancamentos(ctx context.Context) ([]Lancamento, error) {
	return r.lancamentos, nil
}

func (r *stubRepo) GetLancamento(ctx context.Context, id uuid.UUID) (*Lancamento, error) {
	for i := range r.lancamentos {
		if r.lancamentos[i].ID == id {
			l := r.lancamentos[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (r *stubRepo) CreateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error) {
	r.lancamentos = append(r.lancamentos, l)
	return &l, nil
}

func (r *stubRepo) UpdateLancamento(ctx context.Context, l Lancamento) (*Lancamento, error) {
	for i := range r.lancamentos {
		if r.lancamentos[i].ID == l.ID {
			r.lancamentos[i] = l
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (r *stubRepo) BaixarLancamento(ctx context.Context, id uuid.UUID, contaID uuid.UUID, dataPagamento time.Time) (*Lancamento, error) {
	for i := range r.lancamentos {
		if r.lancamentos[i].ID != id {
			continue
		}
		if !r.lancamentos[i].APagarReceber || r.lancamentos[i].Status != StatusPendente {
			return nil, ErrNaoPendente
		}
		r.lancamentos[i].Status = StatusPaga
		r.lancamentos[i].ContaID = &contaID
		r.lancamentos[i].DataPagamento = &dataPagamento
		l := r.lancamentos[i]
		return &l, nil
	}
	return nil, ErrNotFound
}

func (r *stubRepo) DeleteLancamento(ctx context.Context, id uuid.UUID) error {
	for i := range r.lancamentos {
		if r.lancamentos[i].ID == id {
			r.lancamentos = append(r.lancamentos[:i], r.lancamentos[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *stubRepo) ListContas(ctx context.Context) ([]Conta, error) {
	return r.contas, nil
}

func (r *stubRepo) GetConta(ctx context.Context, id uuid.UUID) (*Conta, error) {
	for i := range r.contas {
		if r.contas[i].ID == id {
			c := r.contas[i]
			return &c, nil
		}
	}
	return nil, ErrContaNotFound
}

func (r *stubRepo) CreateConta(ctx context.Context, c Conta) (*Conta, error) {
	r.contas = append(r.contas, c)
	return &c, nil
}

func (r *stubRepo) UpdateConta(ctx context.Context, c Conta) (*Conta, error) {
	for i := range r.contas {
		if r.contas[i].ID == c.ID {
			r.contas[i] = c
			return &c, nil
		}
	}
	return nil, ErrContaNotFound
}

func (r *stubRepo) DeleteConta(ctx context.Context, id uuid.UUID) error {
	for _, l := range r.lancamentos {
		if l.ContaID != nil && *l.ContaID == id {
			return ErrContaEmUso
		}
	}
	for i := range r.contas {
		if r.contas[i].ID == id {
			r.contas = append(r.contas[:i], r.contas[i+1:]...)
			return nil
		}
	}
	return ErrContaNotFound
}

func novoServico(repo *stubRepo) *Service {
	return NewService(repo, realtime.NewHub())
}

func TestCriarLancamentoValidacoes(t *testing.T) {
	svc := novoServico(&stubRepo{})
	ctx := context.Background()

	base := Input{Descricao: "Diária", Tipo: TipoReceita, Valor: 150, Data: dia(2026, 5, 1), Categoria: "Serviços"}

	in := base
	in.Tipo = "Transferência"
	if _, err := svc.CriarLancamento(ctx, in); !errors.Is(err, ErrTipoInvalido) {
		t.Errorf("tipo inválido: veio %v", err)
	}

	in = base
	in.Valor = 0
	if _, err := svc.CriarLancamento(ctx, in); !errors.Is(err, ErrValorInvalido) {
		t.Errorf("valor zero: veio %v", err)
	}

	in = base
	in.APagarReceber = true
	if _, err := svc.CriarLancamento(ctx, in); err == nil {
		t.Error("a pagar/receber sem vencimento deveria falhar")
	}

	criado, err := svc.CriarLancamento(ctx, base)
	if err != nil {
		t.Fatalf("CriarLancamento: %v", err)
	}
	if criado.Status != "" {
		t.Errorf("movimento imediato não tem status, veio %q", criado.Status)
	}
}

func TestCriarLancamentoAPagarNascePendente(t *testing.T) {
	svc := novoServico(&stubRepo{})

	criado, err := svc.CriarLancamento(context.Background(), Input{
		Descricao:     "Aluguel do pátio",
		Tipo:          TipoDespesa,
		Valor:         2000,
		Data:          dia(2026, 5, 1),
		Categoria:     "Estrutura",
		APagarReceber: true,
		Vencimento:    ptr(dia(2026, 5, 10)),
	})
	if err != nil {
		t.Fatalf("CriarLancamento: %v", err)
	}
	if criado.Status != StatusPendente {
		t.Fatalf("a pagar/receber nasce Pendente, veio %q", criado.Status)
	}
}

func TestBaixar(t *testing.T) {
	conta := Conta{ID: uuid.New(), Nome: "Caixa"}
	pendente := Lancamento{
		ID: uuid.New(), Descricao: "Peças", Tipo: TipoDespesa, Valor: 80,
		Data: dia(2026, 5, 1), APagarReceber: true, Status: StatusPendente,
		Vencimento: ptr(dia(2026, 5, 15)),
	}
	repo := &stubRepo{lancamentos: []Lancamento{pendente}, contas: []Conta{conta}}
	svc := novoServico(repo)
	ctx := context.Background()

	if _, err := svc.Baixar(ctx, pendente.ID, uuid.New(), dia(2026, 5, 12)); !errors.Is(err, ErrContaNotFound) {
		t.Fatalf("conta inexistente: veio %v", err)
	}
	if _, err := svc.Baixar(ctx, pendente.ID, conta.ID, time.Time{}); err == nil {
		t.Fatal("baixa sem data de pagamento deveria falhar")
	}

	baixado, err := svc.Baixar(ctx, pendente.ID, conta.ID, dia(2026, 5, 12))
	if err != nil {
		t.Fatalf("Baixar: %v", err)
	}
	if baixado.Status != StatusPaga {
		t.Errorf("status após baixa: %q", baixado.Status)
	}
	if baixado.ContaID == nil || *baixado.ContaID != conta.ID {
		t.Error("conta de liquidação não fixada")
	}
	if baixado.DataPagamento == nil || !baixado.DataPagamento.Equal(dia(2026, 5, 12)) {
		t.Error("data de pagamento não registrada")
	}

	// segunda baixa falha: o lançamento já não está pendente
	if _, err := svc.Baixar(ctx, pendente.ID, conta.ID, dia(2026, 5, 13)); !errors.Is(err, ErrNaoPendente) {
		t.Fatalf("baixa dupla: veio %v", err)
	}
}

func TestAtualizarLancamentoPreservaBaixa(t *testing.T) {
	pago := Lancamento{
		ID: uuid.New(), Descricao: "Peças", Tipo: TipoDespesa, Valor: 80,
		Data: dia(2026, 5, 1), APagarReceber: true, Status: StatusPaga,
		Vencimento: ptr(dia(2026, 5, 15)), DataPagamento: ptr(dia(2026, 5, 12)),
	}
	repo := &stubRepo{lancamentos: []Lancamento{pago}}
	svc := novoServico(repo)

	atualizado, err := svc.AtualizarLancamento(context.Background(), pago.ID, Input{
		Descricao: "Peças de suspensão", Tipo: TipoDespesa, Valor: 95,
		Data: dia(2026, 5, 1), Categoria: "Peças",
		APagarReceber: true, Vencimento: ptr(dia(2026, 5, 15)),
	})
	if err != nil {
		t.Fatalf("AtualizarLancamento: %v", err)
	}
	if atualizado.Status != StatusPaga {
		t.Errorf("edição não desfaz baixa, veio %q", atualizado.Status)
	}
	if atualizado.DataPagamento == nil {
		t.Error("data de pagamento perdida na edição")
	}
}

func TestListContasComSaldo(t *testing.T) {
	conta := Conta{ID: uuid.New(), Nome: "Caixa", SaldoInicial: 100}
	repo := &stubRepo{
		contas: []Conta{conta},
		lancamentos: []Lancamento{
			{ID: uuid.New(), Tipo: TipoReceita, Valor: 50, ContaID: &conta.ID},
		},
	}
	svc := novoServico(repo)

	contas, err := svc.ListContasComSaldo(context.Background())
	if err != nil {
		t.Fatalf("ListContasComSaldo: %v", err)
	}
	if len(contas) != 1 || contas[0].SaldoAtual != 150 {
		t.Fatalf("saldo derivado errado: %+v", contas)
	}
}

func TestExcluirContaEmUso(t *testing.T) {
	conta := Conta{ID: uuid.New(), Nome: "Caixa"}
	repo := &stubRepo{
		contas:      []Conta{conta},
		lancamentos: []Lancamento{{ID: uuid.New(), ContaID: &conta.ID}},
	}
	svc := novoServico(repo)

	if err := svc.ExcluirConta(context.Background(), conta.ID); !errors.Is(err, ErrContaEmUso) {
		t.Fatalf("esperado ErrContaEmUso, veio %v", err)
	}
}

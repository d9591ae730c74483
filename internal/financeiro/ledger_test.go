package financeiro

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestRealizado(t *testing.T) {
	if !Realizado(Lancamento{Tipo: TipoReceita}) {
		t.Error("movimento imediato conta para saldo")
	}
	if Realizado(Lancamento{APagarReceber: true, Status: StatusPendente}) {
		t.Error("pendente não conta para saldo")
	}
	if !Realizado(Lancamento{APagarReceber: true, Status: StatusPaga}) {
		t.Error("baixado conta para saldo")
	}
}

func TestStatusEfetivoVencimento(t *testing.T) {
	hoje := dia(2026, 5, 10)

	noVencimento := Lancamento{APagarReceber: true, Status: StatusPendente, Vencimento: ptr(dia(2026, 5, 10))}
	if got := StatusEfetivo(noVencimento, hoje); got != StatusPendente {
		t.Errorf("vencendo hoje ainda é Pendente, veio %s", got)
	}

	vencido := Lancamento{APagarReceber: true, Status: StatusPendente, Vencimento: ptr(dia(2026, 5, 9))}
	if got := StatusEfetivo(vencido, hoje); got != StatusVencida {
		t.Errorf("vencimento anterior a hoje vira Vencida, veio %s", got)
	}

	pago := Lancamento{APagarReceber: true, Status: StatusPaga, Vencimento: ptr(dia(2026, 5, 1))}
	if got := StatusEfetivo(pago, hoje); got != StatusPaga {
		t.Errorf("Paga não regride, veio %s", got)
	}

	imediato := Lancamento{Tipo: TipoDespesa}
	if got := StatusEfetivo(imediato, hoje); got != "" {
		t.Errorf("movimento imediato não tem status, veio %q", got)
	}
}

func TestDataEfetiva(t *testing.T) {
	l := Lancamento{Data: dia(2026, 5, 1)}
	if !DataEfetiva(l).Equal(dia(2026, 5, 1)) {
		t.Error("sem pagamento vale a data do lançamento")
	}
	l.DataPagamento = ptr(dia(2026, 5, 20))
	if !DataEfetiva(l).Equal(dia(2026, 5, 20)) {
		t.Error("com pagamento vale a data do pagamento")
	}
}

func TestSaldoAtual(t *testing.T) {
	conta := Conta{ID: uuid.New(), Nome: "Caixa", SaldoInicial: 100}
	outra := uuid.New()

	lancamentos := []Lancamento{
		{Tipo: TipoReceita, Valor: 50, ContaID: &conta.ID},
		{Tipo: TipoDespesa, Valor: 30, ContaID: &conta.ID},
		{Tipo: TipoReceita, Valor: 999, ContaID: &outra},
		{Tipo: TipoReceita, Valor: 999},
		{Tipo: TipoDespesa, Valor: 999, ContaID: &conta.ID, APagarReceber: true, Status: StatusPendente},
		{Tipo: TipoReceita, Valor: 25, ContaID: &conta.ID, APagarReceber: true, Status: StatusPaga},
	}

	if saldo := SaldoAtual(conta, lancamentos); saldo != 145 {
		t.Fatalf("saldo esperado 145, veio %.2f", saldo)
	}
}

func TestCalcularResumo(t *testing.T) {
	inicio := dia(2026, 1, 1)
	fim := dia(2026, 2, 28)

	lancamentos := []Lancamento{
		{Tipo: TipoReceita, Valor: 100, Data: dia(2026, 1, 10)},
		{Tipo: TipoDespesa, Valor: 40, Data: dia(2026, 1, 15), Categoria: "Combustível"},
		{Tipo: TipoDespesa, Valor: 60, Data: dia(2026, 2, 5), Categoria: "Peças"},
		{Tipo: TipoDespesa, Valor: 10, Data: dia(2026, 2, 6), Categoria: "Combustível"},
		// pendente não entra
		{Tipo: TipoDespesa, Valor: 500, Data: dia(2026, 1, 20), Categoria: "Peças", APagarReceber: true, Status: StatusPendente},
		// fora da janela
		{Tipo: TipoReceita, Valor: 999, Data: dia(2026, 3, 1)},
		// baixado em janeiro: data efetiva é o pagamento
		{Tipo: TipoReceita, Valor: 20, Data: dia(2025, 12, 1), Categoria: "Serviços",
			APagarReceber: true, Status: StatusPaga, DataPagamento: ptr(dia(2026, 1, 25))},
	}

	resumo := CalcularResumo(lancamentos, inicio, fim)

	if resumo.Receitas != 120 {
		t.Errorf("receitas: esperado 120, veio %.2f", resumo.Receitas)
	}
	if resumo.Despesas != 110 {
		t.Errorf("despesas: esperado 110, veio %.2f", resumo.Despesas)
	}
	if resumo.Saldo != 10 {
		t.Errorf("saldo: esperado 10, veio %.2f", resumo.Saldo)
	}

	if len(resumo.FluxoMensal) != 2 {
		t.Fatalf("esperados 2 meses, vieram %d", len(resumo.FluxoMensal))
	}
	if resumo.FluxoMensal[0].Mes != "2026-01" || resumo.FluxoMensal[1].Mes != "2026-02" {
		t.Errorf("meses fora de ordem: %+v", resumo.FluxoMensal)
	}
	if resumo.FluxoMensal[0].Receitas != 120 || resumo.FluxoMensal[0].Despesas != 40 {
		t.Errorf("fluxo de janeiro errado: %+v", resumo.FluxoMensal[0])
	}

	if len(resumo.DespesasPorCategoria) != 2 {
		t.Fatalf("esperadas 2 categorias, vieram %d", len(resumo.DespesasPorCategoria))
	}
	if resumo.DespesasPorCategoria[0].Categoria != "Peças" || resumo.DespesasPorCategoria[0].Total != 60 {
		t.Errorf("maior categoria primeiro: %+v", resumo.DespesasPorCategoria)
	}
	if resumo.DespesasPorCategoria[1].Categoria != "Combustível" || resumo.DespesasPorCategoria[1].Total != 50 {
		t.Errorf("categoria agregada errada: %+v", resumo.DespesasPorCategoria)
	}
}

func TestFiltrarPorConta(t *testing.T) {
	conta := uuid.New()
	outra := uuid.New()
	lancamentos := []Lancamento{
		{ID: uuid.New(), ContaID: &conta},
		{ID: uuid.New(), ContaID: &outra},
		{ID: uuid.New()},
	}

	filtrados := FiltrarPorConta(lancamentos, conta)
	if len(filtrados) != 1 || *filtrados[0].ContaID != conta {
		t.Fatalf("esperado 1 lançamento da conta, veio %+v", filtrados)
	}
}

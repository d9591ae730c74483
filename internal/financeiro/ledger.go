package financeiro

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/util"
)

// Realizado informa se o lançamento conta para saldo: movimento imediato ou
// a pagar/receber já baixado.
func Realizado(l Lancamento) bool {
	if !l.APagarReceber {
		return true
	}
	return l.Status == StatusPaga
}

// StatusEfetivo deriva o rótulo exibido de um a pagar/receber: Pendente vira
// Vencida quando o vencimento (meia-noite) é estritamente anterior a hoje.
// Apenas exibição; nada é persistido até a ação de baixa.
func StatusEfetivo(l Lancamento, hoje time.Time) string {
	if !l.APagarReceber {
		return ""
	}
	if l.Status == StatusPendente && l.Vencimento != nil &&
		util.MeiaNoite(*l.Vencimento).Before(util.MeiaNoite(hoje)) {
		return StatusVencida
	}
	return l.Status
}

// DataEfetiva devolve a data usada nas agregações: pagamento quando houver,
// senão a data do lançamento.
func DataEfetiva(l Lancamento) time.Time {
	if l.DataPagamento != nil {
		return *l.DataPagamento
	}
	return l.Data
}

// SaldoAtual deriva o saldo corrente da conta: saldo inicial mais a soma
// assinada dos lançamentos realizados que a referenciam.
func SaldoAtual(conta Conta, lancamentos []Lancamento) float64 {
	saldo := conta.SaldoInicial
	for _, l := range lancamentos {
		if l.ContaID == nil || *l.ContaID != conta.ID {
			continue
		}
		if !Realizado(l) {
			continue
		}
		switch l.Tipo {
		case TipoReceita:
			saldo += l.Valor
		case TipoDespesa:
			saldo -= l.Valor
		}
	}
	return saldo
}

// FluxoMes agrega receitas e despesas de um mês.
type FluxoMes struct {
	Mes      string  `json:"mes"` // formato 2006-01
	Receitas float64 `json:"receitas"`
	Despesas float64 `json:"despesas"`
}

// CategoriaTotal agrega despesas por categoria.
type CategoriaTotal struct {
	Categoria string  `json:"categoria"`
	Total     float64 `json:"total"`
}

// Resumo é o conjunto de agregados exibidos no painel financeiro.
type Resumo struct {
	Receitas             float64          `json:"receitas"`
	Despesas             float64          `json:"despesas"`
	Saldo                float64          `json:"saldo"`
	FluxoMensal          []FluxoMes       `json:"fluxo_mensal"`
	DespesasPorCategoria []CategoriaTotal `json:"despesas_por_categoria"`
}

// CalcularResumo reduz o conjunto de lançamentos realizados dentro da janela
// de datas (inclusiva, pela data efetiva). Recalculado a cada leitura, sem
// estado derivado armazenado.
func CalcularResumo(lancamentos []Lancamento, inicio, fim time.Time) Resumo {
	resumo := Resumo{}
	porMes := make(map[string]*FluxoMes)
	porCategoria := make(map[string]float64)

	di := util.MeiaNoite(inicio)
	df := util.MeiaNoite(fim)

	for _, l := range lancamentos {
		if !Realizado(l) {
			continue
		}
		dia := util.MeiaNoite(DataEfetiva(l))
		if dia.Before(di) || dia.After(df) {
			continue
		}

		mes := dia.Format("2006-01")
		fluxo, ok := porMes[mes]
		if !ok {
			fluxo = &FluxoMes{Mes: mes}
			porMes[mes] = fluxo
		}

		switch l.Tipo {
		case TipoReceita:
			resumo.Receitas += l.Valor
			fluxo.Receitas += l.Valor
		case TipoDespesa:
			resumo.Despesas += l.Valor
			fluxo.Despesas += l.Valor
			porCategoria[l.Categoria] += l.Valor
		}
	}

	resumo.Saldo = resumo.Receitas - resumo.Despesas

	for _, fluxo := range porMes {
		resumo.FluxoMensal = append(resumo.FluxoMensal, *fluxo)
	}
	sort.Slice(resumo.FluxoMensal, func(i, j int) bool {
		return resumo.FluxoMensal[i].Mes < resumo.FluxoMensal[j].Mes
	})

	for categoria, total := range porCategoria {
		resumo.DespesasPorCategoria = append(resumo.DespesasPorCategoria, CategoriaTotal{Categoria: categoria, Total: total})
	}
	sort.Slice(resumo.DespesasPorCategoria, func(i, j int) bool {
		return resumo.DespesasPorCategoria[i].Total > resumo.DespesasPorCategoria[j].Total
	})

	return resumo
}

// FiltrarPorConta devolve os lançamentos que referenciam a conta.
func FiltrarPorConta(lancamentos []Lancamento, contaID uuid.UUID) []Lancamento {
	var filtrados []Lancamento
	for _, l := range lancamentos {
		if l.ContaID != nil && *l.ContaID == contaID {
			filtrados = append(filtrados, l)
		}
	}
	return filtrados
}

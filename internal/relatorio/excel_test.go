package relatorio

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/inspecar/vistorias/internal/financeiro"
	"github.com/inspecar/vistorias/internal/vistoria"
)

func reabrir(t *testing.T, conteudo []byte, sheet string) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(conteudo))
	if err != nil {
		t.Fatalf("reabrindo planilha: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("lendo aba %q: %v", sheet, err)
	}
	return rows
}

func TestGerarVistoriasXLSX(t *testing.T) {
	vistoriador := uuid.New()
	codigo := "VIS-7"
	vistorias := []vistoria.Vistoria{
		{
			ID:             uuid.New(),
			CodigoExibicao: &codigo,
			Solicitante:    "Pátio Norte",
			Placa:          "ABC1234",
			Demanda:        "Transferência",
			TipoVistoria:   "Cautelar",
			Patio:          "Norte",
			Data:           time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			VistoriadorID:  &vistoriador,
			Status:         vistoria.StatusAgendado,
		},
		{
			ID:          uuid.New(),
			Solicitante: "Pátio Sul",
			Placa:       "XYZ9876",
			Data:        time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			Status:      vistoria.StatusSolicitado,
		},
	}

	conteudo, err := GerarVistoriasXLSX(vistorias, map[uuid.UUID]string{vistoriador: "João Perito"})
	if err != nil {
		t.Fatalf("GerarVistoriasXLSX: %v", err)
	}

	rows := reabrir(t, conteudo, "Vistorias")
	if len(rows) != 3 {
		t.Fatalf("esperadas 3 linhas (cabeçalho + 2), vieram %d", len(rows))
	}
	if rows[0][0] != "Código" || rows[0][8] != "Status" {
		t.Errorf("cabeçalho inesperado: %v", rows[0])
	}

	primeira := rows[1]
	if primeira[0] != "VIS-7" {
		t.Errorf("código: %q", primeira[0])
	}
	if primeira[1] != "01/04/2026" {
		t.Errorf("data: %q", primeira[1])
	}
	if primeira[7] != "João Perito" {
		t.Errorf("vistoriador resolvido: %q", primeira[7])
	}

	// sem vistoriador a coluna fica em branco
	segunda := rows[2]
	if len(segunda) > 7 && segunda[7] != "" {
		t.Errorf("vistoriador vazio esperado: %q", segunda[7])
	}
}

func TestGerarLancamentosXLSX(t *testing.T) {
	hoje := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	vencimento := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	lancamentos := []financeiro.Lancamento{
		{
			ID: uuid.New(), Descricao: "Diária de vistoria", Tipo: financeiro.TipoReceita,
			Valor: 150, Data: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), Categoria: "Vistoria",
		},
		{
			ID: uuid.New(), Descricao: "Aluguel do pátio", Tipo: financeiro.TipoDespesa,
			Valor: 100, Data: time.Date(2026, 4, 28, 0, 0, 0, 0, time.UTC), Categoria: "Estrutura",
			APagarReceber: true, Status: financeiro.StatusPendente, Vencimento: &vencimento,
		},
	}

	conteudo, err := GerarLancamentosXLSX(lancamentos, hoje)
	if err != nil {
		t.Fatalf("GerarLancamentosXLSX: %v", err)
	}

	rows := reabrir(t, conteudo, "Lançamentos")
	if rows[0][0] != "Data" || rows[0][5] != "Valor" {
		t.Errorf("cabeçalho inesperado: %v", rows[0])
	}

	// a pendente vencida aparece como Vencida, derivada na exportação
	if rows[2][4] != financeiro.StatusVencida {
		t.Errorf("status efetivo: %q", rows[2][4])
	}

	// rodapé: receitas realizadas excluem a pendente
	var receitas, resultado string
	for _, row := range rows {
		if len(row) >= 6 && row[0] == "Receitas realizadas" {
			receitas = row[5]
		}
		if len(row) >= 6 && row[0] == "Resultado" {
			resultado = row[5]
		}
	}
	if receitas != "150" {
		t.Errorf("receitas realizadas: %q", receitas)
	}
	if resultado != "150" {
		t.Errorf("resultado: %q", resultado)
	}
}

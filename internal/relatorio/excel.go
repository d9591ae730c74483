package relatorio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/inspecar/vistorias/internal/financeiro"
	"github.com/inspecar/vistorias/internal/vistoria"
)

const formatoData = "02/01/2006"

func escreverLinha(f *excelize.File, sheet string, linha int, valores []any) error {
	for i, v := range valores {
		celula, err := excelize.CoordinatesToCellName(i+1, linha)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, celula, v); err != nil {
			return err
		}
	}
	return nil
}

func novaPlanilha(nome string) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(nome)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

// GerarVistoriasXLSX exporta as vistorias visíveis em uma planilha. O mapa
// de nomes resolve o vistoriador responsável de cada linha.
func GerarVistoriasXLSX(vistorias []vistoria.Vistoria, nomes map[uuid.UUID]string) ([]byte, error) {
	const sheet = "Vistorias"
	f, err := novaPlanilha(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cabecalho := []any{"Código", "Data", "Solicitante", "Placa", "Demanda", "Tipo", "Pátio", "Vistoriador", "Status"}
	if err := escreverLinha(f, sheet, 1, cabecalho); err != nil {
		return nil, err
	}

	for i, v := range vistorias {
		responsavel := ""
		if v.VistoriadorID != nil {
			responsavel = nomes[*v.VistoriadorID]
		}
		linha := []any{
			v.CodigoEfetivo(),
			v.Data.Format(formatoData),
			v.Solicitante,
			v.Placa,
			v.Demanda,
			v.TipoVistoria,
			v.Patio,
			responsavel,
			v.Status,
		}
		if err := escreverLinha(f, sheet, i+2, linha); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GerarLancamentosXLSX exporta o extrato financeiro de um período.
func GerarLancamentosXLSX(lancamentos []financeiro.Lancamento, hoje time.Time) ([]byte, error) {
	const sheet = "Lançamentos"
	f, err := novaPlanilha(sheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cabecalho := []any{"Data", "Descrição", "Categoria", "Tipo", "Status", "Valor"}
	if err := escreverLinha(f, sheet, 1, cabecalho); err != nil {
		return nil, err
	}

	var receitas, despesas float64
	for i, l := range lancamentos {
		linha := []any{
			financeiro.DataEfetiva(l).Format(formatoData),
			l.Descricao,
			l.Categoria,
			string(l.Tipo),
			string(financeiro.StatusEfetivo(l, hoje)),
			l.Valor,
		}
		if err := escreverLinha(f, sheet, i+2, linha); err != nil {
			return nil, err
		}
		if financeiro.Realizado(l) {
			switch l.Tipo {
			case financeiro.TipoReceita:
				receitas += l.Valor
			case financeiro.TipoDespesa:
				despesas += l.Valor
			}
		}
	}

	rodape := len(lancamentos) + 3
	if err := escreverLinha(f, sheet, rodape, []any{"Receitas realizadas", "", "", "", "", receitas}); err != nil {
		return nil, err
	}
	if err := escreverLinha(f, sheet, rodape+1, []any{"Despesas realizadas", "", "", "", "", despesas}); err != nil {
		return nil, err
	}
	if err := escreverLinha(f, sheet, rodape+2, []any{"Resultado", "", "", "", "", receitas - despesas}); err != nil {
		return nil, err
	}

	celula, err := excelize.CoordinatesToCellName(1, rodape-1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, celula, fmt.Sprintf("%d lançamentos", len(lancamentos))); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

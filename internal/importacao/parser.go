package importacao

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrPlanilhaVazia indica planilha sem linhas de dados.
	ErrPlanilhaVazia = errors.New("planilha vazia")
)

// colunas obrigatórias da planilha de solicitações.
var colunasObrigatorias = []string{"solicitante", "placa", "data"}

// Linha é uma solicitação de vistoria extraída da planilha, ainda não confirmada.
type Linha struct {
	Solicitante  string    `json:"solicitante"`
	Placa        string    `json:"placa"`
	Data         time.Time `json:"data"`
	Demanda      string    `json:"demanda"`
	TipoVistoria string    `json:"tipo_vistoria"`
	Patio        string    `json:"patio"`
	Descricao    string    `json:"descricao"`
}

// normalizarCabecalho padroniza um rótulo de coluna: minúsculas, espaços
// aparados e acentos comuns removidos.
func normalizarCabecalho(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	substituicoes := strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u",
		"ç", "c",
	)
	return substituicoes.Replace(s)
}

func parseData(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01-02-06"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("data inválida: %q", raw)
}

// ParsePlanilha lê um XLSX e devolve as linhas prontas para encenação.
// Além das colunas obrigatórias, reconhece demanda, tipo, patio e descricao.
// Cabeçalhos obrigatórios ausentes ou planilha vazia abortam sem produzir
// nenhuma linha.
func ParsePlanilha(r io.Reader) ([]Linha, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("arquivo inválido: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrPlanilhaVazia
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, ErrPlanilhaVazia
	}

	indice := make(map[string]int)
	for i, cabecalho := range rows[0] {
		nome := normalizarCabecalho(cabecalho)
		if nome == "" {
			continue
		}
		if _, ok := indice[nome]; !ok {
			indice[nome] = i
		}
	}

	var faltantes []string
	for _, obrigatoria := range colunasObrigatorias {
		if _, ok := indice[obrigatoria]; !ok {
			faltantes = append(faltantes, obrigatoria)
		}
	}
	if len(faltantes) > 0 {
		return nil, fmt.Errorf("colunas obrigatórias ausentes: %s", strings.Join(faltantes, ", "))
	}

	celula := func(row []string, coluna string) string {
		idx, ok := indice[coluna]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var linhas []Linha
	for n, row := range rows[1:] {
		solicitante := celula(row, "solicitante")
		placa := celula(row, "placa")
		dataBruta := celula(row, "data")

		if solicitante == "" && placa == "" && dataBruta == "" {
			continue
		}
		if solicitante == "" || placa == "" || dataBruta == "" {
			return nil, fmt.Errorf("linha %d incompleta: solicitante, placa e data são obrigatórios", n+2)
		}

		data, err := parseData(dataBruta)
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", n+2, err)
		}

		linhas = append(linhas, Linha{
			Solicitante:  solicitante,
			Placa:        strings.ToUpper(placa),
			Data:         data,
			Demanda:      celula(row, "demanda"),
			TipoVistoria: celula(row, "tipo"),
			Patio:        celula(row, "patio"),
			Descricao:    celula(row, "descricao"),
		})
	}

	if len(linhas) == 0 {
		return nil, ErrPlanilhaVazia
	}

	return linhas, nil
}

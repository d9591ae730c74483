package relatorio

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/inspecar/vistorias/internal/vistoria"
)

// OpcoesPDF parametriza o cabeçalho do relatório.
type OpcoesPDF struct {
	Titulo    string
	Subtitulo string
	LogoPath  string
}

func novoDocumento() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(10).
		Build()
	return maroto.New(cfg)
}

func cabecalhoPDF(m core.Maroto, op OpcoesPDF) {
	cols := []core.Col{}
	if op.LogoPath != "" {
		if _, err := os.Stat(op.LogoPath); err == nil {
			cols = append(cols, image.NewFromFileCol(2, op.LogoPath, props.Rect{Center: true, Percent: 80}))
		}
	}
	largura := 12 - len(cols)*2
	cols = append(cols, col.New(largura).Add(
		text.New(op.Titulo, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center, Top: 2}),
		text.New(op.Subtitulo, props.Text{Size: 9, Align: align.Center, Top: 9}),
	))
	m.AddRows(row.New(14).Add(cols...))
	m.AddRows(row.New(3).Add(line.NewCol(12)))
}

func linhaTabela(valores []string, larguras []int, negrito bool) core.Row {
	estilo := props.Text{Size: 8, Top: 1}
	if negrito {
		estilo.Style = fontstyle.Bold
	}
	cols := make([]core.Col, 0, len(valores))
	for i, v := range valores {
		cols = append(cols, text.NewCol(larguras[i], v, estilo))
	}
	return row.New(6).Add(cols...)
}

// GerarVistoriasPDF monta o relatório imprimível da listagem de vistorias na
// mesma ordem em que a tela as exibe.
func GerarVistoriasPDF(vistorias []vistoria.Vistoria, nomes map[uuid.UUID]string, op OpcoesPDF) ([]byte, error) {
	if op.Titulo == "" {
		op.Titulo = "Relatório de Vistorias"
	}

	m := novoDocumento()
	cabecalhoPDF(m, op)

	larguras := []int{1, 2, 2, 2, 2, 1, 1, 1}
	m.AddRows(linhaTabela(
		[]string{"Código", "Data", "Solicitante", "Placa", "Vistoriador", "Tipo", "Pátio", "Status"},
		larguras, true,
	))

	for _, v := range vistorias {
		responsavel := ""
		if v.VistoriadorID != nil {
			responsavel = nomes[*v.VistoriadorID]
		}
		m.AddRows(linhaTabela([]string{
			v.CodigoEfetivo(),
			v.Data.Format(formatoData),
			v.Solicitante,
			v.Placa,
			responsavel,
			v.TipoVistoria,
			v.Patio,
			v.Status,
		}, larguras, false))
	}

	rodape := time.Now().Format("02/01/2006 15:04")
	m.AddRows(row.New(8).Add(
		text.NewCol(12, "Gerado em "+rodape, props.Text{Size: 7, Align: align.Right, Top: 3}),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

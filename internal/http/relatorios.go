package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/financeiro"
	"github.com/inspecar/vistorias/internal/relatorio"
	"github.com/inspecar/vistorias/internal/util"
	"github.com/inspecar/vistorias/internal/vistoria"
)

func (h *Handler) nomesVistoriadores(r *http.Request) map[uuid.UUID]string {
	nomes := make(map[uuid.UUID]string)
	usuarios, err := h.users.List(r.Context())
	if err != nil {
		return nomes
	}
	for _, u := range usuarios {
		nomes[u.ID] = u.Nome
	}
	return nomes
}

func escreverArquivo(w http.ResponseWriter, nome, contentType string, conteudo []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+nome+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(conteudo)
}

func (h *Handler) vistoriasParaRelatorio(w http.ResponseWriter, r *http.Request) ([]vistoria.Vistoria, bool) {
	periodo, err := periodoFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return nil, false
	}

	ator, err := h.ator(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return nil, false
	}

	visiveis, err := h.vistorias.Visiveis(r.Context(), ator, periodo)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível montar o relatório", nil)
		return nil, false
	}
	return visiveis, true
}

// RelatorioVistoriasXLSX exporta a listagem visível em planilha.
func (h *Handler) RelatorioVistoriasXLSX(w http.ResponseWriter, r *http.Request) {
	visiveis, ok := h.vistoriasParaRelatorio(w, r)
	if !ok {
		return
	}

	conteudo, err := relatorio.GerarVistoriasXLSX(visiveis, h.nomesVistoriadores(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar a planilha", nil)
		return
	}

	escreverArquivo(w, "vistorias.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", conteudo)
}

// RelatorioVistoriasPDF exporta a listagem visível em PDF imprimível.
func (h *Handler) RelatorioVistoriasPDF(w http.ResponseWriter, r *http.Request) {
	visiveis, ok := h.vistoriasParaRelatorio(w, r)
	if !ok {
		return
	}

	conteudo, err := relatorio.GerarVistoriasPDF(visiveis, h.nomesVistoriadores(r), relatorio.OpcoesPDF{
		Titulo:   "Relatório de Vistorias",
		LogoPath: h.cfg.LogoPath,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar o PDF", nil)
		return
	}

	escreverArquivo(w, "vistorias.pdf", "application/pdf", conteudo)
}

// RelatorioLancamentosXLSX exporta o extrato financeiro em planilha; o período
// da query delimita por data efetiva.
func (h *Handler) RelatorioLancamentosXLSX(w http.ResponseWriter, r *http.Request) {
	periodo, err := periodoFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	lancamentos, err := h.financeiro.ListLancamentos(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível montar o relatório", nil)
		return
	}

	if periodo != nil {
		filtrados := lancamentos[:0]
		for _, l := range lancamentos {
			if periodo.Contem(financeiro.DataEfetiva(l)) {
				filtrados = append(filtrados, l)
			}
		}
		lancamentos = filtrados
	}

	conteudo, err := relatorio.GerarLancamentosXLSX(lancamentos, util.Now())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar a planilha", nil)
		return
	}

	escreverArquivo(w, "lancamentos.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", conteudo)
}

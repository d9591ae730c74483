package vistoria

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/util"
)

// JanelaExibicaoDias define por quantos dias vistorias concluídas/finalizadas
// continuam aparecendo nas listagens sem busca por período.
const JanelaExibicaoDias = 3

// JanelaDuplicidadeDias define a janela de alerta de placa repetida na criação.
const JanelaDuplicidadeDias = 30

// Periodo delimita uma busca por intervalo de datas, limites inclusivos.
type Periodo struct {
	Inicio time.Time
	Fim    time.Time
}

// Contem verifica se a data cai dentro do período, em granularidade de dia.
func (p Periodo) Contem(data time.Time) bool {
	dia := util.MeiaNoite(data)
	return !dia.Before(util.MeiaNoite(p.Inicio)) && !dia.After(util.MeiaNoite(p.Fim))
}

// Visao descreve quem está consultando a coleção.
type Visao struct {
	UsuarioID   uuid.UUID
	Papeis      []permission.Papel
	Solicitante string  // nome vinculado, quando CLIENTE
	Periodo     *Periodo // busca por período ativa, quando não nil
	Hoje        time.Time
}

func (v Visao) adminOuMaster() bool {
	return permission.TemPapel(v.Papeis, permission.PapelMaster) ||
		permission.TemPapel(v.Papeis, permission.PapelAdmin)
}

// aplicaJanela indica se a regra de ocultação de concluídas vale para esta visão.
// Vistoriadores puros enxergam sem o corte de 3 dias.
func (v Visao) aplicaJanela() bool {
	return v.adminOuMaster() || permission.TemPapel(v.Papeis, permission.PapelCliente)
}

// FiltrarVisiveis produz o subconjunto visível da coleção para a visão dada.
//
// MASTER/ADMIN veem tudo exceto status Solicitado (tratado na fila de
// aprovação). Os demais papéis formam a união: CLIENTE vinculado enxerga as
// vistorias de seu solicitante; VISTORIADOR enxerga as próprias fora de
// Solicitado/Concluído/Finalizado. Sobre o resultado aplica-se a janela de
// exibição ou, quando ativa, a busca por período.
func FiltrarVisiveis(colecao []Vistoria, visao Visao) []Vistoria {
	var visiveis []Vistoria

	if visao.adminOuMaster() {
		for _, v := range colecao {
			if v.Status == StatusSolicitado {
				continue
			}
			visiveis = append(visiveis, v)
		}
	} else {
		cliente := permission.TemPapel(visao.Papeis, permission.PapelCliente) && strings.TrimSpace(visao.Solicitante) != ""
		vistoriador := permission.TemPapel(visao.Papeis, permission.PapelVistoriador)
		solicitante := strings.ToLower(strings.TrimSpace(visao.Solicitante))

		for _, v := range colecao {
			if cliente && strings.ToLower(strings.TrimSpace(v.Solicitante)) == solicitante {
				visiveis = append(visiveis, v)
				continue
			}
			if vistoriador && v.VistoriadorID != nil && *v.VistoriadorID == visao.UsuarioID {
				switch v.Status {
				case StatusSolicitado, StatusConcluido, StatusFinalizado:
				default:
					visiveis = append(visiveis, v)
				}
			}
		}
	}

	if visao.Periodo != nil {
		filtradas := visiveis[:0]
		for _, v := range visiveis {
			if visao.Periodo.Contem(v.Data) {
				filtradas = append(filtradas, v)
			}
		}
		visiveis = filtradas
	} else if visao.aplicaJanela() {
		hoje := util.MeiaNoite(visao.Hoje)
		filtradas := visiveis[:0]
		for _, v := range visiveis {
			if (v.Status == StatusConcluido || v.Status == StatusFinalizado) &&
				hoje.Sub(util.MeiaNoite(v.Data)) > JanelaExibicaoDias*24*time.Hour {
				continue
			}
			filtradas = append(filtradas, v)
		}
		visiveis = filtradas
	}

	Ordenar(visiveis)
	return visiveis
}

// Ordenar classifica por data ascendente, desempate pelo código de exibição
// em comparação natural (trechos numéricos comparados como números).
func Ordenar(vistorias []Vistoria) {
	sort.SliceStable(vistorias, func(i, j int) bool {
		if !vistorias[i].Data.Equal(vistorias[j].Data) {
			return vistorias[i].Data.Before(vistorias[j].Data)
		}
		return compareNatural(vistorias[i].CodigoEfetivo(), vistorias[j].CodigoEfetivo()) < 0
	})
}

// DuplicadaProxima devolve a primeira vistoria existente com a mesma placa
// (normalizada) e data dentro de 30 dias de calendário. ignorarID exclui o
// próprio registro em edições.
func DuplicadaProxima(colecao []Vistoria, placa string, data time.Time, ignorarID *uuid.UUID) *Vistoria {
	alvo := util.NormalizePlaca(placa)
	if alvo == "" {
		return nil
	}
	for i := range colecao {
		v := &colecao[i]
		if ignorarID != nil && v.ID == *ignorarID {
			continue
		}
		if util.NormalizePlaca(v.Placa) != alvo {
			continue
		}
		if util.DiasEntre(v.Data, data) <= JanelaDuplicidadeDias {
			return v
		}
	}
	return nil
}

// compareNatural compara strings tratando sequências de dígitos como números.
func compareNatural(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ni := i
			for ni < len(a) && isDigit(a[ni]) {
				ni++
			}
			nj := j
			for nj < len(b) && isDigit(b[nj]) {
				nj++
			}
			na := strings.TrimLeft(a[i:ni], "0")
			nb := strings.TrimLeft(b[j:nj], "0")
			if len(na) != len(nb) {
				if len(na) < len(nb) {
					return -1
				}
				return 1
			}
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			i, j = ni, nj
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

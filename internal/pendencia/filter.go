package pendencia

import (
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
	"github.com/inspecar/vistorias/internal/vistoria"
)

// Visao descreve quem está consultando a coleção de pendências.
type Visao struct {
	UsuarioID   uuid.UUID
	Papeis      []permission.Papel
	Solicitante string // nome vinculado, quando CLIENTE
}

// FiltrarVisiveis produz o subconjunto visível: MASTER/ADMIN veem tudo;
// CLIENTE vê pendências cuja vistoria pertence ao seu solicitante;
// VISTORIADOR vê as próprias ainda não finalizadas.
func FiltrarVisiveis(colecao []Pendencia, vistorias map[uuid.UUID]vistoria.Vistoria, visao Visao) []Pendencia {
	if permission.TemPapel(visao.Papeis, permission.PapelMaster) ||
		permission.TemPapel(visao.Papeis, permission.PapelAdmin) {
		return colecao
	}

	cliente := permission.TemPapel(visao.Papeis, permission.PapelCliente) && strings.TrimSpace(visao.Solicitante) != ""
	vistoriador := permission.TemPapel(visao.Papeis, permission.PapelVistoriador)
	solicitante := strings.ToLower(strings.TrimSpace(visao.Solicitante))

	var visiveis []Pendencia
	for _, p := range colecao {
		if cliente {
			if v, ok := vistorias[p.VistoriaID]; ok &&
				strings.ToLower(strings.TrimSpace(v.Solicitante)) == solicitante {
				visiveis = append(visiveis, p)
				continue
			}
		}
		if vistoriador && p.ResponsavelID == visao.UsuarioID && p.Status != StatusFinalizada {
			visiveis = append(visiveis, p)
		}
	}
	return visiveis
}

// PapeisResponsaveis lista os papéis aos quais o ator pode atribuir uma
// pendência: CLIENTE só aciona ADMIN/MASTER; os demais também acionam
// vistoriadores.
func PapeisResponsaveis(papeisAtor []permission.Papel) []permission.Papel {
	if permission.TemPapel(papeisAtor, permission.PapelCliente) &&
		!permission.TemPapel(papeisAtor, permission.PapelMaster) &&
		!permission.TemPapel(papeisAtor, permission.PapelAdmin) {
		return []permission.Papel{permission.PapelAdmin, permission.PapelMaster}
	}
	return []permission.Papel{permission.PapelVistoriador, permission.PapelAdmin, permission.PapelMaster}
}

// ResponsavelPermitido confere se o usuário alvo possui algum papel elegível
// para receber a atribuição feita pelo ator.
func ResponsavelPermitido(papeisAtor, papeisAlvo []permission.Papel) bool {
	for _, elegivel := range PapeisResponsaveis(papeisAtor) {
		if permission.TemPapel(papeisAlvo, elegivel) {
			return true
		}
	}
	return false
}

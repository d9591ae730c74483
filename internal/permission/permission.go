package permission

import "strings"

// Papel identifica um papel de acesso na plataforma.
type Papel string

const (
	PapelMaster      Papel = "MASTER"
	PapelAdmin       Papel = "ADMIN"
	PapelSupervisor  Papel = "SUPERVISOR"
	PapelVistoriador Papel = "VISTORIADOR"
	PapelCliente     Papel = "CLIENTE"
)

// Modulo identifica uma área funcional da plataforma.
type Modulo string

const (
	ModuloDashboard     Modulo = "dashboard"
	ModuloVistorias     Modulo = "vistorias"
	ModuloPendencias    Modulo = "pendencias"
	ModuloFinanceiro    Modulo = "financeiro"
	ModuloSolicitacoes  Modulo = "solicitacoes"
	ModuloRelatorios    Modulo = "relatorios"
	ModuloUsuarios      Modulo = "usuarios"
	ModuloConfiguracoes Modulo = "configuracoes"
)

// Nivel representa o nível de acesso a um módulo.
type Nivel string

const (
	NivelOculto     Nivel = "oculto"
	NivelVisualizar Nivel = "visualizar"
	NivelAtualizar  Nivel = "atualizar"
	NivelEditar     Nivel = "editar"
)

// Matriz mapeia cada módulo ao nível concedido.
type Matriz map[Modulo]Nivel

// Modulos lista todos os módulos na ordem de exibição.
var Modulos = []Modulo{
	ModuloDashboard,
	ModuloVistorias,
	ModuloPendencias,
	ModuloFinanceiro,
	ModuloSolicitacoes,
	ModuloRelatorios,
	ModuloUsuarios,
	ModuloConfiguracoes,
}

var pesoNivel = map[Nivel]int{
	NivelOculto:     0,
	NivelVisualizar: 1,
	NivelAtualizar:  2,
	NivelEditar:     3,
}

// base define a matriz padrão de cada papel.
var base = map[Papel]Matriz{
	PapelMaster: {
		ModuloDashboard:     NivelEditar,
		ModuloVistorias:     NivelEditar,
		ModuloPendencias:    NivelEditar,
		ModuloFinanceiro:    NivelEditar,
		ModuloSolicitacoes:  NivelEditar,
		ModuloRelatorios:    NivelEditar,
		ModuloUsuarios:      NivelEditar,
		ModuloConfiguracoes: NivelEditar,
	},
	PapelAdmin: {
		ModuloDashboard:     NivelEditar,
		ModuloVistorias:     NivelEditar,
		ModuloPendencias:    NivelEditar,
		ModuloFinanceiro:    NivelEditar,
		ModuloSolicitacoes:  NivelEditar,
		ModuloRelatorios:    NivelEditar,
		ModuloUsuarios:      NivelEditar,
		ModuloConfiguracoes: NivelVisualizar,
	},
	PapelSupervisor: {
		ModuloDashboard:     NivelVisualizar,
		ModuloVistorias:     NivelEditar,
		ModuloPendencias:    NivelEditar,
		ModuloFinanceiro:    NivelOculto,
		ModuloSolicitacoes:  NivelOculto,
		ModuloRelatorios:    NivelVisualizar,
		ModuloUsuarios:      NivelOculto,
		ModuloConfiguracoes: NivelOculto,
	},
	PapelVistoriador: {
		ModuloDashboard:     NivelVisualizar,
		ModuloVistorias:     NivelAtualizar,
		ModuloPendencias:    NivelAtualizar,
		ModuloFinanceiro:    NivelOculto,
		ModuloSolicitacoes:  NivelOculto,
		ModuloRelatorios:    NivelOculto,
		ModuloUsuarios:      NivelOculto,
		ModuloConfiguracoes: NivelOculto,
	},
	PapelCliente: {
		ModuloDashboard:     NivelVisualizar,
		ModuloVistorias:     NivelVisualizar,
		ModuloPendencias:    NivelVisualizar,
		ModuloFinanceiro:    NivelOculto,
		ModuloSolicitacoes:  NivelOculto,
		ModuloRelatorios:    NivelOculto,
		ModuloUsuarios:      NivelOculto,
		ModuloConfiguracoes: NivelOculto,
	},
}

// ParsePapel normaliza uma string para Papel; devolve false para valores desconhecidos.
func ParsePapel(raw string) (Papel, bool) {
	switch Papel(strings.ToUpper(strings.TrimSpace(raw))) {
	case PapelMaster:
		return PapelMaster, true
	case PapelAdmin:
		return PapelAdmin, true
	case PapelSupervisor:
		return PapelSupervisor, true
	case PapelVistoriador:
		return PapelVistoriador, true
	case PapelCliente:
		return PapelCliente, true
	}
	return "", false
}

// ParseNivel normaliza uma string para Nivel.
func ParseNivel(raw string) (Nivel, bool) {
	switch Nivel(strings.ToLower(strings.TrimSpace(raw))) {
	case NivelOculto:
		return NivelOculto, true
	case NivelVisualizar:
		return NivelVisualizar, true
	case NivelAtualizar:
		return NivelAtualizar, true
	case NivelEditar:
		return NivelEditar, true
	}
	return "", false
}

// Maior devolve o nível mais alto entre dois, segundo oculto < visualizar < atualizar < editar.
func Maior(a, b Nivel) Nivel {
	if pesoNivel[b] > pesoNivel[a] {
		return b
	}
	return a
}

// Atende informa se o nível concedido cobre o nível exigido.
func Atende(concedido, exigido Nivel) bool {
	return pesoNivel[concedido] >= pesoNivel[exigido]
}

// TemPapel verifica presença de um papel no conjunto.
func TemPapel(papeis []Papel, alvo Papel) bool {
	for _, p := range papeis {
		if p == alvo {
			return true
		}
	}
	return false
}

// Resolver calcula a matriz efetiva de um conjunto de papéis: para cada módulo
// vale o maior nível concedido por qualquer papel. MASTER curto-circuita para
// editar em tudo, ignorando qualquer matriz armazenada.
func Resolver(papeis []Papel) Matriz {
	if TemPapel(papeis, PapelMaster) {
		return MatrizTotal()
	}

	resultado := make(Matriz, len(Modulos))
	for _, modulo := range Modulos {
		resultado[modulo] = NivelOculto
	}
	for _, papel := range papeis {
		matriz, ok := base[papel]
		if !ok {
			continue
		}
		for _, modulo := range Modulos {
			resultado[modulo] = Maior(resultado[modulo], matriz[modulo])
		}
	}
	return resultado
}

// Efetiva combina matriz armazenada e papéis: MASTER sempre vale editar em tudo;
// para os demais, a matriz armazenada (quando existir) prevalece sobre a derivada.
func Efetiva(papeis []Papel, armazenada Matriz) Matriz {
	if TemPapel(papeis, PapelMaster) {
		return MatrizTotal()
	}
	if len(armazenada) == 0 {
		return Resolver(papeis)
	}

	resultado := make(Matriz, len(Modulos))
	for _, modulo := range Modulos {
		if nivel, ok := armazenada[modulo]; ok {
			resultado[modulo] = nivel
		} else {
			resultado[modulo] = NivelOculto
		}
	}
	return resultado
}

// MatrizTotal devolve editar para todos os módulos.
func MatrizTotal() Matriz {
	m := make(Matriz, len(Modulos))
	for _, modulo := range Modulos {
		m[modulo] = NivelEditar
	}
	return m
}

// MatrizBase expõe uma cópia da matriz padrão de um papel.
func MatrizBase(papel Papel) Matriz {
	origem, ok := base[papel]
	if !ok {
		return Matriz{}
	}
	copia := make(Matriz, len(origem))
	for modulo, nivel := range origem {
		copia[modulo] = nivel
	}
	return copia
}

// PodeEditarPermissoes decide se o ator pode alterar manualmente a matriz do
// usuário alvo. A matriz fica somente-leitura quando o alvo é MASTER, ou quando
// o alvo é ADMIN e o ator não é MASTER.
func PodeEditarPermissoes(papeisAtor, papeisAlvo []Papel) bool {
	if TemPapel(papeisAlvo, PapelMaster) {
		return false
	}
	if TemPapel(papeisAlvo, PapelAdmin) && !TemPapel(papeisAtor, PapelMaster) {
		return false
	}
	return true
}

// PodeEditarPapeis decide se o ator pode alterar os papéis do usuário alvo.
// Ninguém além de outro MASTER altera um usuário MASTER.
func PodeEditarPapeis(papeisAtor, papeisAlvo []Papel) bool {
	if TemPapel(papeisAlvo, PapelMaster) && !TemPapel(papeisAtor, PapelMaster) {
		return false
	}
	return true
}

package vistoria

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
)

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestFiltrarVisiveisAdminOcultaSolicitadas(t *testing.T) {
	hoje := dia(2026, 3, 10)
	colecao := []Vistoria{
		{ID: uuid.New(), Solicitante: "Detran", Status: StatusSolicitado, Data: hoje},
		{ID: uuid.New(), Solicitante: "Detran", Status: StatusAgendado, Data: hoje},
	}

	visiveis := FiltrarVisiveis(colecao, Visao{Papeis: []permission.Papel{permission.PapelAdmin}, Hoje: hoje})

	if len(visiveis) != 1 || visiveis[0].Status != StatusAgendado {
		t.Fatalf("esperada só a agendada, veio %+v", visiveis)
	}
}

func TestFiltrarVisiveisClientePorSolicitante(t *testing.T) {
	hoje := dia(2026, 3, 10)
	colecao := []Vistoria{
		{ID: uuid.New(), Solicitante: "Pátio Norte", Status: StatusAgendado, Data: hoje},
		{ID: uuid.New(), Solicitante: "Pátio Sul", Status: StatusAgendado, Data: hoje},
		{ID: uuid.New(), Solicitante: "  pátio norte ", Status: StatusSolicitado, Data: hoje},
	}

	visiveis := FiltrarVisiveis(colecao, Visao{
		Papeis:      []permission.Papel{permission.PapelCliente},
		Solicitante: "Pátio Norte",
		Hoje:        hoje,
	})

	if len(visiveis) != 2 {
		t.Fatalf("esperadas 2 vistorias do solicitante, vieram %d", len(visiveis))
	}
	for _, v := range visiveis {
		if v.Solicitante == "Pátio Sul" {
			t.Fatal("vistoria de outro solicitante vazou para o cliente")
		}
	}
}

func TestFiltrarVisiveisVistoriadorExclusoes(t *testing.T) {
	hoje := dia(2026, 3, 10)
	eu := uuid.New()
	outro := uuid.New()
	colecao := []Vistoria{
		{ID: uuid.New(), VistoriadorID: &eu, Status: StatusAgendado, Data: hoje},
		{ID: uuid.New(), VistoriadorID: &eu, Status: StatusEmAndamento, Data: hoje},
		{ID: uuid.New(), VistoriadorID: &eu, Status: StatusConcluido, Data: hoje},
		{ID: uuid.New(), VistoriadorID: &eu, Status: StatusFinalizado, Data: hoje},
		{ID: uuid.New(), VistoriadorID: &eu, Status: StatusSolicitado, Data: hoje},
		{ID: uuid.New(), VistoriadorID: &outro, Status: StatusAgendado, Data: hoje},
		{ID: uuid.New(), Status: StatusAgendado, Data: hoje},
	}

	visiveis := FiltrarVisiveis(colecao, Visao{
		UsuarioID: eu,
		Papeis:    []permission.Papel{permission.PapelVistoriador},
		Hoje:      hoje,
	})

	if len(visiveis) != 2 {
		t.Fatalf("esperadas 2 vistorias atribuídas ativas, vieram %d", len(visiveis))
	}
	for _, v := range visiveis {
		if v.Status == StatusConcluido || v.Status == StatusFinalizado || v.Status == StatusSolicitado {
			t.Fatalf("status %s não deveria aparecer para o vistoriador", v.Status)
		}
	}
}

func TestFiltrarVisiveisJanelaTresDias(t *testing.T) {
	hoje := dia(2026, 3, 10)
	dentro := Vistoria{ID: uuid.New(), Status: StatusConcluido, Data: dia(2026, 3, 7)}
	fora := Vistoria{ID: uuid.New(), Status: StatusFinalizado, Data: dia(2026, 3, 6)}
	aberta := Vistoria{ID: uuid.New(), Status: StatusAgendado, Data: dia(2026, 1, 1)}
	colecao := []Vistoria{dentro, fora, aberta}

	visiveis := FiltrarVisiveis(colecao, Visao{Papeis: []permission.Papel{permission.PapelMaster}, Hoje: hoje})

	if len(visiveis) != 2 {
		t.Fatalf("esperadas 2 visíveis, vieram %d", len(visiveis))
	}
	for _, v := range visiveis {
		if v.ID == fora.ID {
			t.Fatal("concluída com mais de 3 dias deveria sumir da listagem")
		}
	}
}

func TestFiltrarVisiveisJanelaNaoValeParaVistoriadorPuro(t *testing.T) {
	hoje := dia(2026, 3, 10)
	eu := uuid.New()
	antiga := Vistoria{ID: uuid.New(), VistoriadorID: &eu, Status: StatusPendente, Data: dia(2026, 1, 5)}

	visiveis := FiltrarVisiveis([]Vistoria{antiga}, Visao{
		UsuarioID: eu,
		Papeis:    []permission.Papel{permission.PapelVistoriador},
		Hoje:      hoje,
	})

	if len(visiveis) != 1 {
		t.Fatal("vistoriador puro deveria ver registros antigos não finalizados")
	}
}

func TestFiltrarVisiveisPeriodoDesligaJanela(t *testing.T) {
	hoje := dia(2026, 3, 10)
	antiga := Vistoria{ID: uuid.New(), Status: StatusConcluido, Data: dia(2026, 1, 15)}
	recente := Vistoria{ID: uuid.New(), Status: StatusAgendado, Data: dia(2026, 3, 9)}

	visiveis := FiltrarVisiveis([]Vistoria{antiga, recente}, Visao{
		Papeis:  []permission.Papel{permission.PapelAdmin},
		Periodo: &Periodo{Inicio: dia(2026, 1, 1), Fim: dia(2026, 1, 31)},
		Hoje:    hoje,
	})

	if len(visiveis) != 1 || visiveis[0].ID != antiga.ID {
		t.Fatalf("busca por período deveria devolver a concluída antiga, veio %+v", visiveis)
	}
}

func TestOrdenarDataDepoisCodigoNatural(t *testing.T) {
	d := dia(2026, 3, 10)
	vistorias := []Vistoria{
		{CodigoExibicao: ptr("VIS-10"), Data: d},
		{CodigoExibicao: ptr("VIS-2"), Data: d},
		{CodigoExibicao: ptr("VIS-1"), Data: dia(2026, 3, 9)},
	}

	Ordenar(vistorias)

	esperado := []string{"VIS-1", "VIS-2", "VIS-10"}
	for i, cod := range esperado {
		if vistorias[i].CodigoEfetivo() != cod {
			t.Fatalf("posição %d: esperado %s, veio %s", i, cod, vistorias[i].CodigoEfetivo())
		}
	}
}

func TestCompareNatural(t *testing.T) {
	casos := []struct {
		a, b  string
		sinal int
	}{
		{"VIS-2", "VIS-10", -1},
		{"VIS-10", "VIS-10", 0},
		{"VIS-010", "VIS-10", 0},
		{"A9", "A10", -1},
		{"B1", "A2", 1},
	}
	for _, c := range casos {
		got := compareNatural(c.a, c.b)
		if (got < 0) != (c.sinal < 0) || (got == 0) != (c.sinal == 0) {
			t.Errorf("compareNatural(%q, %q) = %d, esperado sinal %d", c.a, c.b, got, c.sinal)
		}
	}
}

func TestDuplicadaProxima(t *testing.T) {
	base := dia(2026, 3, 10)
	existente := Vistoria{ID: uuid.New(), Placa: "abc-1234", Data: base}
	colecao := []Vistoria{existente}

	if d := DuplicadaProxima(colecao, "ABC1234", base.AddDate(0, 0, 30), nil); d == nil {
		t.Fatal("placa igual dentro de 30 dias deveria acusar duplicidade")
	}
	if d := DuplicadaProxima(colecao, "ABC1234", base.AddDate(0, 0, 31), nil); d != nil {
		t.Fatal("fora da janela de 30 dias não há duplicidade")
	}
	if d := DuplicadaProxima(colecao, "XYZ9876", base, nil); d != nil {
		t.Fatal("placa diferente não é duplicidade")
	}
	if d := DuplicadaProxima(colecao, "ABC-1234", base, &existente.ID); d != nil {
		t.Fatal("o próprio registro deve ser ignorado em edições")
	}
	if d := DuplicadaProxima(colecao, "   ", base, nil); d != nil {
		t.Fatal("placa vazia não dispara alerta")
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseISODate(t *testing.T) {
	if d, err := parseISODate("2026-04-01"); err != nil || d.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("data simples: %v, %v", d, err)
	}
	if d, err := parseISODate("2026-04-01T10:30:00Z"); err != nil || d.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("RFC3339: %v, %v", d, err)
	}
	if _, err := parseISODate("01/04/2026"); err == nil {
		t.Error("formato não suportado aceito")
	}
}

func TestPeriodoFromQuery(t *testing.T) {
	pedir := func(query string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/vistorias"+query, nil)
	}

	if p, err := periodoFromQuery(pedir("")); err != nil || p != nil {
		t.Errorf("sem parâmetros: %+v, %v", p, err)
	}

	p, err := periodoFromQuery(pedir("?inicio=2026-04-01&fim=2026-04-30"))
	if err != nil {
		t.Fatalf("período válido: %v", err)
	}
	if p.Inicio.Format("2006-01-02") != "2026-04-01" || p.Fim.Format("2006-01-02") != "2026-04-30" {
		t.Errorf("limites: %+v", p)
	}

	if _, err := periodoFromQuery(pedir("?inicio=2026-04-01")); err == nil {
		t.Error("só início deveria falhar")
	}
	if _, err := periodoFromQuery(pedir("?inicio=2026-04-30&fim=2026-04-01")); err == nil {
		t.Error("fim anterior ao início deveria falhar")
	}
}

func TestVistoriaPayloadInput(t *testing.T) {
	vistoriador := "2f9a7c41-83a4-4a8d-9a3e-6f2f6f4b9c01"
	p := vistoriaPayload{
		Solicitante:   "Pátio Norte",
		Placa:         "abc1234",
		Data:          "2026-04-01",
		VistoriadorID: &vistoriador,
		Status:        "Agendado",
	}

	in, err := p.input()
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if in.Data.Format("2006-01-02") != "2026-04-01" {
		t.Errorf("data: %v", in.Data)
	}
	if in.VistoriadorID == nil || in.VistoriadorID.String() != vistoriador {
		t.Errorf("vistoriador: %v", in.VistoriadorID)
	}

	vazio := ""
	p.VistoriadorID = &vazio
	in, err = p.input()
	if err != nil {
		t.Fatalf("vistoriador vazio: %v", err)
	}
	if in.VistoriadorID != nil {
		t.Error("string vazia vale como sem vistoriador")
	}

	invalido := "não-uuid"
	p.VistoriadorID = &invalido
	if _, err := p.input(); err == nil {
		t.Error("vistoriador inválido aceito")
	}

	p.VistoriadorID = nil
	p.Data = "ontem"
	if _, err := p.input(); err == nil {
		t.Error("data inválida aceita")
	}
}

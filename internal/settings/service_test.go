package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubRepo struct {
	cfg *Configuracao
}

func (r *stubRepo) Get(ctx context.Context) (*Configuracao, error) {
	if r.cfg == nil {
		return nil, ErrNotFound
	}
	c := *r.cfg
	return &c, nil
}

func (r *stubRepo) Save(ctx context.Context, cfg Configuracao) (*Configuracao, error) {
	r.cfg = &cfg
	c := cfg
	return &c, nil
}

func TestGetSemeiaPadrao(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(cfg.Demandas) == 0 || len(cfg.CategoriasFinanceiras) == 0 {
		t.Fatal("documento padrão não semeado")
	}
	if repo.cfg == nil {
		t.Fatal("padrão não persistido")
	}
}

func TestUpdateGeraIDParaSolicitanteNovo(t *testing.T) {
	repo := &stubRepo{cfg: &Configuracao{}}
	svc := NewService(repo)
	ator := uuid.New()

	existente := Solicitante{ID: uuid.New(), Nome: "Pátio Norte"}
	cfg, err := svc.Update(context.Background(), Configuracao{
		Solicitantes: []Solicitante{existente, {Nome: "  Pátio Sul  "}},
	}, ator)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if cfg.Solicitantes[0].ID != existente.ID {
		t.Error("identificador existente não deve mudar")
	}
	if cfg.Solicitantes[1].ID == uuid.Nil {
		t.Error("solicitante novo deveria receber identificador")
	}
	if cfg.Solicitantes[1].Nome != "Pátio Sul" {
		t.Errorf("nome não aparado: %q", cfg.Solicitantes[1].Nome)
	}
	if cfg.AtualizadoPor == nil || *cfg.AtualizadoPor != ator {
		t.Error("autor da atualização não registrado")
	}
}

func TestUpdateSolicitanteSemNome(t *testing.T) {
	svc := NewService(&stubRepo{cfg: &Configuracao{}})

	_, err := svc.Update(context.Background(), Configuracao{
		Solicitantes: []Solicitante{{Nome: "   "}},
	}, uuid.New())
	if err == nil {
		t.Fatal("solicitante sem nome deveria ser rejeitado")
	}
}

func TestVerificarSenhaMaster(t *testing.T) {
	repo := &stubRepo{cfg: &Configuracao{SenhaMaster: "segredo123"}}
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.VerificarSenhaMaster(ctx, "segredo123"); err != nil {
		t.Errorf("senha correta recusada: %v", err)
	}
	if err := svc.VerificarSenhaMaster(ctx, "  segredo123  "); err != nil {
		t.Errorf("espaços nas pontas deveriam ser tolerados: %v", err)
	}
	if err := svc.VerificarSenhaMaster(ctx, "errada"); !errors.Is(err, ErrSenhaMasterInvalida) {
		t.Errorf("senha errada: veio %v", err)
	}

	repo.cfg.SenhaMaster = ""
	if err := svc.VerificarSenhaMaster(ctx, ""); !errors.Is(err, ErrSenhaMasterInvalida) {
		t.Errorf("senha master vazia nunca valida: veio %v", err)
	}
}

func TestNomeSolicitante(t *testing.T) {
	s := Solicitante{ID: uuid.New(), Nome: "Pátio Norte"}
	svc := NewService(&stubRepo{cfg: &Configuracao{Solicitantes: []Solicitante{s}}})
	ctx := context.Background()

	nome, err := svc.NomeSolicitante(ctx, s.ID)
	if err != nil || nome != "Pátio Norte" {
		t.Fatalf("NomeSolicitante: %q, %v", nome, err)
	}
	if _, err := svc.NomeSolicitante(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("solicitante inexistente: veio %v", err)
	}
}

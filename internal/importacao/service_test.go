package importacao

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inspecar/vistorias/internal/vistoria"
)

type fakeRedis struct {
	dados map[string]string
}

func novoFakeRedis() *fakeRedis {
	return &fakeRedis{dados: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.dados[key] = fmt.Sprintf("%s", value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	valor, ok := f.dados[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(valor, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.dados[key]; ok {
			delete(f.dados, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type fakeCriador struct {
	criadas []vistoria.Vistoria
	err     error
}

func (f *fakeCriador) CriarLote(ctx context.Context, vistorias []vistoria.Vistoria) error {
	if f.err != nil {
		return f.err
	}
	f.criadas = append(f.criadas, vistorias...)
	return nil
}

func TestEncenarGuardaLote(t *testing.T) {
	rdb := novoFakeRedis()
	svc := NewService(rdb, &fakeCriador{}, time.Hour)

	buf := planilha(t, [][]any{
		{"Solicitante", "Placa", "Data"},
		{"Pátio Norte", "abc1234", "2026-04-01"},
		{"Pátio Sul", "xyz9876", "2026-04-02"},
	})

	lote, err := svc.Encenar(context.Background(), buf)
	if err != nil {
		t.Fatalf("Encenar: %v", err)
	}
	if len(lote.Linhas) != 2 {
		t.Fatalf("esperadas 2 linhas encenadas, vieram %d", len(lote.Linhas))
	}

	recuperado, err := svc.Get(context.Background(), lote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(recuperado.Linhas) != 2 || recuperado.Linhas[0].Solicitante != "Pátio Norte" {
		t.Fatalf("lote recuperado diferente do encenado: %+v", recuperado)
	}
}

func TestGetLoteInexistente(t *testing.T) {
	svc := NewService(novoFakeRedis(), &fakeCriador{}, time.Hour)

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrLoteNotFound) {
		t.Fatalf("esperado ErrLoteNotFound, veio %v", err)
	}
}

func TestConfirmarSubconjunto(t *testing.T) {
	rdb := novoFakeRedis()
	criador := &fakeCriador{}
	svc := NewService(rdb, criador, time.Hour)

	buf := planilha(t, [][]any{
		{"Solicitante", "Placa", "Data"},
		{"Pátio Norte", "abc1234", "2026-04-01"},
		{"Pátio Sul", "xyz9876", "2026-04-02"},
		{"Pátio Leste", "def5678", "2026-04-03"},
	})
	lote, err := svc.Encenar(context.Background(), buf)
	if err != nil {
		t.Fatalf("Encenar: %v", err)
	}

	n, err := svc.Confirmar(context.Background(), lote.ID, []int{0, 2})
	if err != nil {
		t.Fatalf("Confirmar: %v", err)
	}
	if n != 2 || len(criador.criadas) != 2 {
		t.Fatalf("esperadas 2 confirmadas, vieram %d", n)
	}
	if criador.criadas[1].Solicitante != "Pátio Leste" {
		t.Errorf("seleção fora de ordem: %+v", criador.criadas)
	}

	// o lote é descartado após a confirmação
	if _, err := svc.Get(context.Background(), lote.ID); !errors.Is(err, ErrLoteNotFound) {
		t.Fatalf("lote deveria ter sido descartado, veio %v", err)
	}
}

func TestConfirmarValidacoes(t *testing.T) {
	rdb := novoFakeRedis()
	svc := NewService(rdb, &fakeCriador{}, time.Hour)

	buf := planilha(t, [][]any{
		{"Solicitante", "Placa", "Data"},
		{"Pátio Norte", "abc1234", "2026-04-01"},
	})
	lote, err := svc.Encenar(context.Background(), buf)
	if err != nil {
		t.Fatalf("Encenar: %v", err)
	}

	if _, err := svc.Confirmar(context.Background(), lote.ID, nil); !errors.Is(err, ErrSelecaoVazia) {
		t.Errorf("seleção vazia: veio %v", err)
	}
	if _, err := svc.Confirmar(context.Background(), lote.ID, []int{5}); err == nil {
		t.Error("índice fora do lote deveria falhar")
	}
	if _, err := svc.Confirmar(context.Background(), uuid.New(), []int{0}); !errors.Is(err, ErrLoteNotFound) {
		t.Errorf("lote inexistente: veio %v", err)
	}
}

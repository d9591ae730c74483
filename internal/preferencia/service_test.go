package preferencia

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	dados map[string]string
}

func novoFakeRedis() *fakeRedis {
	return &fakeRedis{dados: make(map[string]string)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f.dados[key] = v
	case []byte:
		f.dados[key] = string(v)
	}
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

func TestGetSemDocumentoDevolveObjetoVazio(t *testing.T) {
	svc := NewService(novoFakeRedis())

	doc, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(doc) != "{}" {
		t.Fatalf("esperado objeto vazio, veio %s", doc)
	}
}

func TestSetELeitura(t *testing.T) {
	svc := NewService(novoFakeRedis())
	usuario := uuid.New()
	ctx := context.Background()

	documento := json.RawMessage(`{"tema":"escuro","colunas":["placa","data"]}`)
	if err := svc.Set(ctx, usuario, documento); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc, err := svc.Get(ctx, usuario)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(doc) != string(documento) {
		t.Fatalf("documento diferente do salvo: %s", doc)
	}
}

func TestSetRejeitaNaoObjeto(t *testing.T) {
	svc := NewService(novoFakeRedis())
	ctx := context.Background()
	usuario := uuid.New()

	for _, payload := range []string{`[1,2,3]`, `"texto"`, `nulo`} {
		if err := svc.Set(ctx, usuario, json.RawMessage(payload)); !errors.Is(err, ErrDocumentoInvalido) {
			t.Errorf("%s: veio %v", payload, err)
		}
	}
}

func TestLimpar(t *testing.T) {
	rdb := novoFakeRedis()
	svc := NewService(rdb)
	usuario := uuid.New()
	ctx := context.Background()

	if err := svc.Set(ctx, usuario, json.RawMessage(`{"tema":"claro"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := svc.Limpar(ctx, usuario); err != nil {
		t.Fatalf("Limpar: %v", err)
	}

	doc, err := svc.Get(ctx, usuario)
	if err != nil || string(doc) != "{}" {
		t.Fatalf("após limpar esperado objeto vazio: %s, %v", doc, err)
	}

	// limpar de novo não é erro
	if err := svc.Limpar(ctx, usuario); err != nil {
		t.Fatalf("Limpar idempotente: %v", err)
	}
}

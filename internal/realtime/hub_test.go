package realtime

import (
	"context"
	"testing"
	"time"
)

func TestPublishEntregaParaAssinantes(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := hub.Subscribe(ctx)
	b := hub.Subscribe(ctx)

	hub.Publish("vistorias")

	for nome, ch := range map[string]<-chan Evento{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Colecao != "vistorias" {
				t.Errorf("assinante %s: coleção %q", nome, ev.Colecao)
			}
		case <-time.After(time.Second):
			t.Fatalf("assinante %s não recebeu o evento", nome)
		}
	}
}

func TestCancelamentoEncerraCanal(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch := hub.Subscribe(ctx)
	cancel()

	select {
	case _, aberto := <-ch:
		if aberto {
			t.Fatal("esperava canal fechado sem eventos")
		}
	case <-time.After(time.Second):
		t.Fatal("canal não foi fechado após o cancelamento")
	}

	// publicar depois do cancelamento não pode travar nem entrar em pânico
	hub.Publish("vistorias")
}

func TestAssinanteLentoNaoBloqueia(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub.Subscribe(ctx) // ninguém lê deste canal

	pronto := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish("lancamentos")
		}
		close(pronto)
	}()

	select {
	case <-pronto:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish bloqueou com assinante lento")
	}
}

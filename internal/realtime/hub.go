package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Evento sinaliza que uma coleção mudou; assinantes recarregam o snapshot
// completo, sem diff incremental.
type Evento struct {
	Colecao string    `json:"colecao"`
	Em      time.Time `json:"em"`
}

// Hub distribui eventos de mudança de coleção para assinantes.
type Hub struct {
	mu      sync.Mutex
	proximo int
	subs    map[int]chan Evento
}

// NewHub cria um hub vazio.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Evento)}
}

// Subscribe registra um assinante; o cancelamento remove a inscrição.
// O canal é fechado quando o contexto termina.
func (h *Hub) Subscribe(ctx context.Context) <-chan Evento {
	h.mu.Lock()
	id := h.proximo
	h.proximo++
	ch := make(chan Evento, 16)
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish notifica todos os assinantes de que a coleção mudou.
// Assinantes lentos perdem eventos em vez de bloquear o publicador.
func (h *Hub) Publish(colecao string) {
	evento := Evento{Colecao: colecao, Em: time.Now().UTC()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- evento:
		default:
			log.Warn().Int("assinante", id).Str("colecao", colecao).Msg("assinante lento, evento descartado")
		}
	}
}

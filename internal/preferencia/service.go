// Package preferencia guarda preferências de interface por usuário (colunas
// visíveis, filtros salvos, tema). O documento é opaco para o servidor.
package preferencia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrDocumentoInvalido indica payload que não é um objeto JSON.
var ErrDocumentoInvalido = errors.New("preferências devem ser um objeto JSON")

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Service persiste os documentos de preferência.
type Service struct {
	redis redisCommander
}

// NewService cria uma nova instância do serviço.
func NewService(redisClient redisCommander) *Service {
	return &Service{redis: redisClient}
}

func chave(usuarioID uuid.UUID) string {
	return fmt.Sprintf("preferencias:%s", usuarioID)
}

// Get devolve o documento do usuário; objeto vazio quando nunca salvo.
func (s *Service) Get(ctx context.Context, usuarioID uuid.UUID) (json.RawMessage, error) {
	raw, err := s.redis.Get(ctx, chave(usuarioID)).Result()
	if err == redis.Nil {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Set substitui o documento do usuário. Sem TTL: preferências não expiram.
func (s *Service) Set(ctx context.Context, usuarioID uuid.UUID, documento json.RawMessage) error {
	var objeto map[string]any
	if err := json.Unmarshal(documento, &objeto); err != nil {
		return ErrDocumentoInvalido
	}
	return s.redis.Set(ctx, chave(usuarioID), []byte(documento), 0).Err()
}

// Limpar remove o documento do usuário.
func (s *Service) Limpar(ctx context.Context, usuarioID uuid.UUID) error {
	if err := s.redis.Del(ctx, chave(usuarioID)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

package importacao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inspecar/vistorias/internal/vistoria"
)

var (
	// ErrLoteNotFound indica lote inexistente ou expirado.
	ErrLoteNotFound = errors.New("lote de importação não encontrado")
	// ErrSelecaoVazia indica confirmação sem nenhuma linha selecionada.
	ErrSelecaoVazia = errors.New("nenhuma linha selecionada")
)

// Lote agrupa linhas encenadas aguardando confirmação do operador.
type Lote struct {
	ID       uuid.UUID `json:"id"`
	Linhas   []Linha   `json:"linhas"`
	CriadoEm time.Time `json:"criado_em"`
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type criadorLote interface {
	CriarLote(ctx context.Context, vistorias []vistoria.Vistoria) error
}

// Service encena planilhas importadas e confirma subconjuntos selecionados.
type Service struct {
	redis     redisCommander
	vistorias criadorLote
	ttl       time.Duration
}

// NewService cria uma nova instância do serviço.
func NewService(redisClient redisCommander, vistorias criadorLote, ttl time.Duration) *Service {
	return &Service{redis: redisClient, vistorias: vistorias, ttl: ttl}
}

func loteKey(id uuid.UUID) string {
	return fmt.Sprintf("importacao:lote:%s", id)
}

// Encenar lê a planilha e guarda o lote em espera; nada é gravado na coleção
// de vistorias até a confirmação.
func (s *Service) Encenar(ctx context.Context, r io.Reader) (*Lote, error) {
	linhas, err := ParsePlanilha(r)
	if err != nil {
		return nil, err
	}

	lote := &Lote{
		ID:       uuid.New(),
		Linhas:   linhas,
		CriadoEm: time.Now().UTC(),
	}

	payload, err := json.Marshal(lote)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, loteKey(lote.ID), payload, s.ttl).Err(); err != nil {
		return nil, err
	}

	return lote, nil
}

// Get devolve um lote encenado.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Lote, error) {
	raw, err := s.redis.Get(ctx, loteKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrLoteNotFound
	}
	if err != nil {
		return nil, err
	}

	var lote Lote
	if err := json.Unmarshal([]byte(raw), &lote); err != nil {
		return nil, err
	}
	return &lote, nil
}

// Confirmar grava as linhas selecionadas como vistorias Solicitadas, em um
// único commit atômico, e descarta o lote.
func (s *Service) Confirmar(ctx context.Context, id uuid.UUID, indices []int) (int, error) {
	lote, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	var selecionadas []vistoria.Vistoria
	for _, idx := range indices {
		if idx < 0 || idx >= len(lote.Linhas) {
			return 0, fmt.Errorf("linha %d fora do lote", idx)
		}
		linha := lote.Linhas[idx]
		selecionadas = append(selecionadas, vistoria.Vistoria{
			Solicitante:  linha.Solicitante,
			Demanda:      linha.Demanda,
			TipoVistoria: linha.TipoVistoria,
			Placa:        linha.Placa,
			Descricao:    linha.Descricao,
			Patio:        linha.Patio,
			Data:         linha.Data,
		})
	}

	if len(selecionadas) == 0 {
		return 0, ErrSelecaoVazia
	}

	if err := s.vistorias.CriarLote(ctx, selecionadas); err != nil {
		return 0, err
	}

	if err := s.redis.Del(ctx, loteKey(id)).Err(); err != nil && err != redis.Nil {
		return 0, err
	}

	return len(selecionadas), nil
}

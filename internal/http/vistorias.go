package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/vistoria"
)

type vistoriaPayload struct {
	CodigoExibicao       *string `json:"codigo_exibicao"`
	Solicitante          string  `json:"solicitante"`
	Demanda              string  `json:"demanda"`
	TipoVistoria         string  `json:"tipo_vistoria"`
	Placa                string  `json:"placa"`
	Descricao            string  `json:"descricao"`
	Patio                string  `json:"patio"`
	Data                 string  `json:"data"`
	VistoriadorID        *string `json:"vistoriador_id"`
	Status               string  `json:"status"`
	Observacoes          string  `json:"observacoes"`
	ConfirmarDuplicidade bool    `json:"confirmar_duplicidade"`
}

func parseISODate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (p vistoriaPayload) input() (vistoria.Input, error) {
	in := vistoria.Input{
		CodigoExibicao:       p.CodigoExibicao,
		Solicitante:          p.Solicitante,
		Demanda:              p.Demanda,
		TipoVistoria:         p.TipoVistoria,
		Placa:                p.Placa,
		Descricao:            p.Descricao,
		Patio:                p.Patio,
		Status:               p.Status,
		Observacoes:          p.Observacoes,
		ConfirmarDuplicidade: p.ConfirmarDuplicidade,
	}

	if strings.TrimSpace(p.Data) != "" {
		data, err := parseISODate(p.Data)
		if err != nil {
			return vistoria.Input{}, errors.New("data inválida")
		}
		in.Data = data
	}

	if p.VistoriadorID != nil && strings.TrimSpace(*p.VistoriadorID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*p.VistoriadorID))
		if err != nil {
			return vistoria.Input{}, errors.New("vistoriador inválido")
		}
		in.VistoriadorID = &id
	}

	return in, nil
}

// periodoFromQuery interpreta inicio/fim; ambos presentes ativam a busca por
// período e suspendem a janela de exibição.
func periodoFromQuery(r *http.Request) (*vistoria.Periodo, error) {
	inicio := strings.TrimSpace(r.URL.Query().Get("inicio"))
	fim := strings.TrimSpace(r.URL.Query().Get("fim"))
	if inicio == "" && fim == "" {
		return nil, nil
	}
	if inicio == "" || fim == "" {
		return nil, errors.New("busca por período exige inicio e fim")
	}

	de, err := parseISODate(inicio)
	if err != nil {
		return nil, errors.New("inicio inválido")
	}
	ate, err := parseISODate(fim)
	if err != nil {
		return nil, errors.New("fim inválido")
	}
	if ate.Before(de) {
		return nil, errors.New("fim anterior ao início")
	}

	return &vistoria.Periodo{Inicio: de, Fim: ate}, nil
}

func idFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// ListVistorias devolve as vistorias visíveis para o usuário, ordenadas.
func (h *Handler) ListVistorias(w http.ResponseWriter, r *http.Request) {
	periodo, err := periodoFromQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.ator(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	visiveis, err := h.vistorias.Visiveis(r.Context(), ator, periodo)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar vistorias", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"vistorias": visiveis})
}

// GetVistoria busca uma vistoria pelo identificador.
func (h *Handler) GetVistoria(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	v, err := h.vistorias.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, vistoria.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "vistoria não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar a vistoria", nil)
		return
	}

	WriteJSON(w, http.StatusOK, v)
}

// CreateVistoria registra uma nova vistoria. Placa repetida em 30 dias retorna
// 409 até a confirmação explícita.
func (h *Handler) CreateVistoria(w http.ResponseWriter, r *http.Request) {
	var payload vistoriaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.ator(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	criada, err := h.vistorias.Criar(r.Context(), ator, in)
	if err != nil {
		switch {
		case errors.Is(err, vistoria.ErrDuplicada):
			WriteError(w, http.StatusConflict, "DUPLICADA", "já existe vistoria para esta placa nos últimos 30 dias", nil)
		case errors.Is(err, vistoria.ErrStatusInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "status inválido", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, criada)
}

// UpdateVistoria edita uma vistoria existente.
func (h *Handler) UpdateVistoria(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload vistoriaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	in, err := payload.input()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	ator, err := h.ator(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	atualizada, err := h.vistorias.Atualizar(r.Context(), ator, id, in)
	if err != nil {
		switch {
		case errors.Is(err, vistoria.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "vistoria não encontrada", nil)
		case errors.Is(err, vistoria.ErrStatusInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", "status inválido", nil)
		default:
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, atualizada)
}

// DeleteVistoria remove uma vistoria.
func (h *Handler) DeleteVistoria(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	if err := h.vistorias.Excluir(r.Context(), id); err != nil {
		if errors.Is(err, vistoria.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "vistoria não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// DeleteVistoriasLote remove várias vistorias em um único commit.
func (h *Handler) DeleteVistoriasLote(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.IDs) == 0 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "ids obrigatórios", nil)
		return
	}

	ids := make([]uuid.UUID, 0, len(payload.IDs))
	for _, raw := range payload.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido: "+raw, nil)
			return
		}
		ids = append(ids, id)
	}

	if err := h.vistorias.ExcluirLote(r.Context(), ids); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível excluir o lote", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"excluidas": len(ids)})
}

// ListMensagens devolve o histórico de conversa de uma vistoria.
func (h *Handler) ListMensagens(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	mensagens, err := h.vistorias.Mensagens(r.Context(), id)
	if err != nil {
		if errors.Is(err, vistoria.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "vistoria não encontrada", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar mensagens", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"mensagens": mensagens})
}

// CreateMensagem acrescenta uma mensagem ao histórico da vistoria.
func (h *Handler) CreateMensagem(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "identificador inválido", nil)
		return
	}

	var payload struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	ator, err := h.ator(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "usuário não encontrado", nil)
		return
	}

	m, err := h.vistorias.AddMensagem(r.Context(), ator, id, payload.Texto)
	if err != nil {
		if errors.Is(err, vistoria.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "vistoria não encontrada", nil)
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, m)
}

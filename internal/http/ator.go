package http

import (
	"net/http"

	httpmiddleware "github.com/inspecar/vistorias/internal/http/middleware"
	"github.com/inspecar/vistorias/internal/pendencia"
	"github.com/inspecar/vistorias/internal/vistoria"
)

// ator reconstrói quem está operando: subject e papéis vêm do token, o nome do
// solicitante vinculado vem do cadastro, resolvido contra a configuração.
func (h *Handler) ator(r *http.Request) (vistoria.Ator, error) {
	ator := vistoria.Ator{
		ID:     httpmiddleware.GetSubject(r.Context()),
		Papeis: httpmiddleware.GetPapeis(r.Context()),
	}

	usuario, err := h.users.Get(r.Context(), ator.ID)
	if err != nil {
		return vistoria.Ator{}, err
	}
	ator.Papeis = usuario.Papeis

	if usuario.SolicitanteID != nil {
		nome, err := h.settings.NomeSolicitante(r.Context(), *usuario.SolicitanteID)
		if err == nil {
			ator.Solicitante = nome
		}
	}

	return ator, nil
}

func (h *Handler) atorPendencia(r *http.Request) (pendencia.Ator, error) {
	a, err := h.ator(r)
	if err != nil {
		return pendencia.Ator{}, err
	}
	return pendencia.Ator{ID: a.ID, Papeis: a.Papeis, Solicitante: a.Solicitante}, nil
}

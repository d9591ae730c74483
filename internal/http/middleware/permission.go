package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/permission"
)

// MatrizLoader resolve a matriz efetiva de um usuário. A consulta acontece a
// cada requisição, de modo que revogações valem imediatamente.
type MatrizLoader interface {
	MatrizDoUsuario(ctx context.Context, id uuid.UUID) (permission.Matriz, error)
}

// RequireNivel exige o nível mínimo no módulo para seguir adiante.
func RequireNivel(loader MatrizLoader, modulo permission.Modulo, exigido permission.Nivel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if subject == uuid.Nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "não autenticado")
				return
			}

			matriz, err := loader.MatrizDoUsuario(r.Context(), subject)
			if err != nil {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso negado")
				return
			}

			if !permission.Atende(matriz[modulo], exigido) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso negado ao módulo "+string(modulo))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inspecar/vistorias/internal/auth"
	"github.com/inspecar/vistorias/internal/permission"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyPapeis  contextKey = "papeis"
)

// Auth valida o JWT de acesso e injeta subject e papéis no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			subject, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "subject inválido")
				return
			}

			var papeis []permission.Papel
			for _, raw := range claims.Papeis {
				if papel, ok := permission.ParsePapel(raw); ok {
					papeis = append(papeis, papel)
				}
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, subject)
			ctx = context.WithValue(ctx, ContextKeyPapeis, papeis)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject recupera o identificador do usuário autenticado.
func GetSubject(ctx context.Context) uuid.UUID {
	val, _ := ctx.Value(ContextKeySubject).(uuid.UUID)
	return val
}

// GetPapeis recupera os papéis presentes no token.
func GetPapeis(ctx context.Context) []permission.Papel {
	val, _ := ctx.Value(ContextKeyPapeis).([]permission.Papel)
	return val
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID gera um identificador UUID v4 em formato string.
func NewID() string {
	return uuid.NewString()
}

// CodigoCurto deriva o código de exibição a partir de um identificador:
// últimos 6 caracteres em maiúsculas, prefixados com '#'.
func CodigoCurto(id string) string {
	limpo := strings.ReplaceAll(id, "-", "")
	if len(limpo) > 6 {
		limpo = limpo[len(limpo)-6:]
	}
	return "#" + strings.ToUpper(limpo)
}

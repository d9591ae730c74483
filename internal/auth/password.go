package auth

import (
	"github.com/alexedwards/argon2id"
)

// custo do Argon2id para novas senhas; hashes antigos continuam verificáveis
// porque os parâmetros viajam codificados no próprio hash.
var custoSenha = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hash deriva o hash Argon2id de uma senha em texto claro.
func Hash(senha string) (string, error) {
	return argon2id.CreateHash(senha, custoSenha)
}

// Verify confere se a senha corresponde ao hash armazenado.
func Verify(senha, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(senha, hash)
}

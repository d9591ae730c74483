// Gera um hash Argon2id para semear usuários manualmente.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/inspecar/vistorias/internal/auth"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Fprint(os.Stderr, "senha: ")
	senha, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro lendo senha:", err)
		os.Exit(1)
	}

	hash, err := auth.Hash(strings.TrimSpace(senha))
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro gerando hash:", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}

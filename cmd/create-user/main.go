// Command create-user da de alta un usuario desde la terminal. Sirve para
// crear el primer administrador cuando AUTH_REQUIRED=true.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	pg "sistpec-api/internal/adapters/storage/postgres"
	"sistpec-api/internal/config"
	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/password"

	"golang.org/x/term"
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label + ": ")
	s, _ := r.ReadString('\n')
	return strings.TrimSpace(s)
}

func main() {
	tipo := flag.Int64("tipo", usuarios.TipoAdministrador, "tipo_usuario (1=Administrador)")
	flag.Parse()

	cfg := config.Load()
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		fatal("DB_DSN o DB_HOST es requerido")
	}
	db, err := pg.Open(dsn, 1)
	if err != nil {
		fatal("no se pudo conectar a la base de datos: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Crear usuario ===")
	in := usuarios.CreateInput{
		Nombre:          prompt(reader, "Nombre"),
		ApellidoPaterno: prompt(reader, "Apellido paterno"),
		NombreUsuario:   prompt(reader, "Nombre de usuario"),
		Correo:          prompt(reader, "Correo"),
		TipoUsuario:     *tipo,
	}

	fmt.Print("Contraseña: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fatal("no se pudo leer la contraseña: %v", err)
	}
	in.Password = string(pass)

	svc := usuarios.NewService(pg.NewUsuariosRepo(db), password.NewHasher(password.DefaultParams))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	id, err := svc.Create(ctx, in)
	if err != nil {
		if msg, ok := apperr.Message(err); ok {
			fatal("%s", msg)
		}
		fatal("no se pudo crear el usuario: %v", err)
	}

	fmt.Printf("Usuario creado: id=%d nombre_usuario=%s rol=%s\n", id, in.NombreUsuario, usuarios.Rol(in.TipoUsuario))
}

// Package password hashea contraseñas con argon2id (formato PHC) y verifica
// tanto argon2id como hashes bcrypt heredados.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnknownFormat = errors.New("password: formato de hash desconocido")

type Params struct {
	Memory  uint32 // KiB
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams sigue la recomendación de RFC 9106 para entornos con memoria limitada.
var DefaultParams = Params{
	Memory:  64 * 1024,
	Time:    3,
	Threads: 2,
	SaltLen: 16,
	KeyLen:  32,
}

type Hasher struct {
	p     Params
	dummy string
}

func NewHasher(p Params) *Hasher {
	h := &Hasher{p: p}
	// hash fijo para igualar tiempos cuando el usuario no existe
	h.dummy, _ = h.Hash("sistpec-dummy-password")
	return h
}

// Hash devuelve $argon2id$v=19$m=...,t=...,p=...$salt$key
func (h *Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, h.p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}
	key := argon2.IDKey([]byte(plain), salt, h.p.Time, h.p.Memory, h.p.Threads, h.p.KeyLen)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.p.Memory, h.p.Time, h.p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify compara en tiempo constante. Acepta argon2id y bcrypt ($2a$, $2b$, $2y$).
func (h *Hasher) Verify(encoded, plain string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2id(encoded, plain)
	case strings.HasPrefix(encoded, "$2a$"), strings.HasPrefix(encoded, "$2b$"), strings.HasPrefix(encoded, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	default:
		return false, ErrUnknownFormat
	}
}

// VerifyDummy consume el mismo tiempo que una verificación real.
func (h *Hasher) VerifyDummy(plain string) {
	_, _ = h.Verify(h.dummy, plain)
}

func verifyArgon2id(encoded, plain string) (bool, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 {
		return false, ErrUnknownFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrUnknownFormat
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrUnknownFormat
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, ErrUnknownFormat
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil {
		return false, ErrUnknownFormat
	}

	got := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

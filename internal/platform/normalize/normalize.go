// Package normalize limpia los campos de texto opcionales que llegan en los requests.
package normalize

import "strings"

// Optional recorta espacios; vacío equivale a no enviado.
func Optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// OptionalUpper es Optional en mayúsculas (CURP, RFC, claves).
func OptionalUpper(p *string) *string {
	v := Optional(p)
	if v == nil {
		return nil
	}
	u := strings.ToUpper(*v)
	return &u
}

// Cleared distingue "enviado vacío" de "no enviado" en un PUT: devuelve
// (nil, true) cuando el cliente mandó "" para limpiar el campo.
func Cleared(p *string) (*string, bool) {
	if p == nil {
		return nil, false
	}
	return Optional(p), true
}

// Join une las partes no vacías con un espacio.
func Join(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

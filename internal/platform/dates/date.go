// Package dates modela fechas de calendario (sin hora) como las columnas DATE.
package dates

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Date serializa como "YYYY-MM-DD" y se guarda en UTC a medianoche.
type Date struct {
	time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of trunca t a su fecha de calendario (en la zona de t).
func Of(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q: se espera YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(Layout)
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: se espera texto YYYY-MM-DD")
	}
	// acepta también timestamps completos que algunos clientes mandan
	if len(s) > len(Layout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = Of(t)
			return nil
		}
	}
	p, err := Parse(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Scan implementa sql.Scanner (pgx entrega DATE como time.Time).
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = New(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		p, err := Parse(v)
		if err != nil {
			return err
		}
		*d = p
		return nil
	case []byte:
		p, err := Parse(string(v))
		if err != nil {
			return err
		}
		*d = p
		return nil
	default:
		return fmt.Errorf("dates: tipo no soportado %T", src)
	}
}

// Value implementa driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

package casos

import "sistpec-api/internal/platform/dates"

// EpiWeek devuelve la semana ISO-8601 y el año ISO al que pertenece d.
// Los primeros días de enero pueden caer en la última semana del año anterior.
func EpiWeek(d dates.Date) (week, year int) {
	year, week = d.ISOWeek()
	return week, year
}

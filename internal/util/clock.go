package util

import "time"

// Now devolve o instante atual em UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// MeiaNoite trunca um instante para a meia-noite do mesmo dia, preservando o fuso.
func MeiaNoite(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DiasEntre devolve a diferença absoluta em dias de calendário entre dois instantes.
func DiasEntre(a, b time.Time) int {
	da := MeiaNoite(a.UTC())
	db := MeiaNoite(b.UTC())
	diff := da.Sub(db)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

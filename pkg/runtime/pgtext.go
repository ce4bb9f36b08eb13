package runtime

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// pgText renders a value decoded by lib/pq back into the text Postgres
// sent for it. lib/pq only decodes booleans, integers, floats, bytea and
// date/time types; every other column arrives as the server's bytes.
func pgText(v any, dbType string) []byte {
	switch v := v.(type) {
	case nil:
		return nil
	case []byte:
		if dbType == "BYTEA" {
			return pgBytea(v)
		}
		return append([]byte{}, v...)
	case float64:
		if dbType == "FLOAT4" {
			return []byte(pgFloat(v, 32))
		}
		return []byte(pgFloat(v, 64))
	case time.Time:
		return []byte(pgTime(v, dbType))
	}
	return textOf(v)
}

// pgBytea is the hex output format, the server default since 9.0.
func pgBytea(b []byte) []byte {
	out := make([]byte, 2+hex.EncodedLen(len(b)))
	copy(out, `\x`)
	hex.Encode(out[2:], b)
	return out
}

// pgFloat matches float4out/float8out with extra_float_digits at its
// default: shortest round-trip digits, in exponent form below 1e-4 and from
// 1e15 (1e6 for float4) up.
func pgFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	maxExp := 15
	if bits == 32 {
		maxExp = 6
	}
	e := strconv.FormatFloat(f, 'e', -1, bits)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err == nil && exp >= -4 && exp < maxExp {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return e
}

// pgTime renders date/time values in the ISO DateStyle.
func pgTime(t time.Time, dbType string) string {
	const clock = "15:04:05.999999"
	switch dbType {
	case "DATE":
		return pgDate(t) + era(t)
	case "TIME":
		return t.Format(clock)
	case "TIMETZ":
		return t.Format(clock) + pgOffset(t)
	case "TIMESTAMP":
		return pgDate(t) + " " + t.Format(clock) + era(t)
	case "TIMESTAMPTZ":
		return pgDate(t) + " " + t.Format(clock) + pgOffset(t) + era(t)
	}
	return t.Format(timeLayout)
}

// pgDate prints the date part; years up to 0 are 1 BC and earlier.
func pgDate(t time.Time) string {
	year := t.Year()
	if year <= 0 {
		year = 1 - year
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(t.Month()), t.Day())
}

func era(t time.Time) string {
	if t.Year() <= 0 {
		return " BC"
	}
	return ""
}

// pgOffset prints a zone offset as +hh, +hh:mm or +hh:mm:ss.
func pgOffset(t time.Time) string {
	_, off := t.Zone()
	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}
	s := fmt.Sprintf("%c%02d", sign, off/3600)
	if m, sec := off%3600/60, off%60; m != 0 || sec != 0 {
		s += fmt.Sprintf(":%02d", m)
		if sec != 0 {
			s += fmt.Sprintf(":%02d", sec)
		}
	}
	return s
}

// Package table contains the in-memory tabular structures passed between
// pipeline stages.
package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the type held by a Value.
type Kind uint8

const (
	Missing Kind = iota
	String
	Int
	Float
	Bool
	Date
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a single typed cell. The zero Value is Missing.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	t    time.Time
}

// Constructors.
func NA() Value                { return Value{} }
func Str(s string) Value       { return Value{kind: String, s: s} }
func Integer(i int64) Value    { return Value{kind: Int, i: i} }
func Boolean(b bool) Value     { return Value{kind: Bool, i: boolToInt(b)} }
func DateOf(t time.Time) Value { return Value{kind: Date, t: t} }

// Kind returns the type tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == Missing }

// Time returns the timestamp of a Date value.
func (v Value) Time() time.Time { return v.t }

// Int returns the integer payload of Int and Bool values.
func (v Value) Int() int64 { return v.i }

// Number builds a Float value. NaN collapses to Missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Float, f: f}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Float returns the value as float64 for numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Int, Bool:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// Numeric converts the value to a number the way a lenient numeric cast does:
// numbers pass through, booleans become 0/1, strings are parsed, anything else
// fails.
func (v Value) Numeric() (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	if v.kind != String {
		return 0, false
	}
	s := strings.TrimSpace(v.s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Text renders the value as CSV cell text.
func (v Value) Text() string {
	switch v.kind {
	case String:
		return v.s
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return FormatFloat(v.f)
	case Bool:
		if v.i != 0 {
			return "True"
		}
		return "False"
	case Date:
		return FormatDate(v.t, hasClock(v.t))
	default:
		return ""
	}
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Missing:
		return true
	case String:
		return v.s == o.s
	case Int, Bool:
		return v.i == o.i
	case Float:
		return v.f == o.f
	case Date:
		return v.t.Equal(o.t)
	}
	return false
}

// FormatFloat keeps a ".0" on integral floats so a float column never reads
// back as integers.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		format = 'g'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		return s + ".0"
	}
	return s
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// FormatDate renders t as a date, or as date and time when withClock is set.
func FormatDate(t time.Time, withClock bool) string {
	if withClock {
		return t.Format(dateTimeLayout)
	}
	return t.Format(dateLayout)
}

func hasClock(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0
}

// HasClock reports whether a Date value carries a time of day.
func (v Value) HasClock() bool {
	return v.kind == Date && hasClock(v.t)
}

// Render is Text with the date format chosen by the caller, usually from
// Table.ClockColumns.
func Render(v Value, withClock bool) string {
	if v.kind == Date {
		return FormatDate(v.t, withClock)
	}
	return v.Text()
}

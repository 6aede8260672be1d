package table

import (
	"strconv"
	"strings"
)

// naTokens are the raw field values read as missing.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"-1.#IND": {}, "-1.#QNAN": {}, "1.#IND": {}, "1.#QNAN": {},
}

// IsNA reports whether raw is one of the missing-value tokens.
func IsNA(raw string) bool {
	_, ok := naTokens[raw]
	return ok
}

// InferColumn converts the raw strings of one column into values of a single
// kind:
//   - Int when every field is an integer and none is missing,
//   - Float when every present field is numeric,
//   - Bool when every present field is True/False,
//   - String otherwise.
//
// Missing fields stay Missing in every kind.
func InferColumn(raw []string) []Value {
	allInt, allNum, allBool := true, true, true
	present := 0
	for _, s := range raw {
		if IsNA(s) {
			allInt = false
			continue
		}
		present++
		if allInt {
			if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				allNum = false
			}
		}
		if allBool {
			if _, ok := parseBool(s); !ok {
				allBool = false
			}
		}
	}

	out := make([]Value, len(raw))
	for i, s := range raw {
		if IsNA(s) {
			continue
		}
		switch {
		case present == 0:
		case allInt:
			n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			out[i] = Integer(n)
		case allNum:
			f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
			out[i] = Number(f)
		case allBool:
			b, _ := parseBool(s)
			out[i] = Boolean(b)
		default:
			out[i] = Str(s)
		}
	}
	return out
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

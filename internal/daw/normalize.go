package daw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParamValueKind tags which shape a wire-level parameter value arrived in.
type ParamValueKind int

const (
	// KindNumber is a bare JSON number: used as-is.
	KindNumber ParamValueKind = iota
	// KindMin is the literal string "min": resolves to the parameter's Min.
	KindMin
	// KindMax is the literal string "max": resolves to the parameter's Max.
	KindMax
	// KindPercent is a string like "75%": resolves to Min + pct/100*(Max-Min).
	KindPercent
	// KindDecibel is a string like "-6dB": passed through as a bare number
	// (the host's own unit is already dB for these parameters).
	KindDecibel
	// KindNumericString is a bare numeric string, e.g. "0.5".
	KindNumericString
	// KindLabel is a quantized value's display label, e.g. "Off"/"On", matched
	// case-insensitively against Parameter.ValueItems.
	KindLabel
)

// ParamValue is the normalized form of any of the polymorphic wire shapes
// a parameter value can arrive in.
type ParamValue struct {
	Kind ParamValueKind
	Num  float64
	Str  string
}

// ParseParamValue sniffs the JSON raw value at gjson result r into a
// ParamValue, without yet resolving it against a specific Parameter's range
// (that happens in Normalize). Parsing is deliberately permissive: numbers,
// "min"/"max", percent strings, dB strings, numeric strings, and plain
// labels are all accepted.
func ParseParamValue(r gjson.Result) (ParamValue, error) {
	switch r.Type {
	case gjson.Number:
		return ParamValue{Kind: KindNumber, Num: r.Float()}, nil
	case gjson.String:
		s := strings.TrimSpace(r.String())
		switch strings.ToLower(s) {
		case "min":
			return ParamValue{Kind: KindMin}, nil
		case "max":
			return ParamValue{Kind: KindMax}, nil
		}
		if strings.HasSuffix(s, "%") {
			numPart := strings.TrimSuffix(s, "%")
			f, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
			if err != nil {
				return ParamValue{}, fmt.Errorf("%w: %q is not a valid percent", ErrBadValue, s)
			}
			return ParamValue{Kind: KindPercent, Num: f}, nil
		}
		if strings.HasSuffix(strings.ToLower(s), "db") {
			numPart := s[:len(s)-2]
			f, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
			if err != nil {
				return ParamValue{}, fmt.Errorf("%w: %q is not a valid dB value", ErrBadValue, s)
			}
			return ParamValue{Kind: KindDecibel, Num: f}, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ParamValue{Kind: KindNumericString, Num: f, Str: s}, nil
		}
		return ParamValue{Kind: KindLabel, Str: s}, nil
	default:
		return ParamValue{}, fmt.Errorf("%w: parameter value must be a number or string", ErrBadValue)
	}
}

// Normalize resolves a ParamValue against a specific Parameter's range,
// returning the value to store. It does not clamp numeric forms; callers
// pass the result to Parameter.Set, which clamps and, for quantized
// parameters, rounds. Quantized parameters accept labels
// (case-insensitive exact match against ValueItems) in addition to numeric
// forms, resolved to the label's index.
func Normalize(p *Parameter, v ParamValue) (float64, error) {
	switch v.Kind {
	case KindNumber, KindNumericString, KindDecibel:
		return v.Num, nil
	case KindMin:
		return p.Min, nil
	case KindMax:
		return p.Max, nil
	case KindPercent:
		pct := v.Num
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		return p.Min + (pct/100.0)*(p.Max-p.Min), nil
	case KindLabel:
		if !p.IsQuantized || len(p.ValueItems) == 0 {
			return 0, fmt.Errorf("%w: parameter %q does not accept label values", ErrBadValue, p.Name)
		}
		for i, label := range p.ValueItems {
			if strings.EqualFold(label, v.Str) {
				return float64(i), nil
			}
		}
		return 0, fmt.Errorf("%w: %q is not a valid value for parameter %q", ErrBadValue, v.Str, p.Name)
	default:
		return 0, fmt.Errorf("%w: unrecognized parameter value", ErrBadValue)
	}
}

package handlers

import (
	"fmt"
	"strings"

	"github.com/ableton-mcp/remote-bridge/internal/daw"
	"github.com/tidwall/gjson"
)

// reqInt reads a required integer field.
func reqInt(p gjson.Result, field string) (int, error) {
	v := p.Get(field)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing required field %q", daw.ErrBadValue, field)
	}
	return int(v.Int()), nil
}

// optInt reads an integer field, returning def if absent.
func optInt(p gjson.Result, field string, def int) int {
	v := p.Get(field)
	if !v.Exists() {
		return def
	}
	return int(v.Int())
}

// optIntPtr reads an integer field as *int, nil if absent.
func optIntPtr(p gjson.Result, field string) *int {
	v := p.Get(field)
	if !v.Exists() {
		return nil
	}
	n := int(v.Int())
	return &n
}

// reqFloat reads a required float field.
func reqFloat(p gjson.Result, field string) (float64, error) {
	v := p.Get(field)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing required field %q", daw.ErrBadValue, field)
	}
	return v.Float(), nil
}

// optFloat reads a float field, returning def if absent.
func optFloat(p gjson.Result, field string, def float64) float64 {
	v := p.Get(field)
	if !v.Exists() {
		return def
	}
	return v.Float()
}

// optFloatPtr reads a float field as *float64, nil if absent.
func optFloatPtr(p gjson.Result, field string) *float64 {
	v := p.Get(field)
	if !v.Exists() {
		return nil
	}
	f := v.Float()
	return &f
}

// reqString reads a required non-empty string field.
func reqString(p gjson.Result, field string) (string, error) {
	v := p.Get(field)
	if !v.Exists() || v.String() == "" {
		return "", fmt.Errorf("%w: missing required field %q", daw.ErrBadValue, field)
	}
	return v.String(), nil
}

// optString reads a string field, returning def if absent.
func optString(p gjson.Result, field string, def string) string {
	v := p.Get(field)
	if !v.Exists() {
		return def
	}
	return v.String()
}

// optStringPtr reads a string field as *string, nil if absent.
func optStringPtr(p gjson.Result, field string) *string {
	v := p.Get(field)
	if !v.Exists() {
		return nil
	}
	s := v.String()
	return &s
}

// optBool reads a bool field, returning def if absent.
func optBool(p gjson.Result, field string, def bool) bool {
	v := p.Get(field)
	if !v.Exists() {
		return def
	}
	return v.Bool()
}

// optBoolPtr reads a bool field as *bool, nil if absent.
func optBoolPtr(p gjson.Result, field string) *bool {
	v := p.Get(field)
	if !v.Exists() {
		return nil
	}
	b := v.Bool()
	return &b
}

// matchMode decodes a "match_mode" string into a daw.MatchMode, defaulting
// to contains.
func matchMode(p gjson.Result, field string) daw.MatchMode {
	switch strings.ToLower(optString(p, field, "contains")) {
	case "startswith", "starts_with":
		return daw.MatchStartsWith
	case "equals":
		return daw.MatchEquals
	default:
		return daw.MatchContains
	}
}

// reqParamValue reads a required polymorphic parameter value field (number,
// "min"/"max", percent, dB, quantized label).
func reqParamValue(p gjson.Result, field string) (daw.ParamValue, error) {
	v := p.Get(field)
	if !v.Exists() {
		return daw.ParamValue{}, fmt.Errorf("%w: missing required field %q", daw.ErrBadValue, field)
	}
	return daw.ParseParamValue(v)
}

// paramRef decodes a "parameter" field that may be an integer index or a
// case-insensitive name.
func paramRef(p gjson.Result, field string) any {
	v := p.Get(field)
	if v.Type == gjson.Number {
		return int(v.Int())
	}
	return v.String()
}

// anyRef decodes a field that may be absent (nil, "no change"), a number
// (index), or a string (name/substring) — used by configure_track_routing's
// input/output type/channel fields and resolve_option targets generally.
func anyRef(p gjson.Result, field string) any {
	v := p.Get(field)
	if !v.Exists() {
		return nil
	}
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	default:
		return nil
	}
}

// decodeNotes decodes a "notes" array into []daw.Note. Each entry may omit
// extended fields; DefaultedNote fills them in downstream.
func decodeNotes(p gjson.Result, field string) []daw.Note {
	arr := p.Get(field)
	if !arr.IsArray() {
		return nil
	}
	var notes []daw.Note
	arr.ForEach(func(_, item gjson.Result) bool {
		notes = append(notes, daw.Note{
			Pitch:             int(item.Get("pitch").Int()),
			StartTime:         item.Get("start_time").Float(),
			Duration:          item.Get("duration").Float(),
			Velocity:          int(item.Get("velocity").Int()),
			Mute:              item.Get("mute").Bool(),
			Probability:       item.Get("probability").Float(),
			VelocityDeviation: int(item.Get("velocity_deviation").Int()),
			ReleaseVelocity:   int(item.Get("release_velocity").Int()),
		})
		return true
	})
	return notes
}

// decodeParamUpdates decodes set_device_parameters' polymorphic "parameters"
// payload: a mapping {name_or_index: value}, a list of [param, value]
// pairs, or a list of {parameter|name|index, value} objects.
func decodeParamUpdates(p gjson.Result, field string) []daw.ParamUpdate {
	v := p.Get(field)
	var updates []daw.ParamUpdate

	switch {
	case v.IsObject():
		v.ForEach(func(key, val gjson.Result) bool {
			updates = append(updates, daw.ParamUpdate{Ref: key.String(), Value: mustParseParamValue(val)})
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if item.IsArray() {
				pair := item.Array()
				if len(pair) == 2 {
					updates = append(updates, daw.ParamUpdate{Ref: refFromResult(pair[0]), Value: mustParseParamValue(pair[1])})
				}
				return true
			}
			ref := item.Get("parameter")
			if !ref.Exists() {
				ref = item.Get("name")
			}
			if !ref.Exists() {
				ref = item.Get("index")
			}
			val := item.Get("value")
			updates = append(updates, daw.ParamUpdate{Ref: refFromResult(ref), Value: mustParseParamValue(val)})
			return true
		})
	}
	return updates
}

// decodeSends decodes configure_track_routing's polymorphic "sends"
// payload: a mapping, a list of [target, level] pairs, a list of
// {index|name|send, level|value} objects, or a flat list of positional
// values.
func decodeSends(p gjson.Result, field string) []daw.SendUpdate {
	v := p.Get(field)
	var sends []daw.SendUpdate

	switch {
	case v.IsObject():
		v.ForEach(func(key, val gjson.Result) bool {
			sends = append(sends, daw.SendUpdate{Target: refFromResult(key), Level: mustParseParamValue(val)})
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.IsArray():
				pair := item.Array()
				if len(pair) == 2 {
					sends = append(sends, daw.SendUpdate{Target: refFromResult(pair[0]), Level: mustParseParamValue(pair[1])})
				}
			case item.IsObject():
				ref := item.Get("index")
				if !ref.Exists() {
					ref = item.Get("name")
				}
				if !ref.Exists() {
					ref = item.Get("send")
				}
				val := item.Get("level")
				if !val.Exists() {
					val = item.Get("value")
				}
				sends = append(sends, daw.SendUpdate{Target: refFromResult(ref), Level: mustParseParamValue(val)})
			default:
				sends = append(sends, daw.SendUpdate{Target: nil, Level: mustParseParamValue(item)})
			}
			return true
		})
	}
	return sends
}

// refFromResult turns a gjson.Result naming a parameter/send target into a
// daw-facing any: number -> int, everything else -> its string form.
func refFromResult(r gjson.Result) any {
	if !r.Exists() {
		return nil
	}
	if r.Type == gjson.Number {
		return int(r.Int())
	}
	return r.String()
}

// mustParseParamValue parses a value that's expected to be present;
// malformed/missing values degrade to a zero ParamValue rather than
// panicking — the daw package reports BadValue for anything it can't use.
func mustParseParamValue(r gjson.Result) daw.ParamValue {
	v, err := daw.ParseParamValue(r)
	if err != nil {
		return daw.ParamValue{}
	}
	return v
}

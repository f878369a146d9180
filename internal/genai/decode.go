package genai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
)

// wireInstruction mirrors the JSON object the model is asked to produce.
// Limit is raw because models variously emit 5, "5", or 5.0.
type wireInstruction struct {
	Keywords *string         `json:"keywords"`
	Limit    json.RawMessage `json:"limit"`
	Date     *string         `json:"date"`
}

// StripCodeFences removes a Markdown code fence wrapper (``` or ```json)
// from a model response, returning the trimmed inner text.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence ("json\n{...")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// DecodeInstruction parses a raw model response into a normalized
// Instruction. It is strict about types: a present field of the wrong type
// is a decode failure, never a partially-filled Instruction. Absent fields
// take defaults (empty keywords, limit 10, no date).
func DecodeInstruction(raw string) (Instruction, error) {
	payload := StripCodeFences(raw)

	var wire wireInstruction
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return Instruction{}, domerrors.NewExtractionError("decode", fmt.Errorf("response is not a JSON object: %w", err))
	}

	inst := Instruction{Limit: DefaultLimit}

	if wire.Keywords != nil {
		inst.Keywords = strings.ToLower(strings.TrimSpace(*wire.Keywords))
	}

	if len(wire.Limit) > 0 && string(wire.Limit) != "null" {
		limit, err := coerceLimit(wire.Limit)
		if err != nil {
			return Instruction{}, domerrors.NewExtractionError("decode", err)
		}
		if limit > 0 {
			inst.Limit = limit
		}
	}

	if wire.Date != nil {
		inst.Date = strings.TrimSpace(*wire.Date)
	}

	return inst, nil
}

// coerceLimit accepts an integer, a float with zero fraction, or a numeric
// string for the limit field.
func coerceLimit(raw json.RawMessage) (int, error) {
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return int(i), nil
		}
		if f, err := num.Float64(); err == nil && f == float64(int64(f)) {
			return int(f), nil
		}
		return 0, fmt.Errorf("limit %q is not an integer", num.String())
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("limit %q is not integer-like", s)
		}
		return i, nil
	}

	return 0, fmt.Errorf("limit has unsupported type: %s", string(raw))
}

// Fallback builds the deterministic instruction used when extraction fails:
// the raw message itself, lower-cased, with the default limit and no date.
func Fallback(rawText string) Instruction {
	return Instruction{
		Keywords: strings.ToLower(strings.TrimSpace(rawText)),
		Limit:    DefaultLimit,
	}
}

package genai

import (
	"errors"
	"testing"

	domerrors "github.com/clcdev/sermon-linebot-go/internal/errors"
)

func TestStripCodeFences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"keywords":"grace"}`, `{"keywords":"grace"}`},
		{"fenced", "```\n{\"keywords\":\"grace\"}\n```", `{"keywords":"grace"}`},
		{"fenced json tag", "```json\n{\"keywords\":\"grace\"}\n```", `{"keywords":"grace"}`},
		{"surrounding whitespace", "  ```json\n{}\n```  ", `{}`},
		{"single line fence", "```json{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeInstruction(t *testing.T) {
	t.Parallel()

	t.Run("full object", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{"keywords": "Grace, Faith", "limit": 5, "date": "2022"}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Keywords != "grace, faith" {
			t.Errorf("Keywords = %q, want lowercased %q", inst.Keywords, "grace, faith")
		}
		if inst.Limit != 5 {
			t.Errorf("Limit = %d, want 5", inst.Limit)
		}
		if inst.Date != "2022" {
			t.Errorf("Date = %q, want 2022", inst.Date)
		}
	})

	t.Run("absent fields take defaults", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Keywords != "" || inst.Limit != DefaultLimit || inst.Date != "" {
			t.Errorf("defaults = %+v, want empty keywords, limit %d, no date", inst, DefaultLimit)
		}
	})

	t.Run("null date", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{"keywords": "hope", "limit": 10, "date": null}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Date != "" {
			t.Errorf("Date = %q, want empty for null", inst.Date)
		}
	})

	t.Run("fenced response", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction("```json\n{\"keywords\": \"hope\", \"limit\": 3, \"date\": null}\n```")
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Keywords != "hope" || inst.Limit != 3 {
			t.Errorf("got %+v, want hope/3", inst)
		}
	})

	t.Run("limit as numeric string is coerced", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{"keywords": "hope", "limit": "7", "date": null}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Limit != 7 {
			t.Errorf("Limit = %d, want 7", inst.Limit)
		}
	})

	t.Run("limit as whole float is coerced", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{"keywords": "hope", "limit": 5.0, "date": null}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Limit != 5 {
			t.Errorf("Limit = %d, want 5", inst.Limit)
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		t.Parallel()
		inst, err := DecodeInstruction(`{"keywords": "hope", "limit": 0, "date": null}`)
		if err != nil {
			t.Fatalf("DecodeInstruction() error = %v", err)
		}
		if inst.Limit != DefaultLimit {
			t.Errorf("Limit = %d, want default %d", inst.Limit, DefaultLimit)
		}
	})

	t.Run("type violations are typed failures", func(t *testing.T) {
		t.Parallel()
		cases := []string{
			`not json at all`,
			`{"keywords": 42, "limit": 10, "date": null}`,
			`{"keywords": "x", "limit": "many", "date": null}`,
			`{"keywords": "x", "limit": 10, "date": 2022}`,
			`[1, 2, 3]`,
		}
		for _, raw := range cases {
			_, err := DecodeInstruction(raw)
			if err == nil {
				t.Errorf("DecodeInstruction(%q) error = nil, want decode failure", raw)
				continue
			}
			if !errors.Is(err, domerrors.ErrExtractionFailed) {
				t.Errorf("DecodeInstruction(%q) error = %v, want ErrExtractionFailed class", raw, err)
			}
		}
	})
}

func TestFallback(t *testing.T) {
	t.Parallel()
	inst := Fallback("  Sermons about GRACE  ")
	if inst.Keywords != "sermons about grace" {
		t.Errorf("Keywords = %q, want lowered trimmed raw text", inst.Keywords)
	}
	if inst.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", inst.Limit, DefaultLimit)
	}
	if inst.Date != "" {
		t.Errorf("Date = %q, want empty", inst.Date)
	}
}

package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "factlens/internal/platform/errors"
	"factlens/internal/platform/testkit"

	"github.com/google/go-cmp/cmp"
)

type verifyBody struct {
	Content    string `json:"content" validate:"required,min=2"`
	MaxWorkers int    `json:"max_workers,omitempty" validate:"omitempty,min=1,max=3"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/verify", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		body      string
		opts      []JSONOptions
		want      verifyBody
		wantCode  perr.ErrorCode
		wantField string
	}{
		{name: "ok", body: `{"content":"Factory X exploded yesterday","max_workers":2}`, want: verifyBody{Content: "Factory X exploded yesterday", MaxWorkers: 2}},
		{name: "empty body", body: ``, wantCode: perr.ErrorCodeJSON},
		{name: "malformed", body: `{"content":`, wantCode: perr.ErrorCodeJSON},
		{name: "unknown field rejected", body: `{"content":"ok","priority":"x"}`, wantCode: perr.ErrorCodeJSON},
		{name: "unknown field allowed", body: `{"content":"ok","priority":"x"}`, opts: []JSONOptions{{}}, want: verifyBody{Content: "ok"}},
		{name: "over size limit", body: `{"content":"Factory X exploded yesterday"}`, opts: []JSONOptions{{MaxBytes: 8}}, wantCode: perr.ErrorCodeJSON},
		{name: "missing content", body: `{"max_workers":1}`, wantCode: perr.ErrorCodeValidation, wantField: "content"},
		{name: "max workers too high", body: `{"content":"ok","max_workers":9}`, wantCode: perr.ErrorCodeValidation, wantField: "max_workers"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseJSON[verifyBody](post(tc.body), tc.opts...)
			if tc.wantCode == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if diff := cmp.Diff(tc.want, got); diff != "" {
					t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
				}
				return
			}
			e, ok := perr.As(err)
			if !ok || e.Code() != tc.wantCode || e.Field() != tc.wantField {
				t.Fatalf("err = %v, want code %v field %q", err, tc.wantCode, tc.wantField)
			}
		})
	}
}

func TestParseJSON_TrailingData(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	_, err := ParseJSON[verifyBody](post(`{"content":"ok"}`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("want JSON error for trailing data, got %v", err)
	}
}

func TestParseJSON_NonStructTarget(t *testing.T) {
	t.Parallel()
	_, err := ParseJSON[int](post(`5`))
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("want JSON error from the validator, got %v", err)
	}
}

func TestMessages(t *testing.T) {
	t.Parallel()
	type sample struct {
		Count   int      `json:"count,omitempty" validate:"max=5"`
		Secret  int      `json:"-" validate:"min=1"`
		Workers []string `validate:"dive,worker_name"`
	}
	cases := []struct {
		name      string
		in        sample
		wantField string
		wantMsg   string
	}{
		{"json tag trimmed", sample{Count: 6, Secret: 1}, "count", "count must be at most 5"},
		{"dash tag uses field name", sample{Secret: 0}, "Secret", "Secret must be at least 1"},
		{"worker name rule", sample{Secret: 1, Workers: []string{"fact_checker", "Fact Checker"}}, "Workers[1]", "Workers[1] must be a lower_snake worker name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			field, msg := ValidationFieldAndMessage(Get().Validator.Struct(tc.in))
			if field != tc.wantField || msg != tc.wantMsg {
				t.Fatalf("got (%q, %q), want (%q, %q)", field, msg, tc.wantField, tc.wantMsg)
			}
		})
	}

	if field, msg := ValidationFieldAndMessage(errors.New("boom")); field != "" || msg != "boom" {
		t.Fatalf("plain error passthrough: (%q, %q)", field, msg)
	}
}

func TestValidateAndVar(t *testing.T) {
	t.Parallel()
	type opts struct {
		Backend string `json:"backend" validate:"oneof=openai anthropic ollama"`
	}
	if err := Validate(opts{Backend: "ollama"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if e, ok := perr.As(Validate(opts{Backend: "fax"})); !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "backend" {
		t.Fatalf("want validation error on backend, got %v", e)
	}

	if err := Var("fact_checker", "worker_name", "name"); err != nil {
		t.Fatalf("valid worker name rejected: %v", err)
	}
	err := Var("Fact Checker", "worker_name", "name")
	e, ok := perr.As(err)
	if !ok || e.Field() != "name" || err.Error() == "" || !strings.HasPrefix(e.ToWire().Message, "name must be") {
		t.Fatalf("Var error = %v", err)
	}
}

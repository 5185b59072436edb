package core

import "testing"

func TestRedactSensitiveMapPreservesTraceabilityMetadata(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"trace_id":     "trace_1",
		"token_name":   "possession_universal",
		"operation_id": "op_1",
		"password":     "1234",
		"nested":       map[string]any{"token_digest": "abc", "trace_id": "trace_nested"},
		"events":       []any{map[string]any{"data": "A1*A100CZK"}, map[string]any{"endpoint": "x"}},
	})

	if redacted["trace_id"] != "trace_1" {
		t.Fatalf("expected trace_id to remain visible, got %#v", redacted["trace_id"])
	}
	if redacted["token_name"] != "possession_universal" {
		t.Fatalf("expected token_name to remain visible, got %#v", redacted["token_name"])
	}
	if redacted["operation_id"] != "op_1" {
		t.Fatalf("expected operation_id to remain visible, got %#v", redacted["operation_id"])
	}
	if redacted["password"] != RedactedValue {
		t.Fatalf("expected password to be redacted, got %#v", redacted["password"])
	}
	nested, ok := redacted["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested redacted map")
	}
	if nested["token_digest"] != RedactedValue {
		t.Fatalf("expected nested token_digest to be redacted, got %#v", nested["token_digest"])
	}
	if nested["trace_id"] != "trace_nested" {
		t.Fatalf("expected nested trace_id to remain visible, got %#v", nested["trace_id"])
	}
	events := redacted["events"].([]any)
	if events[0].(map[string]any)["data"] != RedactedValue {
		t.Fatalf("expected operation data to be redacted, got %#v", events[0])
	}
}

func TestRedactHeaders(t *testing.T) {
	redacted := RedactHeaders(map[string]string{
		"X-PowerAuth-Token": `PowerAuth token_id="1"`,
		"Authorization":     "Bearer x",
		"Accept-Language":   "cs",
		"User-Agent":        "go-mtoken",
	})
	if redacted["X-PowerAuth-Token"] != RedactedValue || redacted["Authorization"] != RedactedValue {
		t.Fatalf("expected credential headers to be redacted, got %#v", redacted)
	}
	if redacted["Accept-Language"] != "cs" || redacted["User-Agent"] != "go-mtoken" {
		t.Fatalf("expected plain headers to remain visible, got %#v", redacted)
	}
}

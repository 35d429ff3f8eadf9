package uuid

import (
	"encoding/json"
	"testing"
)

func TestScanValueRoundTrip(t *testing.T) {
	id := NewUUID()

	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	b, ok := v.([]byte)
	if !ok || len(b) != 16 {
		t.Fatalf("Value() = %#v; want 16 raw bytes", v)
	}

	var got UUID
	if err := got.Scan(b); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if got != id {
		t.Errorf("Scan() = %s; want %s", got, id)
	}
}

func TestScan_WrongType(t *testing.T) {
	var u UUID
	if err := u.Scan(42); err == nil {
		t.Fatal("expected error scanning an int")
	}
}

func TestJSONUsesCanonicalString(t *testing.T) {
	id := MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	raw, err := json.Marshal(struct {
		ID UUID `json:"id"`
	}{ID: id})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"id":"aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"}` {
		t.Errorf("json = %s", raw)
	}

	var back struct {
		ID UUID `json:"id"`
	}
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != id {
		t.Errorf("round trip = %s; want %s", back.ID, id)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid input")
	}
	id, err := Parse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.IsNil() {
		t.Error("parsed id should not be nil")
	}
}

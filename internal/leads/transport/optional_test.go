package transport

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestOptionalUUIDDistinguishesAbsentFromNull(t *testing.T) {
	var absent struct {
		AssigneeID OptionalUUID `json:"assigneeId"`
	}
	if err := json.Unmarshal([]byte(`{}`), &absent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if absent.AssigneeID.Set {
		t.Fatal("absent field must not be marked set")
	}

	var cleared struct {
		AssigneeID OptionalUUID `json:"assigneeId"`
	}
	if err := json.Unmarshal([]byte(`{"assigneeId": null}`), &cleared); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !cleared.AssigneeID.Set || cleared.AssigneeID.Value != nil {
		t.Fatalf("null must mark set with nil value: %+v", cleared.AssigneeID)
	}
}

func TestOptionalUUIDParsesValue(t *testing.T) {
	id := uuid.New()
	var req struct {
		AssigneeID OptionalUUID `json:"assigneeId"`
	}
	if err := json.Unmarshal([]byte(`{"assigneeId": "`+id.String()+`"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.AssigneeID.Set || req.AssigneeID.Value == nil || *req.AssigneeID.Value != id {
		t.Fatalf("value not parsed: %+v", req.AssigneeID)
	}
}

func TestOptionalUUIDRejectsGarbage(t *testing.T) {
	var req struct {
		AssigneeID OptionalUUID `json:"assigneeId"`
	}
	if err := json.Unmarshal([]byte(`{"assigneeId": "not-a-uuid"}`), &req); err == nil {
		t.Fatal("expected parse error")
	}
}

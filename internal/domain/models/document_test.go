package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDocument_AllSequencesEmpty(t *testing.T) {
	b, err := json.Marshal(NewDocument())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	if strings.Contains(got, "null") {
		t.Errorf("empty document contains null: %s", got)
	}
	for _, key := range []string{"users", "patients", "caretakers", "notifications", "locationHistory",
		"meds", "journals", "appointments", "webpushSubscriptions", "medHistory"} {
		if !strings.Contains(got, `"`+key+`":[]`) {
			t.Errorf("missing %q in %s", key, got)
		}
	}
}

func TestNormalize_KeepsExistingEntries(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`{"meds":[{"id":"m1","name":"Aspirin"}]}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.MedHistory != nil {
		t.Fatal("medHistory should be nil before Normalize")
	}
	d.Normalize()
	if d.MedHistory == nil {
		t.Error("medHistory still nil after Normalize")
	}
	if len(d.Meds) != 1 || d.Meds[0].ID != "m1" {
		t.Errorf("meds = %+v, want the one loaded entry", d.Meds)
	}
}

func TestFindUserByEmail(t *testing.T) {
	d := NewDocument()
	d.Users = append(d.Users, User{ID: "u1", Email: "Alice@Example.com "})

	if got := d.FindUserByEmail(NormalizeEmail(" ALICE@example.com")); got != 0 {
		t.Errorf("FindUserByEmail = %d, want 0", got)
	}
	if got := d.FindUserByEmail("bob@example.com"); got != -1 {
		t.Errorf("FindUserByEmail(unknown) = %d, want -1", got)
	}
}

func TestFindNotification(t *testing.T) {
	d := NewDocument()
	d.Notifications = append(d.Notifications, Notification{ID: "n1"}, Notification{ID: "n2"})

	if got := d.FindNotification("n2"); got != 1 {
		t.Errorf("FindNotification(n2) = %d, want 1", got)
	}
	if got := d.FindNotification("nope"); got != -1 {
		t.Errorf("FindNotification(nope) = %d, want -1", got)
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

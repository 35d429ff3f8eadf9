package model

import (
	"encoding/json"
	"testing"
)

func TestImageStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ImageStatus
		want     bool
	}{
		{ImageStatusActive, ImageStatusActive, true},
		{ImageStatusActive, ImageStatusDeleted, true},
		{ImageStatusActive, ImageStatusArchived, false},
		{ImageStatusDeleted, ImageStatusActive, false},
		{ImageStatusDeleted, ImageStatusDeleted, false},
		{ImageStatusArchived, ImageStatusActive, false},
		{ImageStatusActive, ImageStatus("bogus"), false},
	}
	for _, tc := range tests {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
				t.Errorf("CanTransitionTo() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestImageStatus_IsValid(t *testing.T) {
	for _, s := range []ImageStatus{ImageStatusActive, ImageStatusDeleted, ImageStatusArchived} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if ImageStatus("gone").IsValid() {
		t.Error(`"gone" should not be valid`)
	}
}

func TestImagePatch_Apply(t *testing.T) {
	alt := "new alt"
	dec := true
	status := ImageStatusDeleted
	img := &StoredImage{InsertedBy: "u1", Status: ImageStatusActive}

	ImagePatch{AltText: &alt, IsDecorative: &dec, Status: &status}.Apply(img)

	if img.AltText == nil || *img.AltText != alt {
		t.Errorf("AltText = %v; want %q", img.AltText, alt)
	}
	if !img.IsDecorative {
		t.Error("IsDecorative should be true")
	}
	if img.Status != ImageStatusDeleted {
		t.Errorf("Status = %q; want deleted", img.Status)
	}
	if img.Title != nil {
		t.Errorf("Title should stay nil, got %q", *img.Title)
	}
	if img.InsertedBy != "u1" {
		t.Errorf("InsertedBy changed to %q", img.InsertedBy)
	}
}

func TestImagePatch_IsEmpty(t *testing.T) {
	if !(ImagePatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	title := "x"
	if (ImagePatch{Title: &title}).IsEmpty() {
		t.Error("patch with title should not be empty")
	}
}

func TestTags_ScanAndValue(t *testing.T) {
	var tags Tags
	if err := tags.Scan([]byte(`["ocean","sky"]`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(tags) != 2 || tags[0] != "ocean" || tags[1] != "sky" {
		t.Errorf("Scan result = %v", tags)
	}

	if err := tags.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if tags == nil || len(tags) != 0 {
		t.Errorf("Scan(nil) = %#v; want empty non-nil", tags)
	}

	if err := tags.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}

	v, err := Tags(nil).Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if string(v.([]byte)) != "[]" {
		t.Errorf("Value(nil) = %s; want []", v)
	}
}

func TestStoredImage_JSONTagsNeverNull(t *testing.T) {
	b, err := json.Marshal(StoredImage{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["tags"].([]any); !ok {
		t.Errorf("tags = %#v; want JSON array", m["tags"])
	}
}

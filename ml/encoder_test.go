package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLabelEncoderTransform(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"Normal", "Obese", "Overweight", "Underweight"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, label := range enc.Classes {
		code, err := enc.Transform(label)
		if err != nil {
			t.Fatalf("Transform(%q): %v", label, err)
		}
		if code != i {
			t.Errorf("Transform(%q) = %d, want %d", label, code, i)
		}
		if got := enc.SafeTransform(label); got != code {
			t.Errorf("SafeTransform(%q) = %d, want %d", label, got, code)
		}
	}

	if _, err := enc.Transform("Morbid"); !errors.Is(err, ErrUnseenLabel) {
		t.Fatalf("expected ErrUnseenLabel, got %v", err)
	}
}

func TestLabelEncoderSafeTransformFallback(t *testing.T) {
	enc, err := NewLabelEncoder([]string{"40-60", "60-80", "80+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := enc.Transform(enc.Classes[0])
	for _, label := range []string{"<40", "", "unknown"} {
		if got := enc.SafeTransform(label); got != first {
			t.Errorf("SafeTransform(%q) = %d, want first class code %d", label, got, first)
		}
	}
}

func TestNewLabelEncoderRejectsEmpty(t *testing.T) {
	if _, err := NewLabelEncoder(nil); err == nil {
		t.Fatal("expected error for encoder without classes")
	}
}

func TestLoadLabelEncoder(t *testing.T) {
	enc, err := LoadLabelEncoder(filepath.Join("testdata", "age_group_encoder.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code, err := enc.Transform(AgeUnder40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 3 {
		t.Fatalf("expected <40 to encode as 3, got %d", code)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"classes": []}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadLabelEncoder(bad); err == nil {
		t.Fatal("expected error for empty class list")
	}
}

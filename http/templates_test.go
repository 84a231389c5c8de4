package http

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func renderString(t *testing.T, templates *Templates) string {
	t.Helper()
	var b strings.Builder
	if err := templates.Render(&b, "index.html", pageData{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return b.String()
}

func TestTemplatesEmbedded(t *testing.T) {
	templates, err := NewTemplates("", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(renderString(t, templates), "Cancer Risk Prediction") {
		t.Fatal("expected embedded index page")
	}
	if err := templates.Watch(context.Background()); err != nil {
		t.Fatalf("watching embedded templates should be a no-op: %v", err)
	}
	if err := templates.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTemplatesReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(`<p>first</p>`), 0o600); err != nil {
		t.Fatal(err)
	}

	templates, err := NewTemplates(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := templates.Watch(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer templates.Close()

	if err := os.WriteFile(path, []byte(`<p>second</p>`), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		// The write may be observed mid-way, so render errors are retried.
		var b strings.Builder
		if err := templates.Render(&b, "index.html", pageData{}); err == nil && strings.Contains(b.String(), "second") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("template change was not picked up")
}

func TestTemplatesKeepPreviousSetOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(`<p>good</p>`), 0o600); err != nil {
		t.Fatal(err)
	}
	templates, err := NewTemplates(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte(`<p>{{.Broken</p>`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := templates.reload(); err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(renderString(t, templates), "good") {
		t.Fatal("expected previous templates to be kept")
	}
}

func TestNewTemplatesMissingDir(t *testing.T) {
	if _, err := NewTemplates(filepath.Join(t.TempDir(), "missing"), zap.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}

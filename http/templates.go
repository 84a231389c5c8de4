package http

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Templates holds the parsed page templates. With a directory set, the
// templates come from disk and Watch re-parses them on change.
type Templates struct {
	mu     sync.RWMutex
	set    *template.Template
	dir    string
	logger *zap.Logger

	watcher *fsnotify.Watcher
	doneCh  chan struct{}
}

func NewTemplates(dir string, logger *zap.Logger) (*Templates, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Templates{dir: dir, logger: logger}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Templates) source() (fs.FS, string) {
	if t.dir == "" {
		return embeddedTemplates, "templates/*.html"
	}
	return os.DirFS(t.dir), "*.html"
}

// reload parses the templates and swaps them in. On error the current set
// is kept.
func (t *Templates) reload() error {
	fsys, pattern := t.source()
	set, err := template.ParseFS(fsys, pattern)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

// Render executes name into w. Output is buffered so a failing template
// never writes a partial page.
func (t *Templates) Render(w io.Writer, name string, data interface{}) error {
	t.mu.RLock()
	set := t.set
	t.mu.RUnlock()

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Watch starts re-parsing on file changes. It is a no-op for embedded
// templates.
func (t *Templates) Watch(ctx context.Context) error {
	if t.dir == "" {
		return nil
	}
	if t.watcher != nil {
		return errors.New("templates already watched")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(t.dir); err != nil {
		watcher.Close()
		return err
	}
	t.watcher = watcher
	t.doneCh = make(chan struct{})
	t.logger.Info("Watching templates", zap.String("dir", t.dir))

	go t.run(ctx)
	return nil
}

func (t *Templates) run(ctx context.Context) {
	defer close(t.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if err := t.reload(); err != nil {
				t.logger.Warn("Template reload failed, keeping previous templates",
					zap.String("file", filepath.Base(event.Name)), zap.Error(err))
				continue
			}
			t.logger.Debug("Templates reloaded", zap.String("file", filepath.Base(event.Name)))
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Error("Template watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher, if any.
func (t *Templates) Close() error {
	if t.watcher == nil {
		return nil
	}
	err := t.watcher.Close()
	<-t.doneCh
	t.watcher = nil
	return err
}

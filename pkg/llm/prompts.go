package llm

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/fsnotify/fsnotify"
)

const (
	PromptThreatModel      = "threat_model"
	PromptVendorAssessment = "vendor_assessment"

	promptExt      = ".tmpl"
	systemTemplate = "system"
)

//go:embed prompts/*.tmpl
var defaultPrompts embed.FS

// Prompts holds the parsed prompt templates. Files in an override directory
// replace the embedded template of the same name.
type Prompts struct {
	mu        sync.RWMutex
	dir       string
	templates map[string]*template.Template
}

// LoadPrompts parses the embedded prompts and, when dir is not empty, the
// overrides found there.
func LoadPrompts(dir string) (*Prompts, error) {
	p := &Prompts{dir: dir}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads every template. On error the previous set stays active.
func (p *Prompts) Reload() error {
	templates := make(map[string]*template.Template)

	if err := loadTemplates(defaultPrompts, "prompts", templates); err != nil {
		return err
	}
	if p.dir != "" {
		if err := loadTemplates(os.DirFS(p.dir), ".", templates); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.templates = templates
	p.mu.Unlock()
	return nil
}

func loadTemplates(fsys fs.FS, root string, into map[string]*template.Template) error {
	matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(root, "*"+promptExt)))
	if err != nil {
		return err
	}
	for _, path := range matches {
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read prompt %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), promptExt)
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return fmt.Errorf("failed to parse prompt %s: %w", path, err)
		}
		into[name] = tmpl
	}
	return nil
}

// Names lists the loaded prompts.
func (p *Prompts) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.templates))
	for name := range p.templates {
		names = append(names, name)
	}
	return names
}

// Render executes the named prompt. A template may define a "system" block,
// which becomes the system prompt.
func (p *Prompts) Render(name string, data any) (Request, error) {
	p.mu.RLock()
	tmpl, ok := p.templates[name]
	p.mu.RUnlock()
	if !ok {
		return Request{}, fmt.Errorf("unknown prompt %q", name)
	}

	var req Request
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Request{}, fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	req.Prompt = strings.TrimSpace(buf.String())

	if sys := tmpl.Lookup(systemTemplate); sys != nil {
		buf.Reset()
		if err := sys.Execute(&buf, data); err != nil {
			return Request{}, fmt.Errorf("failed to render system prompt %s: %w", name, err)
		}
		req.System = strings.TrimSpace(buf.String())
	}
	return req, nil
}

// Watch reloads the prompts whenever a template in the override directory
// changes, until ctx is done.
func (p *Prompts) Watch(ctx context.Context) error {
	if p.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(p.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", p.dir, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != promptExt || event.Op == fsnotify.Chmod {
					continue
				}
				if err := p.Reload(); err != nil {
					log.Printf("Prompt reload failed, keeping previous prompts: %v", err)
				} else {
					log.Printf("Prompts reloaded after change to %s", filepath.Base(event.Name))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Prompt watcher error: %v", err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates
var templateFS embed.FS

const commonDir = "common"

//nolint:gochecknoglobals // parsed once on first use
var loadTemplates = sync.OnceValues(func() (map[PromptID]*template.Template, error) {
	return parseAll(templateFS)
})

var funcs = template.FuncMap{ //nolint:gochecknoglobals // read-only
	"join": strings.Join,
	"bullets": func(items []string) string {
		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = "- " + item
		}
		return strings.Join(lines, "\n")
	},
}

// parseAll builds one template per file outside templates/common. Every
// prompt can include the shared fragments as {{template "common/<name>"}}.
func parseAll(fsys fs.FS) (map[PromptID]*template.Template, error) {
	base := template.New("").Funcs(funcs)
	shared, err := fs.Glob(fsys, "templates/"+commonDir+"/*.tmpl")
	if err != nil {
		return nil, err
	}
	for _, p := range shared {
		src, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return nil, readErr
		}
		if _, err := base.New(promptIDFromPath(p).String()).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
	}

	out := make(map[PromptID]*template.Template)
	err = fs.WalkDir(fsys, "templates", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(p) != ".tmpl" || path.Base(path.Dir(p)) == commonDir {
			return nil
		}
		src, readErr := fs.ReadFile(fsys, p)
		if readErr != nil {
			return readErr
		}
		id := promptIDFromPath(p)
		t, cloneErr := base.Clone()
		if cloneErr != nil {
			return cloneErr
		}
		if _, parseErr := t.New(id.String()).Parse(string(src)); parseErr != nil {
			return fmt.Errorf("parsing %s: %w", p, parseErr)
		}
		out[id] = t
		return nil
	})
	return out, err
}

// promptIDFromPath maps templates/writer/blog_post.tmpl to writer/blog_post.
func promptIDFromPath(p string) PromptID {
	return PromptID(strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".tmpl"))
}

func lookup(id PromptID) (*template.Template, error) {
	all, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("loading embedded prompts: %w", err)
	}
	t, ok := all[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return t, nil
}

package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed views/*.html
var viewsFS embed.FS

// LoadTemplates parses the embedded page templates. Pages are addressed by
// file name, e.g. "login.html".
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{"dict": dict}).ParseFS(viewsFS, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// dict builds a map from alternating keys and values
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict needs an even number of arguments, got %d", len(pairs))
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

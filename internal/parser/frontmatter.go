package parser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// frontmatter parses a leading YAML block and returns the offset where the
// document body starts. Sources without a block start at 0.
func (p *flowParser) frontmatter() (int, error) {
	raw, bodyStart, ok := SplitFrontmatter(p.src)
	if !ok {
		return 0, nil
	}
	if bodyStart < 0 {
		return 0, p.errorSpan(0, len("---"), "unclosed-frontmatter",
			"Unexpected end of file in frontmatter, expected a closing `---` fence")
	}

	data, err := decodeFrontmatter(raw)
	if err != nil {
		return 0, p.errorSpan(0, bodyStart, "invalid-frontmatter", "Could not parse frontmatter: %s", err)
	}

	p.doc.Frontmatter = data
	return bodyStart, nil
}

func decodeFrontmatter(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return normalizeYAML(v).(map[string]any), nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", value)
	}
}

// normalizeYAML converts maps with non-string keys so the value can be
// encoded as JSON.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	default:
		return v
	}
}

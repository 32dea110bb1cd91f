package core

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter is the split result of a Markdown file: the parsed YAML header
// and the raw body text.
type frontmatter struct {
	Fields map[string]any
	Body   string
}

// splitFrontmatter splits a Markdown document on the --- delimiter
// convention and parses the header as a generic YAML mapping. The source
// parameter is used only for error messages.
//
// A document without any frontmatter block is an error; a document whose
// body is empty (frontmatter-only) is valid.
func splitFrontmatter(raw []byte, source string) (*frontmatter, error) {
	content := string(raw)

	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "---") {
		return nil, fmt.Errorf("no frontmatter in %s", source)
	}

	start := strings.Index(content, "---")
	rest := content[start+3:]

	// Skip the newline after the opening delimiter.
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	} else if len(rest) > 1 && rest[0] == '\r' && rest[1] == '\n' {
		rest = rest[2:]
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("no closing frontmatter delimiter in %s", source)
	}
	fmContent := rest[:end]
	body := rest[end+4:]

	if len(body) > 0 && body[0] == '\n' {
		body = body[1:]
	} else if len(body) > 1 && body[0] == '\r' && body[1] == '\n' {
		body = body[2:]
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(fmContent), &fields); err != nil {
		return nil, fmt.Errorf("parsing frontmatter in %s: %w", source, err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}

	return &frontmatter{Fields: fields, Body: body}, nil
}

// str pops a string field from the frontmatter map.
func (f *frontmatter) str(key string) string {
	v, ok := f.Fields[key]
	if !ok {
		return ""
	}
	delete(f.Fields, key)
	s, _ := v.(string)
	return s
}

// boolean pops a bool field from the frontmatter map.
func (f *frontmatter) boolean(key string) bool {
	v, ok := f.Fields[key]
	if !ok {
		return false
	}
	delete(f.Fields, key)
	b, _ := v.(bool)
	return b
}

// list pops a string-list field. Claude frontmatter writes tool lists either
// as a YAML sequence or as a comma-separated scalar; both are accepted.
func (f *frontmatter) list(key string) []string {
	v, ok := f.Fields[key]
	if !ok {
		return nil
	}
	delete(f.Fields, key)

	switch vv := v.(type) {
	case string:
		if strings.TrimSpace(vv) == "" {
			return nil
		}
		parts := strings.Split(vv, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		return result
	case []any:
		result := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

// extra returns the leftover fields, or nil if none remain.
func (f *frontmatter) extra() map[string]any {
	if len(f.Fields) == 0 {
		return nil
	}
	return f.Fields
}

// RenderMarkdown assembles a target file from frontmatter fields and a body:
// ---\n<yaml>\n---\n\n<body>. Field order is deterministic (see
// MarshalOrderedYAML) so repeated emission is byte-identical.
func RenderMarkdown(fields map[string]any, body string) ([]byte, error) {
	yamlBytes, err := MarshalOrderedYAML(fields)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// MarshalOrderedYAML serializes a map to YAML with a defined field order:
// name, description, mode, model, agent, tools, then all other fields
// alphabetically.
func MarshalOrderedYAML(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}

	priority := []string{"name", "description", "mode", "model", "agent", "tools"}

	prioritySet := make(map[string]bool)
	for _, k := range priority {
		prioritySet[k] = true
	}

	var rest []string
	for k := range m {
		if !prioritySet[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	var ordered []string
	for _, k := range priority {
		if _, ok := m[k]; ok {
			ordered = append(ordered, k)
		}
	}
	ordered = append(ordered, rest...)

	// Build a yaml.Node to control key order.
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, key := range ordered {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: key,
		}

		valNode, err := encodeValue(m[key])
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", key, err)
		}

		doc.Content = append(doc.Content, keyNode, valNode)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// encodeValue converts a Go value to a yaml.Node for ordered output.
func encodeValue(v any) (*yaml.Node, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	// Unmarshal wraps in a document node; return the actual content node.
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0], nil
	}
	return &node, nil
}

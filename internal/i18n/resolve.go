// Package i18n resolves dotted translation keys against per-locale message trees.
// Locale trees are YAML files embedded at compile time.
package i18n

import (
	"fmt"
	"regexp"
	"strings"
)

// Tree is a nested message table. Inner nodes are map[string]any, leaves are strings.
type Tree map[string]any

// Replacements maps placeholder names to values; values are formatted with fmt.Sprint.
type Replacements map[string]any

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Lookup walks key segment by segment and reports the string leaf it reaches.
func Lookup(tree Tree, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	var node any = map[string]any(tree)
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(node)
		if !ok {
			return "", false
		}
		node, ok = m[part]
		if !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}

// Resolve returns the message at key with placeholders replaced. When key does
// not lead to a string, the key itself is returned.
func Resolve(tree Tree, key string, repl Replacements) string {
	msg, ok := Lookup(tree, key)
	if !ok {
		return key
	}
	return Format(msg, repl)
}

// Format replaces every {name} token with repl[name]. Tokens without a value stay verbatim.
func Format(template string, repl Replacements) string {
	if len(repl) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := repl[name]
		if !ok || v == nil {
			return match
		}
		return fmt.Sprint(v)
	})
}

// Keys lists every leaf path of tree.
func Keys(tree Tree) []string {
	var out []string
	collectKeys(map[string]any(tree), "", &out)
	return out
}

func collectKeys(node map[string]any, prefix string, out *[]string) {
	for k, v := range node {
		path := prefix + k
		if m, ok := asMap(v); ok {
			collectKeys(m, path+".", out)
			continue
		}
		if _, ok := v.(string); ok {
			*out = append(*out, path)
		}
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Tree:
		return m, true
	default:
		return nil, false
	}
}

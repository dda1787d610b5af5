package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// Locale identifies one of the supported UI languages.
type Locale string

// Supported locales
const (
	Italian  Locale = "it"
	English  Locale = "en"
	Albanian Locale = "sq"
)

// DefaultLocale is used when nothing else selects a locale. It is also the
// reference tree every other locale is checked against.
const DefaultLocale = Italian

// Locales lists the supported locales in menu order.
var Locales = []Locale{Italian, English, Albanian}

// Tags holds the BCP 47 tags used when formatting values for a locale.
type Tags struct {
	Number   string
	Date     string
	Relative string
}

var localeTags = map[Locale]Tags{
	Italian:  {Number: "it-IT", Date: "it-IT", Relative: "it"},
	English:  {Number: "en-US", Date: "en-US", Relative: "en"},
	Albanian: {Number: "sq-AL", Date: "sq-AL", Relative: "sq"},
}

// TagsFor returns the formatting tags of l, falling back to the default locale.
func TagsFor(l Locale) Tags {
	if t, ok := localeTags[l]; ok {
		return t
	}
	return localeTags[DefaultLocale]
}

// ParseLocale accepts a supported locale code, case-insensitively.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Locales {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported locale %q (want one of it, en, sq)", s)
}

// Catalog holds one message tree per locale.
type Catalog struct {
	trees map[Locale]Tree
}

// NewCatalog builds a catalog from in-memory trees.
func NewCatalog(trees map[Locale]Tree) *Catalog {
	c := &Catalog{trees: make(map[Locale]Tree, len(trees))}
	for l, t := range trees {
		c.trees[l] = t
	}
	return c
}

var (
	embedded     *Catalog
	embeddedErr  error
	embeddedOnce sync.Once
)

// LoadCatalog parses the embedded locale files. The result is cached.
func LoadCatalog() (*Catalog, error) {
	embeddedOnce.Do(func() {
		trees := make(map[Locale]Tree, len(Locales))
		for _, l := range Locales {
			name := "locales/" + string(l) + ".yaml"
			data, err := localeFiles.ReadFile(name)
			if err != nil {
				embeddedErr = fmt.Errorf("failed to read locale file %s: %w", name, err)
				return
			}
			var tree Tree
			if err := yaml.Unmarshal(data, &tree); err != nil {
				embeddedErr = fmt.Errorf("failed to parse locale file %s: %w", name, err)
				return
			}
			trees[l] = tree
		}
		embedded = NewCatalog(trees)
	})
	return embedded, embeddedErr
}

// MustLoadCatalog is LoadCatalog that panics on error. The embedded files are
// part of the binary, so a failure here is a build defect.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(fmt.Sprintf("failed to load locales: %v", err))
	}
	return c
}

// Tree returns the message tree of l, or nil when the locale is unknown.
func (c *Catalog) Tree(l Locale) Tree {
	return c.trees[l]
}

// Resolve resolves key in the tree of l.
func (c *Catalog) Resolve(l Locale, key string, repl Replacements) string {
	return Resolve(c.trees[l], key, repl)
}

// MissingKeys reports, per locale, the sorted keys of the reference locale that
// the locale cannot resolve. Locales with nothing missing are omitted.
func (c *Catalog) MissingKeys() map[Locale][]string {
	ref := Keys(c.trees[DefaultLocale])
	out := make(map[Locale][]string)
	for l, tree := range c.trees {
		if l == DefaultLocale {
			continue
		}
		var missing []string
		for _, k := range ref {
			if _, ok := Lookup(tree, k); !ok {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			out[l] = missing
		}
	}
	return out
}

// Translator resolves keys for one locale.
type Translator struct {
	catalog *Catalog
	locale  Locale
}

// NewTranslator returns a translator for l.
func NewTranslator(c *Catalog, l Locale) *Translator {
	return &Translator{catalog: c, locale: l}
}

// Locale returns the translator's locale.
func (t *Translator) Locale() Locale {
	return t.locale
}

// T resolves key. A nil translator returns the key unchanged.
func (t *Translator) T(key string, repl Replacements) string {
	if t == nil || t.catalog == nil {
		return key
	}
	return t.catalog.Resolve(t.locale, key, repl)
}

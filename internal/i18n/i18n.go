// Package i18n loads the localized string tables the engines render messages from.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every lookup falls back to
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Locale   string              `yaml:"locale"`
	Messages map[string][]string `yaml:"messages"`
}

// Bundle holds every loaded locale
type Bundle struct {
	tags    []language.Tag
	locales map[language.Tag]map[string][]string
	matcher language.Matcher
}

// LoadEmbedded loads the locale tables shipped with the binary
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedLocales)
}

// MustLoadEmbedded is LoadEmbedded for package-level defaults and tests
func MustLoadEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFromFS loads locales/<tag>/*.yaml from the provided filesystem
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[language.Tag]map[string][]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		dir := path.Base(path.Dir(p))
		if strings.TrimSpace(file.Locale) != dir {
			return nil, fmt.Errorf("locale %s: locale %q must match directory %q", p, file.Locale, dir)
		}
		tag, err := language.Parse(dir)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", dir, err)
		}
		messages, ok := b.locales[tag]
		if !ok {
			messages = map[string][]string{}
			b.locales[tag] = messages
			b.tags = append(b.tags, tag)
		}
		for key, pool := range file.Messages {
			if _, exists := messages[key]; exists {
				return nil, fmt.Errorf("locale %s: duplicate key %q", p, key)
			}
			messages[key] = pool
		}
	}

	base := language.MustParse(BaseLocale)
	if _, ok := b.locales[base]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	// the base locale goes first so the matcher falls back to it
	sort.SliceStable(b.tags, func(i, j int) bool { return b.tags[i] == base && b.tags[j] != base })
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Localizer returns the best match for an Accept-Language style preference list
func (b *Bundle) Localizer(accept ...string) *Localizer {
	base := b.locales[language.MustParse(BaseLocale)]
	tag := language.MustParse(BaseLocale)
	if len(accept) > 0 {
		desired, _, err := language.ParseAcceptLanguage(strings.Join(accept, ","))
		if err == nil && len(desired) > 0 {
			_, index, _ := b.matcher.Match(desired...)
			tag = b.tags[index]
		}
	}
	return &Localizer{tag: tag, messages: b.locales[tag], base: base}
}

// Localizer resolves message ids for one locale
type Localizer struct {
	tag      language.Tag
	messages map[string][]string
	base     map[string][]string
}

// Tag returns the resolved locale
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Pool returns every variant of a message, falling back to the base locale and then the id
func (l *Localizer) Pool(id string) []string {
	if pool := l.messages[id]; len(pool) > 0 {
		return pool
	}
	if pool := l.base[id]; len(pool) > 0 {
		return pool
	}
	return []string{id}
}

// Text returns the first variant of a message
func (l *Localizer) Text(id string) string {
	return l.Pool(id)[0]
}

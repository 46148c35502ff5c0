package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arnavshah/w2w/pkg/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

var tags = map[models.LanguageTag]language.Tag{
	models.English: language.English,
	models.Spanish: language.Spanish,
}

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the static translation tables for every supported language
type Catalog struct {
	tables  map[models.LanguageTag]map[string]string
	builder *catalog.Builder
}

var defaultCatalog = mustLoadEmbedded()

// Default returns the catalog built from the embedded locale files
func Default() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	c, err := Load(localesFS)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads locales/*.yaml from fsys and registers every message
func Load(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{
		tables:  make(map[models.LanguageTag]map[string]string, len(tags)),
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := c.tables[models.DefaultLanguage]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", models.DefaultLanguage)
	}
	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); locale != want {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, want)
	}
	lang, err := models.ParseLanguageTag(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	table := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if err := c.builder.SetString(tags[lang], key, value); err != nil {
			return fmt.Errorf("catalog %s: register %q: %w", p, key, err)
		}
		table[key] = value
	}
	c.tables[lang] = table
	return nil
}

// Printer returns a message printer for lang, defaulting to English
func (c *Catalog) Printer(lang models.LanguageTag) *message.Printer {
	tag, ok := tags[lang]
	if !ok {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(c.builder))
}

// Translate looks up key for lang. Missing keys render as the key itself.
func (c *Catalog) Translate(lang models.LanguageTag, key string) string {
	return c.Printer(lang).Sprintf(message.Key(key, key))
}

// Translator binds Translate to one language
func (c *Catalog) Translator(lang models.LanguageTag) func(key string) string {
	p := c.Printer(lang)
	return func(key string) string {
		return p.Sprintf(message.Key(key, key))
	}
}

// Table returns a copy of the messages for lang
func (c *Catalog) Table(lang models.LanguageTag) map[string]string {
	src := c.tables[lang]
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Tables returns copies of every language table
func (c *Catalog) Tables() map[models.LanguageTag]map[string]string {
	out := make(map[models.LanguageTag]map[string]string, len(c.tables))
	for lang := range c.tables {
		out[lang] = c.Table(lang)
	}
	return out
}

// ShiftKey returns the translation key for a shift label
func ShiftKey(kind models.ShiftKind) string {
	return "agents." + string(kind)
}

// DayKey returns the translation key for a weekday name
func DayKey(day models.Weekday) string {
	return "days." + day.Key()
}

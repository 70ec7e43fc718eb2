// Package i18n holds the localized validation message catalog.
//
// Templates are keyed "<field>.<rule>" with fallback to "<rule>". Attribute
// display names live under "attributes.<field>". Placeholders are written
// ":name" and replaced by Render.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Messages maps a key to its template for one locale.
type Messages map[string]string

// Catalog resolves message templates for the supported locales.
type Catalog struct {
	fallback language.Tag
	tags     []language.Tag
	messages map[language.Tag]Messages
	matcher  language.Matcher
}

// New builds a catalog. The fallback locale must be present in locales.
func New(fallback language.Tag, locales map[language.Tag]Messages) (*Catalog, error) {
	if _, ok := locales[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s has no messages", fallback)
	}
	tags := []language.Tag{fallback}
	rest := make([]language.Tag, 0, len(locales))
	for tag := range locales {
		if tag != fallback {
			rest = append(rest, tag)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })
	tags = append(tags, rest...)

	return &Catalog{
		fallback: fallback,
		tags:     tags,
		messages: locales,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// Default returns the catalog shipped with the service: English and Spanish.
// An empty or unsupported fallback code yields English.
func Default(fallbackCode string) *Catalog {
	fallback := language.English
	if fallbackCode != "" {
		if tag, err := language.Parse(fallbackCode); err == nil {
			base, _ := tag.Base()
			for _, t := range []language.Tag{language.English, language.Spanish} {
				if b, _ := t.Base(); b == base {
					fallback = t
				}
			}
		}
	}
	c, _ := New(fallback, map[language.Tag]Messages{
		language.English: english,
		language.Spanish: spanish,
	})
	return c
}

// Supported reports whether code parses to a locale the catalog carries.
func (c *Catalog) Supported(code string) bool {
	tag, err := language.Parse(code)
	if err != nil {
		return false
	}
	_, _, conf := c.matcher.Match(tag)
	return conf != language.No
}

// Negotiate picks the best locale for an Accept-Language header value.
func (c *Catalog) Negotiate(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return c.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return c.fallback
	}
	_, idx, conf := c.matcher.Match(prefs...)
	if conf == language.No {
		return c.fallback
	}
	return c.tags[idx]
}

func (c *Catalog) lookup(tag language.Tag, key string) (string, bool) {
	if msgs, ok := c.messages[tag]; ok {
		if m, ok := msgs[key]; ok {
			return m, true
		}
	}
	if tag != c.fallback {
		if m, ok := c.messages[c.fallback][key]; ok {
			return m, true
		}
	}
	return "", false
}

// Attribute returns the display name of field, defaulting to the field name
// with underscores replaced by spaces.
func (c *Catalog) Attribute(tag language.Tag, field string) string {
	if name, ok := c.lookup(tag, "attributes."+field); ok {
		return name
	}
	return strings.ReplaceAll(field, "_", " ")
}

// Message renders the message for a failed rule on field. params supplies the
// placeholder values; :attribute is filled in from the catalog, and :other is
// translated when it names another field.
func (c *Catalog) Message(tag language.Tag, field, rule string, params map[string]string) string {
	tmpl, ok := c.lookup(tag, field+"."+rule)
	if !ok {
		tmpl, ok = c.lookup(tag, rule)
	}
	if !ok {
		tmpl = "The :attribute field is invalid."
	}
	values := make(map[string]string, len(params)+1)
	for k, v := range params {
		values[k] = v
	}
	values["attribute"] = c.Attribute(tag, field)
	if other, ok := values["other"]; ok {
		values["other"] = c.Attribute(tag, other)
	}
	return Render(tmpl, values)
}

// Render replaces ":name" placeholders in tmpl. Longer names are replaced
// first so ":max_digits" is not clobbered by ":max".
func Render(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, ":"+k, params[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

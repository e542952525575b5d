// Package lexicon loads the zodiac themes, verse templates, and
// contextual word lists the Poetic Composer draws from. Data is
// embedded at build time and parsed once in init(), matching
// internal/supercollider/dx7_patches.go's embed-and-panic-on-corrupt
// pattern from the teacher repo this engine grew out of.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/zodiac.json
var zodiacData []byte

//go:embed data/templates.json
var templateData []byte

//go:embed data/contextual.json
var contextualData []byte

// Theme is an immutable zodiac lexicon entry (spec.md §3 ZodiacTheme).
type Theme struct {
	Sign            string   `json:"sign"`
	Element         string   `json:"element"`
	Quality         string   `json:"quality"`
	CoreConcept     string   `json:"coreConcept"`
	Adjectives      []string `json:"adjectives"`
	Verbs           []string `json:"verbs"`
	Nouns           []string `json:"nouns"`
	FibonacciWeight int      `json:"fibonacciWeight"`
}

// Template is a verse template with placeholder substitution support,
// tagged as belonging to the chaotic or epic subset (spec.md §3/§4.5).
type Template struct {
	Text    string `json:"text"`
	Chaotic bool   `json:"chaotic"`
}

// WordSet is a context-triggered supplementary word list (spec.md §4.5
// step 3): emotion/nature lexicons layered on top of the primary theme.
type WordSet struct {
	Adjectives []string `json:"adjectives"`
	Verbs      []string `json:"verbs"`
	Nouns      []string `json:"nouns"`
}

var (
	themes           []Theme
	themeBySign      map[string]Theme
	templates        []Template
	chaoticTemplates []int
	epicTemplates    []int
	contextual       map[string]WordSet
)

func init() {
	if err := json.Unmarshal(zodiacData, &themes); err != nil {
		panic(fmt.Sprintf("lexicon: failed to load zodiac themes: %v", err))
	}
	themeBySign = make(map[string]Theme, len(themes))
	for _, th := range themes {
		themeBySign[strings.ToLower(th.Sign)] = th
	}

	if err := json.Unmarshal(templateData, &templates); err != nil {
		panic(fmt.Sprintf("lexicon: failed to load verse templates: %v", err))
	}
	for i, tpl := range templates {
		if tpl.Chaotic {
			chaoticTemplates = append(chaoticTemplates, i)
		} else {
			epicTemplates = append(epicTemplates, i)
		}
	}

	if err := json.Unmarshal(contextualData, &contextual); err != nil {
		panic(fmt.Sprintf("lexicon: failed to load contextual lexicons: %v", err))
	}
}

// ZodiacSignNames is the fixed 12-entry ordering the spec requires
// (aries … pisces), used to map a zodiac index to a theme.
var ZodiacSignNames = []string{
	"aries", "taurus", "gemini", "cancer", "leo", "virgo",
	"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
}

// ThemeByIndex returns the theme at the fixed zodiac index (mod 12),
// falling back to the default element (fire, Aries) on any inconsistency
// per spec.md §7 — the engine never panics on bad lexicon content at
// runtime, only at init() on corrupt embedded data.
func ThemeByIndex(index int) Theme {
	name := ZodiacSignNames[((index%12)+12)%12]
	th, ok := themeBySign[name]
	if !ok {
		return defaultTheme()
	}
	return th
}

// ThemeBySign looks up a theme by sign name, case-insensitively.
func ThemeBySign(sign string) (Theme, bool) {
	th, ok := themeBySign[strings.ToLower(sign)]
	return th, ok
}

func defaultTheme() Theme {
	return Theme{
		Sign:        "Aries",
		Element:     "fire",
		Quality:     "cardinal",
		CoreConcept: "ignition",
		Adjectives:  []string{"bold"},
		Verbs:       []string{"ignite"},
		Nouns:       []string{"spark"},
	}
}

// AllTemplates returns every loaded template.
func AllTemplates() []Template { return templates }

// ChaoticTemplateIndices returns the indices of the chaotic template
// subset.
func ChaoticTemplateIndices() []int { return chaoticTemplates }

// EpicTemplateIndices returns the indices of the epic template subset.
func EpicTemplateIndices() []int { return epicTemplates }

// Contextual looks up a supplementary lexicon by its predicate id
// (agony, chaos, serenity, ecstasy, ocean, river, forest). The zero
// value (empty WordSet) is returned, with ok=false, if unknown.
func Contextual(id string) (WordSet, bool) {
	ws, ok := contextual[id]
	return ws, ok
}

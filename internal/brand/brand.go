// Package brand resolves raw scraped brand strings to canonical brand names
// and their manufacturer group. Identification strategies dispatch on the
// manufacturer group, so getting this mapping right is what makes listings
// from different sites land on the same board.
package brand

import (
	"strings"
	"sync"
)

// Manufacturer selects the identification strategy for a brand.
type Manufacturer string

const (
	ManufacturerBurton  Manufacturer = "burton"
	ManufacturerMervin  Manufacturer = "mervin"
	ManufacturerDefault Manufacturer = "default"
)

// zeroWidth lists code points that sites embed invisibly in product names.
// They must never influence identity.
var zeroWidth = []rune{'\u200B', '\u200C', '\u200D', '\uFEFF', '\u00AD'}

// StripZeroWidth removes invisible code points from s.
func StripZeroWidth(s string) string {
	return strings.Map(func(r rune) rune {
		for _, z := range zeroWidth {
			if r == z {
				return -1
			}
		}
		return r
	}, s)
}

// brandSuffixes are stripped from the end of a raw brand, longest first,
// repeatedly until stable ("Burton Snowboards Co." loses "Co." then
// "Snowboards").
var brandSuffixes = []string{
	"snowboard co.",
	"snowboard co",
	"snowboarding",
	"snowboards",
	"snowboard",
	"co.",
	"co",
}

// aliases maps the lowercased cleaned brand to its canonical form. Unknown
// keys pass through with their casing preserved (RIDE stays RIDE).
var aliases = map[string]string{
	"lib technologies":   "Lib Tech",
	"lib tech":           "Lib Tech",
	"libtech":            "Lib Tech",
	"gnu":                "GNU",
	"capita":             "CAPiTA",
	"yes":                "Yes.",
	"yes.":               "Yes.",
	"dwd":                "Dinosaurs Will Die",
	"dinosaurs will die": "Dinosaurs Will Die",
	"burton":             "Burton",
	"never summer":       "Never Summer",
	"neversummer":        "Never Summer",
	"k2":                 "K2",
	"dc shoes":           "DC",
	"gentem stick":       "Gentemstick",
}

// manufacturers maps the lowercased canonical brand to its strategy group.
// Everything absent here is ManufacturerDefault.
var manufacturers = map[string]Manufacturer{
	"burton":   ManufacturerBurton,
	"gnu":      ManufacturerMervin,
	"lib tech": ManufacturerMervin,
}

// Identifier derives the cleaned, canonical, and manufacturer views of a raw
// brand string. Derivation is lazy and memoized; the raw input is kept
// unchanged. Two Identifiers built from the same raw string are value-equal.
type Identifier struct {
	raw string

	once         sync.Once
	cleaned      string
	canonical    string
	manufacturer Manufacturer
}

// New builds an Identifier around raw. The input survives unchanged and is
// only interpreted on first access.
func New(raw string) *Identifier {
	return &Identifier{raw: raw}
}

// From returns an Identifier for the first candidate that is a non-blank
// string, or nil if none qualifies. Scrapers use it to fall back across
// several raw brand fields.
func From(candidates ...string) *Identifier {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return New(c)
		}
	}
	return nil
}

// Raw returns the original input string.
func (id *Identifier) Raw() string { return id.raw }

// Cleaned returns the raw brand with zero-width code points and marketing
// suffixes removed.
func (id *Identifier) Cleaned() string {
	id.once.Do(id.derive)
	return id.cleaned
}

// Canonical returns the alias-resolved brand name.
func (id *Identifier) Canonical() string {
	id.once.Do(id.derive)
	return id.canonical
}

// Manufacturer returns the strategy group for the canonical brand.
func (id *Identifier) Manufacturer() Manufacturer {
	id.once.Do(id.derive)
	return id.manufacturer
}

// Equal reports whether both identifiers were built from the same raw input.
func (id *Identifier) Equal(other *Identifier) bool {
	if id == nil || other == nil {
		return id == other
	}
	return id.raw == other.raw
}

func (id *Identifier) derive() {
	id.cleaned = cleanBrand(id.raw)
	if alias, ok := aliases[strings.ToLower(id.cleaned)]; ok {
		id.canonical = alias
	} else {
		id.canonical = id.cleaned
	}
	if m, ok := manufacturers[strings.ToLower(id.canonical)]; ok {
		id.manufacturer = m
	} else {
		id.manufacturer = ManufacturerDefault
	}
}

func cleanBrand(raw string) string {
	s := strings.TrimSpace(StripZeroWidth(raw))
	for {
		stripped := false
		lower := strings.ToLower(s)
		for _, suffix := range brandSuffixes {
			if strings.HasSuffix(lower, " "+suffix) {
				s = strings.TrimSpace(s[:len(s)-len(suffix)-1])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

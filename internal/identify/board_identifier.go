package identify

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/normalize"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// ListingHints carries whatever structured fields a scraper already knew,
// so detection only fills the gaps.
type ListingHints struct {
	Profile   string
	Condition string
	Gender    string
	Year      *int
}

// BoardIdentifier bundles one raw listing with its hints and lazily derives
// brand, model, condition, gender, and year. Derivation runs once; the
// identifier lives with its scraped record.
type BoardIdentifier struct {
	brand     *brand.Identifier
	rawModel  string
	sourceURL string
	source    string
	hints     ListingHints

	once      sync.Once
	identity  BoardIdentity
	condition types.Condition
	gender    types.Gender
	year      *int
}

// NewBoardIdentifier wraps a raw listing. brandID may be nil when no brand
// candidate survived; Brand() then reports "Unknown".
func NewBoardIdentifier(brandID *brand.Identifier, rawModel, sourceURL, source string, hints ListingHints) *BoardIdentifier {
	return &BoardIdentifier{
		brand:     brandID,
		rawModel:  rawModel,
		sourceURL: sourceURL,
		source:    source,
		hints:     hints,
	}
}

// Brand returns the canonical brand, or "Unknown" without one.
func (b *BoardIdentifier) Brand() string {
	if b.brand == nil {
		return "Unknown"
	}
	return b.brand.Canonical()
}

// Identity returns the strategy-normalized model and profile variant.
func (b *BoardIdentifier) Identity() BoardIdentity {
	b.once.Do(b.derive)
	return b.identity
}

// Model returns the normalized model name.
func (b *BoardIdentifier) Model() string {
	return b.Identity().Model
}

// Condition returns the hinted condition if it names a known value,
// otherwise detects one from the model and URL.
func (b *BoardIdentifier) Condition() types.Condition {
	b.once.Do(b.derive)
	return b.condition
}

// Gender returns the hinted or detected gender; "" when neither signals.
func (b *BoardIdentifier) Gender() types.Gender {
	b.once.Do(b.derive)
	return b.gender
}

// Year returns the hinted or inferred model year.
func (b *BoardIdentifier) Year() *int {
	b.once.Do(b.derive)
	return b.year
}

func (b *BoardIdentifier) derive() {
	manufacturer := brand.ManufacturerDefault
	brandName := ""
	if b.brand != nil {
		manufacturer = b.brand.Manufacturer()
		brandName = b.brand.Canonical()
	}
	sig := BoardSignal{
		RawModel:     b.rawModel,
		Brand:        brandName,
		Manufacturer: manufacturer,
		Source:       b.source,
		SourceURL:    b.sourceURL,
		Profile:      b.hints.Profile,
		Gender:       b.hints.Gender,
	}
	b.identity = StrategyFor(manufacturer)(sig)

	b.condition = conditionFromHint(b.hints.Condition)
	if b.condition == "" {
		b.condition = normalize.Condition(b.rawModel, b.sourceURL)
	}

	if g, ok := normalize.Gender(b.hints.Gender, ""); ok {
		b.gender = g
	} else if g, ok := normalize.Gender(b.rawModel, b.sourceURL); ok {
		b.gender = g
	}

	if b.hints.Year != nil {
		b.year = b.hints.Year
	} else {
		b.year = InferYear(b.rawModel)
	}
}

func conditionFromHint(hint string) types.Condition {
	switch types.Condition(hint) {
	case types.ConditionNew, types.ConditionBlemished, types.ConditionCloseout:
		return types.Condition(hint)
	}
	return ""
}

var (
	fullYearRe  = regexp.MustCompile(`\b20[1-2]\d\b`)
	shortYearRe = regexp.MustCompile(`\b([1-2]\d)\b`)
)

// InferYear pulls a model year out of a raw title: a full 20xx year first,
// then a bare two-digit token clamped to 18-29 (2018-2029).
func InferYear(rawModel string) *int {
	if m := fullYearRe.FindString(rawModel); m != "" {
		y, _ := strconv.Atoi(m)
		return &y
	}
	if m := shortYearRe.FindStringSubmatch(rawModel); m != nil {
		y, _ := strconv.Atoi(m[1])
		if y >= 18 && y <= 29 {
			y += 2000
			return &y
		}
	}
	return nil
}

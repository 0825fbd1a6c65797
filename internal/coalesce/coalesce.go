// Package coalesce folds scraped records from every source onto canonical
// boards. Records agreeing on (brand, model, gender) merge; a group whose
// members disagree on bend variant splits into one board per variant. Every
// field claim a source made is written out as a provenance row so the
// resolver can adjudicate later.
package coalesce

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/identify"
	"github.com/ryanrhee/snowboard-db-sub000/internal/normalize"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// SpecWriter persists provenance rows. The primary store satisfies this;
// tests collect rows in memory.
type SpecWriter interface {
	UpsertSpecSource(row types.SpecSource) error
}

// Result is one coalescence pass: boards with every spec field still nil
// (the resolver fills them) and the listings referencing them.
type Result struct {
	Boards   []types.Board
	Listings []types.Listing
}

// Coalescer merges scraped records into boards and listings.
type Coalescer struct {
	rates  map[string]float64
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Coalescer. rates maps uppercase currency codes to USD
// conversion factors; USD itself needs no entry.
func New(rates map[string]float64, logger *zap.Logger) *Coalescer {
	return &Coalescer{rates: rates, logger: logger, now: time.Now}
}

// member is one scraped record after identification.
type member struct {
	sb      *types.ScrapedBoard
	raw     string
	brand   string
	model   string
	variant string
	gender  types.Gender
	year    *int
}

// boardGroup is the set of members that resolved to one board.
type boardGroup struct {
	key     string
	brand   string
	model   string
	gender  types.Gender
	members []*member
}

// Coalesce runs the full merge over one scrape batch. Board and listing
// order is deterministic for identical input.
func (c *Coalescer) Coalesce(scraped []*types.ScrapedBoard, w SpecWriter) (*Result, error) {
	groups := c.identifyAll(scraped)
	boards := c.splitVariants(groups)

	keys := make([]string, 0, len(boards))
	for key := range boards {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	res := &Result{}
	for _, key := range keys {
		g := boards[key]
		if err := c.writeSpecRows(g, w); err != nil {
			return nil, err
		}
		res.Boards = append(res.Boards, c.buildBoard(g))
		res.Listings = append(res.Listings, c.buildListings(g)...)
	}
	c.logger.Debug("Coalesced scrape batch",
		zap.Int("records", len(scraped)),
		zap.Int("boards", len(res.Boards)),
		zap.Int("listings", len(res.Listings)))
	return res, nil
}

// Identity names one identified board, enough to look it up elsewhere.
type Identity struct {
	Brand string
	Model string
}

// Identities runs identification and variant splitting only, returning the
// distinct (brand, model) pairs in board-key order. Gender collapses: a
// men's and a women's board with the same model yield one entry.
func (c *Coalescer) Identities(scraped []*types.ScrapedBoard) []Identity {
	boards := c.splitVariants(c.identifyAll(scraped))

	keys := make([]string, 0, len(boards))
	for key := range boards {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	var out []Identity
	for _, key := range keys {
		g := boards[key]
		pair := strings.ToLower(g.brand) + "|" + strings.ToLower(g.model)
		if seen[pair] {
			continue
		}
		seen[pair] = true
		out = append(out, Identity{Brand: g.brand, Model: g.model})
	}
	return out
}

// identifyAll groups records by board key.
func (c *Coalescer) identifyAll(scraped []*types.ScrapedBoard) map[string][]*member {
	groups := make(map[string][]*member)
	for _, sb := range scraped {
		raw := sb.RawModel
		if raw == "" {
			raw = sb.Model
		}
		if raw == "" {
			c.logger.Warn("Skipping record with no model", zap.String("source", sb.Source))
			continue
		}
		id := identify.NewBoardIdentifier(sb.Brand, raw, sb.SourceURL, sb.Source, identify.ListingHints{
			Profile: sb.Profile,
			Gender:  sb.Gender,
			Year:    sb.Year,
		})
		identity := id.Identity()
		if identity.Model == "" {
			c.logger.Warn("Model normalized to nothing",
				zap.String("source", sb.Source),
				zap.String("raw_model", raw))
			continue
		}
		gender := normalize.GenderTag(id.Gender())
		key := types.BoardKey(id.Brand(), identity.Model, gender)
		groups[key] = append(groups[key], &member{
			sb:      sb,
			raw:     raw,
			brand:   id.Brand(),
			model:   identity.Model,
			variant: identity.ProfileVariant,
			gender:  gender,
			year:    id.Year(),
		})
	}
	return groups
}

// splitVariants breaks groups whose members carry more than one bend
// variant into one board per variant. Variant-less members are placed by
// their profile string where another member ties that profile to a variant,
// and fall back to the alphabetically first variant.
func (c *Coalescer) splitVariants(groups map[string][]*member) map[string]*boardGroup {
	out := make(map[string]*boardGroup)
	add := func(key, brand, model string, gender types.Gender, m *member) {
		g, ok := out[key]
		if !ok {
			g = &boardGroup{key: key, brand: brand, model: model, gender: gender}
			out[key] = g
		}
		g.members = append(g.members, m)
	}

	for key, members := range groups {
		variants := distinctVariants(members)
		if len(variants) <= 1 {
			for _, m := range members {
				add(key, m.brand, m.model, m.gender, m)
			}
			continue
		}

		byProfile := make(map[types.Profile]string)
		for _, m := range members {
			if m.variant == "" || m.sb.Profile == "" {
				continue
			}
			if p, ok := normalize.Profile(m.sb.Profile); ok {
				if _, seen := byProfile[p]; !seen {
					byProfile[p] = m.variant
				}
			}
		}
		for _, m := range members {
			v := m.variant
			if v == "" && m.sb.Profile != "" {
				if p, ok := normalize.Profile(m.sb.Profile); ok {
					v = byProfile[p]
				}
			}
			if v == "" {
				v = variants[0]
			}
			model := m.model + " " + titleCase(v)
			add(types.BoardKey(m.brand, model, m.gender), m.brand, model, m.gender, m)
		}
	}
	return out
}

func distinctVariants(members []*member) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range members {
		if m.variant != "" && !seen[m.variant] {
			seen[m.variant] = true
			out = append(out, m.variant)
		}
	}
	sort.Strings(out)
	return out
}

// writeSpecRows is the provenance pass: one row per field the source spoke
// about. A write failure aborts the whole run; provenance must not be
// partially silent.
func (c *Coalescer) writeSpecRows(g *boardGroup, w SpecWriter) error {
	for _, m := range g.members {
		for _, row := range c.specRows(g.key, m) {
			if err := w.UpsertSpecSource(row); err != nil {
				return fmt.Errorf("write spec source %s/%s: %w", row.BoardKey, row.Field, err)
			}
		}
	}
	return nil
}

func (c *Coalescer) specRows(key string, m *member) []types.SpecSource {
	sb := m.sb
	ts := c.now().UTC()
	row := func(field, value string) types.SpecSource {
		return types.SpecSource{
			BoardKey:  key,
			Field:     field,
			Source:    sb.Source,
			Value:     value,
			SourceURL: sb.SourceURL,
			Timestamp: ts,
		}
	}
	var rows []types.SpecSource

	if v, ok := normalize.Flex(sb.Flex); ok {
		rows = append(rows, row(types.FieldFlex, strconv.FormatFloat(v, 'f', -1, 64)))
	}
	profileRaw := sb.Profile
	if profileRaw == "" && m.variant != "" {
		// A bend variant pulled out of the name is profile information.
		profileRaw = m.variant
	}
	if p, ok := normalize.Profile(profileRaw); ok {
		rows = append(rows, row(types.FieldProfile, string(p)))
	}
	if s, ok := normalize.Shape(sb.Shape); ok {
		rows = append(rows, row(types.FieldShape, string(s)))
	}
	cat, catOK := normalize.Category(sb.Category, sb.Description)
	if catOK {
		rows = append(rows, row(types.FieldCategory, string(cat)))
	}
	if min, max := normalize.AbilityRange(sb.AbilityLevel); min != nil {
		rows = append(rows, row(types.FieldAbilityLevel, abilityValue(*min, *max)))
	}

	hasTerrain := false
	for _, k := range sortedKeys(sb.Extras) {
		field := k
		if strings.EqualFold(k, "ability level") {
			field = types.FieldAbilityLevel
		}
		if strings.HasPrefix(field, "terrain_") {
			hasTerrain = true
		}
		rows = append(rows, row(field, sb.Extras[k]))
	}
	if !hasTerrain && catOK {
		scores := terrainValues(terrainByCategory[cat])
		for i, field := range types.TerrainFields {
			rows = append(rows, row(field, strconv.Itoa(scores[i])))
		}
	}
	return rows
}

func (c *Coalescer) buildBoard(g *boardGroup) types.Board {
	b := types.Board{
		Key:    g.key,
		Brand:  g.brand,
		Model:  g.model,
		Gender: g.gender,
	}
	for _, m := range g.members {
		if m.year != nil && (b.Year == nil || *m.year > *b.Year) {
			b.Year = m.year
		}
	}
	// Manufacturer pages own MSRP and the canonical product URL; review
	// sites fill MSRP when no manufacturer record exists.
	for _, m := range g.members {
		if types.SourceType(m.sb.Source) != types.SourceTypeManufacturer {
			continue
		}
		if m.sb.MSRPUSD != nil && b.MSRPUSD == nil {
			b.MSRPUSD = m.sb.MSRPUSD
		}
		if m.sb.SourceURL != "" && b.ManufacturerURL == "" {
			b.ManufacturerURL = m.sb.SourceURL
		}
	}
	if b.MSRPUSD == nil {
		for _, m := range g.members {
			if types.SourceType(m.sb.Source) == types.SourceTypeReviewSite && m.sb.MSRPUSD != nil {
				b.MSRPUSD = m.sb.MSRPUSD
				break
			}
		}
	}
	b.Description = pickDescription(g.members)
	return b
}

// pickDescription prefers manufacturer copy, then review text, then
// whatever a retailer printed.
func pickDescription(members []*member) string {
	for _, want := range []string{types.SourceTypeManufacturer, types.SourceTypeReviewSite, types.SourceTypeRetailer} {
		for _, m := range members {
			if types.SourceType(m.sb.Source) == want && m.sb.Description != "" {
				return m.sb.Description
			}
		}
	}
	return ""
}

func abilityValue(min, max types.Ability) string {
	if min == max {
		return string(min)
	}
	return string(min) + "-" + string(max)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package coalesce

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

type specCollector struct {
	rows []types.SpecSource
}

func (c *specCollector) UpsertSpecSource(row types.SpecSource) error {
	c.rows = append(c.rows, row)
	return nil
}

func (c *specCollector) values(field string) []string {
	var out []string
	for _, r := range c.rows {
		if r.Field == field {
			out = append(out, r.Value)
		}
	}
	return out
}

func newTestCoalescer() *Coalescer {
	c := New(map[string]float64{"KRW": 0.00074}, zap.NewNop())
	c.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func fptr(v float64) *float64 { return &v }

// variantSplitBatch is one model name carrying two bend variants across
// four records: two with the variant in the name, one resolvable through
// its profile string, one with no signal at all.
func variantSplitBatch() []*types.ScrapedBoard {
	return []*types.ScrapedBoard{
		{
			Source: "retailer:tactics", Brand: brand.New("Burton"),
			RawModel: "Custom Camber Snowboard 2026", Profile: "Camber",
			SourceURL: "https://tactics.com/a",
			Listings:  []types.ScrapedListing{{URL: "https://tactics.com/a", SalePrice: fptr(500)}},
		},
		{
			Source: "retailer:evo", Brand: brand.New("Burton"),
			RawModel: "Custom Flying V Snowboard 2026", Profile: "Flying V",
			SourceURL: "https://evo.com/b",
			Listings:  []types.ScrapedListing{{URL: "https://evo.com/b", SalePrice: fptr(510)}},
		},
		{
			Source: "retailer:the-house", Brand: brand.New("Burton"),
			RawModel: "Custom Snowboard 2026", Profile: "Flying V",
			SourceURL: "https://the-house.com/c",
			Listings:  []types.ScrapedListing{{URL: "https://the-house.com/c", SalePrice: fptr(520)}},
		},
		{
			Source: "retailer:tactics", Brand: brand.New("Burton"),
			RawModel:  "Custom Snowboard 2026",
			SourceURL: "https://tactics.com/d",
			Listings:  []types.ScrapedListing{{URL: "https://tactics.com/d", SalePrice: fptr(530)}},
		},
	}
}

func TestCoalesceVariantSplit(t *testing.T) {
	c := newTestCoalescer()
	res, err := c.Coalesce(variantSplitBatch(), &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}

	if len(res.Boards) != 2 {
		t.Fatalf("got %d boards, want 2: %+v", len(res.Boards), res.Boards)
	}
	models := map[string]string{}
	for _, b := range res.Boards {
		models[b.Key] = b.Model
	}
	if models["burton|custom camber|unisex"] != "Custom Camber" {
		t.Errorf("camber board = %q, want Custom Camber", models["burton|custom camber|unisex"])
	}
	if models["burton|custom flying v|unisex"] != "Custom Flying V" {
		t.Errorf("flying v board = %q, want Custom Flying V", models["burton|custom flying v|unisex"])
	}

	// The profile string places record c; the signal-less record d falls
	// back to the alphabetically first variant.
	keyByURL := map[string]string{}
	for _, l := range res.Listings {
		keyByURL[l.URL] = l.BoardKey
	}
	if got := keyByURL["https://the-house.com/c"]; got != "burton|custom flying v|unisex" {
		t.Errorf("profile-matched record landed on %q, want flying v board", got)
	}
	if got := keyByURL["https://tactics.com/d"]; got != "burton|custom camber|unisex" {
		t.Errorf("fallback record landed on %q, want camber board", got)
	}
}

func TestCoalesceSingleVariantDoesNotSplit(t *testing.T) {
	c := newTestCoalescer()
	res, err := c.Coalesce([]*types.ScrapedBoard{
		{
			Source: "retailer:tactics", Brand: brand.New("Burton"),
			RawModel: "Custom Camber Snowboard 2026",
			Listings: []types.ScrapedListing{{URL: "https://tactics.com/a"}},
		},
		{
			Source: "retailer:evo", Brand: brand.New("Burton"),
			RawModel: "Burton Custom Camber Snowboard",
			Listings: []types.ScrapedListing{{URL: "https://evo.com/b"}},
		},
	}, &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}

	if len(res.Boards) != 1 {
		t.Fatalf("got %d boards, want 1", len(res.Boards))
	}
	b := res.Boards[0]
	if b.Key != "burton|custom|unisex" || b.Model != "Custom" {
		t.Errorf("board = {%q %q}, want {burton|custom|unisex Custom}", b.Key, b.Model)
	}
	if len(res.Listings) != 2 {
		t.Errorf("got %d listings, want 2", len(res.Listings))
	}
}

func TestCoalesceManufacturerCapture(t *testing.T) {
	c := newTestCoalescer()
	year := 2026
	res, err := c.Coalesce([]*types.ScrapedBoard{
		{
			Source: "retailer:tactics", Brand: brand.New("Burton"),
			RawModel:    "Custom Camber Snowboard 2026",
			Description: "Retail copy.",
			Listings:    []types.ScrapedListing{{URL: "https://tactics.com/custom"}},
		},
		{
			Source: "manufacturer:burton", Brand: brand.New("Burton"),
			Model: "Custom Camber", Year: &year,
			MSRPUSD:     fptr(649.95),
			Description: "The one board quiver.",
			SourceURL:   "https://www.burton.com/custom",
		},
	}, &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}

	if len(res.Boards) != 1 {
		t.Fatalf("got %d boards, want 1: %+v", len(res.Boards), res.Boards)
	}
	b := res.Boards[0]
	if b.MSRPUSD == nil || *b.MSRPUSD != 649.95 {
		t.Errorf("MSRPUSD = %v, want 649.95", b.MSRPUSD)
	}
	if b.ManufacturerURL != "https://www.burton.com/custom" {
		t.Errorf("ManufacturerURL = %q", b.ManufacturerURL)
	}
	if b.Description != "The one board quiver." {
		t.Errorf("Description = %q, want manufacturer copy", b.Description)
	}
	if b.Year == nil || *b.Year != 2026 {
		t.Errorf("Year = %v, want 2026", b.Year)
	}
}

func TestCoalesceZeroWidthStability(t *testing.T) {
	c := newTestCoalescer()
	res, err := c.Coalesce([]*types.ScrapedBoard{
		{
			Source: "retailer:tactics", Brand: brand.New("Burton"),
			RawModel: "Custom Camber Snowboard",
			Listings: []types.ScrapedListing{{URL: "https://tactics.com/a"}},
		},
		{
			Source: "retailer:evo", Brand: brand.New("Bur​ton"),
			RawModel: "Cus​tom Camber Snowboard",
			Listings: []types.ScrapedListing{{URL: "https://evo.com/b"}},
		},
	}, &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}
	if len(res.Boards) != 1 {
		t.Fatalf("zero-width variants split into %d boards, want 1", len(res.Boards))
	}
}

func TestSpecRows(t *testing.T) {
	c := newTestCoalescer()
	w := &specCollector{}
	_, err := c.Coalesce([]*types.ScrapedBoard{{
		Source: "retailer:evo", Brand: brand.New("CAPiTA"),
		RawModel:     "DOA Snowboard",
		Flex:         "7/10",
		Profile:      "Hybrid Camber",
		Shape:        "True Twin",
		Category:     "All-Mountain",
		AbilityLevel: "Intermediate to Advanced",
		Extras:       map[string]string{"ability level": "Advanced", "rocker depth": "2mm"},
		SourceURL:    "https://evo.com/doa",
	}}, w)
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}

	tests := []struct {
		field string
		want  []string
	}{
		{types.FieldFlex, []string{"7"}},
		{types.FieldProfile, []string{"hybrid_camber"}},
		{types.FieldShape, []string{"true_twin"}},
		{types.FieldCategory, []string{"all_mountain"}},
		{types.FieldAbilityLevel, []string{"intermediate-advanced", "Advanced"}},
		{"rocker depth", []string{"2mm"}},
		{"terrain_piste", []string{"3"}},
		{"terrain_powder", []string{"1"}},
		{"terrain_park", []string{"2"}},
		{"terrain_freeride", []string{"2"}},
		{"terrain_freestyle", []string{"2"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, w.values(tt.field)); diff != "" {
			t.Errorf("field %s rows mismatch (-want +got):\n%s", tt.field, diff)
		}
	}
	for _, r := range w.rows {
		if r.BoardKey != "capita|doa|unisex" {
			t.Errorf("row %s has key %q, want capita|doa|unisex", r.Field, r.BoardKey)
		}
		if r.Source != "retailer:evo" {
			t.Errorf("row %s has source %q", r.Field, r.Source)
		}
	}
}

func TestSpecRowsTerrainFromExtras(t *testing.T) {
	c := newTestCoalescer()
	w := &specCollector{}
	_, err := c.Coalesce([]*types.ScrapedBoard{{
		Source: "manufacturer:burton", Brand: brand.New("Burton"),
		Model:    "Hometown Hero",
		Category: "Freeride",
		Extras:   map[string]string{"terrain_powder": "3"},
	}}, w)
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}

	if got := w.values("terrain_powder"); len(got) != 1 || got[0] != "3" {
		t.Errorf("terrain_powder rows = %v, want the extras value only", got)
	}
	// Explicit terrain extras suppress category-derived scores entirely.
	if got := w.values("terrain_piste"); got != nil {
		t.Errorf("terrain_piste rows = %v, want none", got)
	}
}

func TestSpecRowsProfileFromVariant(t *testing.T) {
	c := newTestCoalescer()
	w := &specCollector{}
	_, err := c.Coalesce([]*types.ScrapedBoard{{
		Source: "retailer:tactics", Brand: brand.New("Burton"),
		RawModel: "Custom Flying V Snowboard",
	}}, w)
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}
	if got := w.values(types.FieldProfile); len(got) != 1 || got[0] != "hybrid_rocker" {
		t.Errorf("profile rows = %v, want [hybrid_rocker] from the name variant", got)
	}
}

func TestBuildListing(t *testing.T) {
	c := newTestCoalescer()
	stock := 3
	res, err := c.Coalesce([]*types.ScrapedBoard{{
		Source: "retailer:tactics", Brand: brand.New("Burton"),
		RawModel: "Custom Camber Snowboard",
		Listings: []types.ScrapedListing{{
			URL:           "https://tactics.com/custom-blem",
			Region:        "us",
			LengthCm:      fptr(154),
			OriginalPrice: fptr(599.95),
			SalePrice:     fptr(399.95),
			Availability:  "http://schema.org/InStock",
			StockCount:    &stock,
		}},
	}}, &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}
	if len(res.Listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(res.Listings))
	}
	l := res.Listings[0]

	if want := ListingID("tactics", "https://tactics.com/custom-blem", fptr(154)); l.ID != want {
		t.Errorf("ID = %q, want %q", l.ID, want)
	}
	if len(l.ID) != 16 {
		t.Errorf("ID length = %d, want 16", len(l.ID))
	}
	if l.Retailer != "tactics" || l.Region != "us" {
		t.Errorf("retailer/region = %q/%q", l.Retailer, l.Region)
	}
	if l.Currency != "USD" {
		t.Errorf("Currency = %q, want USD default", l.Currency)
	}
	if l.SalePriceUSD == nil || *l.SalePriceUSD != 399.95 {
		t.Errorf("SalePriceUSD = %v, want 399.95", l.SalePriceUSD)
	}
	if l.DiscountPercent == nil || *l.DiscountPercent != 33 {
		t.Errorf("DiscountPercent = %v, want 33", l.DiscountPercent)
	}
	if l.Availability != types.AvailabilityInStock {
		t.Errorf("Availability = %q, want in_stock", l.Availability)
	}
	if l.Condition != types.ConditionBlemished {
		t.Errorf("Condition = %q, want blemished from URL", l.Condition)
	}
	if l.Gender != types.GenderUnisex {
		t.Errorf("Gender = %q, want board fallback unisex", l.Gender)
	}
	if l.ScrapedAt.IsZero() {
		t.Error("ScrapedAt not stamped")
	}
}

func TestBuildListingCurrencyConversion(t *testing.T) {
	c := newTestCoalescer()
	res, err := c.Coalesce([]*types.ScrapedBoard{{
		Source: "retailer:hellobrand", Brand: brand.New("Burton"),
		RawModel: "Custom Camber Snowboard",
		Listings: []types.ScrapedListing{{
			URL:       "https://hellobrand.kr/custom",
			Region:    "kr",
			SalePrice: fptr(500000),
			Currency:  "KRW",
		}},
	}}, &specCollector{})
	if err != nil {
		t.Fatalf("Coalesce() error: %v", err)
	}
	l := res.Listings[0]
	if l.Currency != "KRW" {
		t.Errorf("Currency = %q, want KRW", l.Currency)
	}
	if l.SalePriceUSD == nil || *l.SalePriceUSD != 370 {
		t.Errorf("SalePriceUSD = %v, want 370", l.SalePriceUSD)
	}
	if l.DiscountPercent != nil {
		t.Errorf("DiscountPercent = %v, want nil without original price", l.DiscountPercent)
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name string
		orig *float64
		sale *float64
		want *int
	}{
		{"20 percent", fptr(500), fptr(400), iptr(20)},
		{"rounds down", fptr(599.95), fptr(399.95), iptr(33)},
		{"no original", nil, fptr(400), nil},
		{"no sale", fptr(500), nil, nil},
		{"not a markdown", fptr(400), fptr(400), nil},
		{"inverted prices", fptr(400), fptr(500), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := discountPercent(tt.orig, tt.sale)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("discountPercent = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("discountPercent = nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("discountPercent = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestCoalesceDeterministic(t *testing.T) {
	a, errA := newTestCoalescer().Coalesce(variantSplitBatch(), &specCollector{})
	b, errB := newTestCoalescer().Coalesce(variantSplitBatch(), &specCollector{})
	if errA != nil || errB != nil {
		t.Fatalf("Coalesce() errors: %v, %v", errA, errB)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("two identical passes diverged (-first +second):\n%s", diff)
	}
}

func iptr(v int) *int { return &v }

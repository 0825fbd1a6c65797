package brand

import "testing"

func TestCanonicalAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"lib technologies with suffix", "Lib Technologies Snowboards", "Lib Tech"},
		{"libtech one word", "LibTech", "Lib Tech"},
		{"capita casing", "Capita", "CAPiTA"},
		{"yes gains period", "YES Snowboards", "Yes."},
		{"yes with period", "Yes.", "Yes."},
		{"dwd expansion", "DWD", "Dinosaurs Will Die"},
		{"gnu casing", "Gnu Snowboards", "GNU"},
		{"burton plain", "Burton Snowboards", "Burton"},
		{"stacked suffixes", "Burton Snowboards Co.", "Burton"},
		{"never summer joined", "NeverSummer", "Never Summer"},
		{"unknown preserves casing", "RIDE", "RIDE"},
		{"unknown passes through", "Rossignol", "Rossignol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.raw).Canonical()
			if got != tt.want {
				t.Errorf("New(%q).Canonical() = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestManufacturerGroups(t *testing.T) {
	tests := []struct {
		raw  string
		want Manufacturer
	}{
		{"Lib Technologies Snowboards", ManufacturerMervin},
		{"GNU", ManufacturerMervin},
		{"Burton", ManufacturerBurton},
		{"CAPiTA", ManufacturerDefault},
		{"Rossignol", ManufacturerDefault},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := New(tt.raw).Manufacturer()
			if got != tt.want {
				t.Errorf("New(%q).Manufacturer() = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestZeroWidthStability(t *testing.T) {
	plain := New("Lib Tech")
	dirty := New("Lib​ Tech\uFEFF")
	if plain.Canonical() != dirty.Canonical() {
		t.Fatalf("canonical differs under zero-width insertion: %q vs %q",
			plain.Canonical(), dirty.Canonical())
	}
	soft := New("Bur­ton")
	if soft.Canonical() != "Burton" {
		t.Fatalf("soft hyphen not stripped: got %q", soft.Canonical())
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	for _, raw := range []string{"Capita", "YES Snowboards", "RIDE", "Lib Technologies", "DWD"} {
		once := New(raw).Canonical()
		twice := New(once).Canonical()
		if once != twice {
			t.Errorf("canonical not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestFrom(t *testing.T) {
	if got := From("", "  ", "Burton"); got == nil || got.Raw() != "Burton" {
		t.Fatalf("From should pick the first non-blank candidate, got %v", got)
	}
	if got := From("", "   "); got != nil {
		t.Fatalf("From with no usable candidate should return nil, got %v", got)
	}
	if got := From(); got != nil {
		t.Fatalf("From with no arguments should return nil, got %v", got)
	}
}

func TestEqual(t *testing.T) {
	a := New("Burton")
	b := New("Burton")
	// Force derivation on one side only; equality must not care.
	a.Canonical()
	if !a.Equal(b) {
		t.Fatalf("identifiers from the same raw string must be equal")
	}
	if a.Equal(New("GNU")) {
		t.Fatalf("identifiers from different raw strings must not be equal")
	}
	var nilID *Identifier
	if nilID.Equal(a) || a.Equal(nil) {
		t.Fatalf("nil comparisons must be false")
	}
	if !nilID.Equal(nil) {
		t.Fatalf("nil.Equal(nil) must be true")
	}
}

func TestRawPreserved(t *testing.T) {
	id := New("Lib Technologies Snowboards")
	id.Manufacturer()
	if id.Raw() != "Lib Technologies Snowboards" {
		t.Fatalf("raw input must survive derivation, got %q", id.Raw())
	}
}

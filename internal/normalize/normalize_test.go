package normalize

import (
	"testing"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   types.Profile
		wantOK bool
	}{
		{"exact c2", "C2", types.ProfileHybridCamber, true},
		{"exact c3", "c3", types.ProfileCamber, true},
		{"exact btx", "BTX", types.ProfileHybridRocker, true},
		{"exact flying v", "Flying V", types.ProfileHybridRocker, true},
		{"exact flat top", "Flat Top", types.ProfileFlat, true},
		{"exact purepop", "PurePop", types.ProfileCamber, true},
		{"rocker before camber", "rocker between the feet, camber underfoot", types.ProfileHybridRocker, true},
		{"camber before rocker", "camber dominant with tip rocker zones", types.ProfileHybridCamber, true},
		{"bare camber substring", "aggressive camber baseline", types.ProfileCamber, true},
		{"bare rocker substring", "mellow rocker throughout", types.ProfileRocker, true},
		{"bare flat substring", "stable flat base", types.ProfileFlat, true},
		{"garbage", "magnetraction", "", false},
		{"empty", "  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Profile(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Profile(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestShape(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   types.Shape
		wantOK bool
	}{
		{"true twin", "True Twin", types.ShapeTrueTwin, true},
		{"bare twin", "twin", types.ShapeTrueTwin, true},
		{"directional twin", "Directional Twin", types.ShapeDirectionalTwin, true},
		{"twin plus directional wins over twin", "twin shape with a directional stance", types.ShapeDirectionalTwin, true},
		{"directional", "Directional", types.ShapeDirectional, true},
		{"tapered directional", "Tapered Directional", types.ShapeTapered, true},
		{"taper substring beats directional", "directional with 8mm of taper", types.ShapeTapered, true},
		{"miss", "volume shifted", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Shape(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Shape(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		desc   string
		want   types.Category
		wantOK bool
	}{
		{"exact", "All-Mountain", "", types.CategoryAllMountain, true},
		{"exact park and pipe", "Park & Pipe", "", types.CategoryPark, true},
		{"scan picks powder", "", "built to float through deep snow on any pow day", types.CategoryPowder, true},
		{"scan picks freestyle", "", "a playful jib deck made to butter and press", types.CategoryFreestyle, true},
		{"tie falls to enum order", "", "versatile yet playful", types.CategoryAllMountain, true},
		{"no signal", "", "a snowboard", "", false},
		{"empty everything", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Category(tt.raw, tt.desc)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Category(%q, %q) = (%q, %v), want (%q, %v)", tt.raw, tt.desc, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlex(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"ratio", "7/10", 7, true},
		{"ratio with decimal", "4.5/10", 4.5, true},
		{"out of ten", "6 out of 10", 6, true},
		{"bare integer", "8", 8, true},
		{"bare decimal", "4.5", 4.5, true},
		{"bare zero rejected", "0", 0, false},
		{"bare eleven rejected", "11", 0, false},
		{"medium-stiff before stiff", "Medium-Stiff", 6, true},
		{"medium to stiff", "medium to stiff", 6, true},
		{"medium-soft before soft", "medium-soft", 4, true},
		{"very soft before soft", "very soft", 2, true},
		{"very stiff before stiff", "Very Stiff", 9, true},
		{"soft", "soft flexing", 3, true},
		{"medium", "medium", 5, true},
		{"stiff", "stiff", 7, true},
		{"miss", "responsive", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Flex(tt.raw)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Flex(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestAbilityRange(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMin  types.Ability
		wantMax  types.Ability
		wantHit  bool
	}{
		{"single token", "Intermediate", types.AbilityIntermediate, types.AbilityIntermediate, true},
		{"novice alias", "Novice", types.AbilityBeginner, types.AbilityBeginner, true},
		{"pro alias", "Pro", types.AbilityExpert, types.AbilityExpert, true},
		{"entry-level alias", "entry-level", types.AbilityBeginner, types.AbilityBeginner, true},
		{"hyphen range", "Beginner-Intermediate", types.AbilityBeginner, types.AbilityIntermediate, true},
		{"to range", "intermediate to expert", types.AbilityIntermediate, types.AbilityExpert, true},
		{"all levels", "All Levels", types.AbilityBeginner, types.AbilityExpert, true},
		{"miss", "shredders", "", "", false},
		{"empty", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := AbilityRange(tt.raw)
			if tt.wantHit {
				if min == nil || max == nil {
					t.Fatalf("AbilityRange(%q) = (%v, %v), want (%q, %q)", tt.raw, min, max, tt.wantMin, tt.wantMax)
				}
				if *min != tt.wantMin || *max != tt.wantMax {
					t.Errorf("AbilityRange(%q) = (%q, %q), want (%q, %q)", tt.raw, *min, *max, tt.wantMin, tt.wantMax)
				}
				return
			}
			if min != nil || max != nil {
				t.Errorf("AbilityRange(%q) should miss, got (%v, %v)", tt.raw, min, max)
			}
		})
	}
}

func TestGender(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		url    string
		want   types.Gender
		wantOK bool
	}{
		{"womens apostrophe", "Custom - Women's", "", types.GenderWomens, true},
		{"womens plain", "Womens Custom", "", types.GenderWomens, true},
		{"wmn abbreviation", "Feelgood WMN", "", types.GenderWomens, true},
		{"mens", "Men's Custom", "", types.GenderMens, true},
		{"womens does not read as mens", "Women's Feelgood", "", types.GenderWomens, true},
		{"kids", "Kids' Chopper", "", types.GenderKids, true},
		{"boys", "Boys' Process Smalls", "", types.GenderKids, true},
		{"toddler", "Toddler Mini Shred", "", types.GenderKids, true},
		{"youth", "Youth Prodigy", "", types.GenderKids, true},
		{"url womens", "Custom", "https://shop.example/boards-womens-custom", types.GenderWomens, true},
		{"url mens", "Custom", "https://shop.example/boards-mens-custom", types.GenderMens, true},
		{"url kids", "Chopper", "https://shop.example/boards-kids-chopper", types.GenderKids, true},
		{"no signal", "Custom", "https://shop.example/boards/custom", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Gender(tt.text, tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Gender(%q, %q) = (%q, %v), want (%q, %v)", tt.text, tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGenderTag(t *testing.T) {
	tests := []struct {
		in   types.Gender
		want types.Gender
	}{
		{types.GenderWomens, types.GenderWomens},
		{types.GenderKids, types.GenderKids},
		{types.GenderMens, types.GenderUnisex},
		{types.GenderUnisex, types.GenderUnisex},
		{"", types.GenderUnisex},
	}
	for _, tt := range tests {
		if got := GenderTag(tt.in); got != tt.want {
			t.Errorf("GenderTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCondition(t *testing.T) {
	tests := []struct {
		name  string
		title string
		url   string
		want  types.Condition
	}{
		{"blem paren", "Custom (Blem)", "", types.ConditionBlemished},
		{"blem dash", "Custom - Blem", "", types.ConditionBlemished},
		{"blem url", "Custom", "https://shop.example/custom-blem", types.ConditionBlemished},
		{"closeout paren", "Custom (Closeout)", "", types.ConditionCloseout},
		{"closeout url outlet", "Custom", "https://shop.example/outlet/custom", types.ConditionCloseout},
		{"closeout url suffix", "Custom", "https://shop.example/custom-closeout", types.ConditionCloseout},
		{"sale is not a condition", "Custom (Sale)", "", types.ConditionNew},
		{"plain", "Custom", "https://shop.example/custom", types.ConditionNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Condition(tt.title, tt.url); got != tt.want {
				t.Errorf("Condition(%q, %q) = %q, want %q", tt.title, tt.url, got, tt.want)
			}
		})
	}
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		raw  string
		want types.Availability
	}{
		{"In Stock", types.AvailabilityInStock},
		{"Add to Cart", types.AvailabilityInStock},
		{"https://schema.org/InStock", types.AvailabilityInStock},
		{"Low Stock", types.AvailabilityLowStock},
		{"Only 2 left in stock", types.AvailabilityLowStock},
		{"http://schema.org/LimitedAvailability", types.AvailabilityLowStock},
		{"Sold Out", types.AvailabilityOutOfStock},
		{"https://schema.org/OutOfStock", types.AvailabilityOutOfStock},
		{"Currently unavailable", types.AvailabilityOutOfStock},
		{"ships someday", types.AvailabilityUnknown},
		{"", types.AvailabilityUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Availability(tt.raw); got != tt.want {
				t.Errorf("Availability(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

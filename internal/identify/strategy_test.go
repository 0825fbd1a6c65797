package identify

import (
	"testing"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
)

func TestBurtonStrategy(t *testing.T) {
	tests := []struct {
		name        string
		rawModel    string
		wantModel   string
		wantVariant string
	}{
		{"camber variant with year", "Custom Camber Snowboard 2026", "Custom", "camber"},
		{"flying v variant", "Custom Flying V Snowboard", "Custom", "flying v"},
		{"flat top variant", "Free Thinker Flat Top", "Free Thinker", "flat top"},
		{"purepop camber beats camber", "Instigator PurePop Camber Snowboard", "Instigator", "purepop camber"},
		{"purepop alone", "Instigator PurePop", "Instigator", "purepop"},
		{"no variant", "Deep Thinker Snowboard 2025", "Deep Thinker", ""},
		{"brand prefix stripped", "Burton Custom Camber Snowboard", "Custom", "camber"},
		{"pipe separator", "Burton | Custom Camber Snowboard", "Custom", "camber"},
		{"combo stripped", "Custom Camber Snowboard + Malavita Bindings", "Custom", "camber"},
		{"gender and size stripped", "Feelgood Camber Snowboard - Women's 149", "Feelgood", "camber"},
		{"year range", "Custom Camber Snowboard 2025/2026", "Custom", "camber"},
		{"early release season", "Custom Camber Snowboard 2026 Early Release", "Custom", "camber"},
		{"fish alias", "Fish 3D Directional", "3d fish directional", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := burtonStrategy(BoardSignal{
				RawModel:     tt.rawModel,
				Brand:        "Burton",
				Manufacturer: brand.ManufacturerBurton,
			})
			if got.Model != tt.wantModel || got.ProfileVariant != tt.wantVariant {
				t.Errorf("burtonStrategy(%q) = {%q, %q}, want {%q, %q}",
					tt.rawModel, got.Model, got.ProfileVariant, tt.wantModel, tt.wantVariant)
			}
		})
	}
}

func TestMervinStrategy(t *testing.T) {
	tests := []struct {
		name        string
		rawModel    string
		brandName   string
		profile     string
		wantModel   string
		wantVariant string
	}{
		{"gnu asym with contour and gender", "GNU Asym Ladies Choice C2X Snowboard - Women's 2025", "GNU", "", "Ladies Choice", "c2x"},
		{"mid-string contour is not a variant", "Cold Brew C2 LTD", "Lib Tech", "", "Cold Brew C2 LTD", ""},
		{"trice pro with contour", "T.Rice Pro C2", "Lib Tech", "", "Pro", "c2"},
		{"trice pro without contour", "T.Rice Pro", "Lib Tech", "", "Pro", ""},
		{"travis rice full name", "Travis Rice Orca", "Lib Tech", "", "Orca", ""},
		{"camber code remaps to c3", "Riders Choice Camber", "GNU", "", "Riders Choice", "c3"},
		{"c3 btx longest first", "Box Knife C3 BTX", "Lib Tech", "", "Box Knife", "c3 btx"},
		{"variant from profile contour", "Riders Choice", "GNU", "C2X contour", "Riders Choice", "c2x"},
		{"variant from hybrid camber profile", "Skate Banana", "Lib Tech", "Hybrid Camber", "Skate Banana", "c2"},
		{"variant from flying v profile", "Head Space", "GNU", "flying v", "Head Space", "btx"},
		{"variant from plain camber profile", "Doughboy", "Lib Tech", "camber", "Doughboy", "c3"},
		{"variant from plain rocker profile", "Money", "GNU", "rocker", "Money", "btx"},
		{"tech leak", "Tech Orca 153", "Lib Tech", "", "Orca", ""},
		{"forest bailey rider", "Forest Bailey Head Space", "GNU", "", "Head Space", ""},
		{"signature series prefix", "Signature Series Barrett", "GNU", "", "Barrett", ""},
		{"gnu c token suffix", "Ladies Choice C", "GNU", "", "Ladies Choice", ""},
		{"birdman alias", "Son of a Birdman", "GNU", "", "son of birdman", ""},
		{"four by four survives size strip", "4x4 159", "Lib Tech", "", "4x4", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mervinStrategy(BoardSignal{
				RawModel:     tt.rawModel,
				Brand:        tt.brandName,
				Manufacturer: brand.ManufacturerMervin,
				Profile:      tt.profile,
			})
			if got.Model != tt.wantModel || got.ProfileVariant != tt.wantVariant {
				t.Errorf("mervinStrategy(%q, brand=%s) = {%q, %q}, want {%q, %q}",
					tt.rawModel, tt.brandName, got.Model, got.ProfileVariant, tt.wantModel, tt.wantVariant)
			}
		})
	}
}

func TestDefaultStrategy(t *testing.T) {
	tests := []struct {
		name      string
		rawModel  string
		brandName string
		wantModel string
	}{
		{"rider by-phrase", "Equalizer By Jess Kimura", "CAPiTA", "Equalizer"},
		{"rider prefix", "Jess Kimura Equalizer", "CAPiTA", "Equalizer"},
		{"rider suffix", "Pro Bryan Iguchi", "Arbor", "Pro"},
		{"dwd leak will die", "Will Die Wizard Stick", "Dinosaurs Will Die", "Wizard Stick"},
		{"dwd leak dinosaurs", "Dinosaurs Wizard Stick", "Dinosaurs Will Die", "Wizard Stick"},
		{"dwd full brand prefix", "Dinosaurs Will Die Wizard Stick Snowboard", "Dinosaurs Will Die", "Wizard Stick"},
		{"mega merc alias", "Mega Merc", "CAPiTA", "mega mercury"},
		{"dreamweaver alias", "Dreamweaver", "Never Summer", "dream weaver"},
		{"sb prefix alias", "SB Slush Slasher", "CAPiTA", "spring break Slush Slasher"},
		{"darkhorse prefix alias", "Darkhorse Wide", "Salomon", "dark horse Wide"},
		{"periods collapse", "D.O.A. 156", "CAPiTA", "DOA"},
		{"version number keeps dot", "Custom X 2.0", "Niche", "Custom X 2.0"},
		{"mid-token brand is not stripped", "Chrome Rome Snowboard", "Rome", "Chrome Rome"},
		{"never a variant", "Proto Slinger Hybrid Camber", "Never Summer", "Proto Slinger Hybrid Camber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := defaultStrategy(BoardSignal{
				RawModel:     tt.rawModel,
				Brand:        tt.brandName,
				Manufacturer: brand.ManufacturerDefault,
			})
			if got.Model != tt.wantModel {
				t.Errorf("defaultStrategy(%q, brand=%s) = %q, want %q",
					tt.rawModel, tt.brandName, got.Model, tt.wantModel)
			}
			if got.ProfileVariant != "" {
				t.Errorf("defaultStrategy must never produce a variant, got %q", got.ProfileVariant)
			}
		})
	}
}

func TestStrategyFor(t *testing.T) {
	sig := BoardSignal{RawModel: "Custom Camber", Brand: "Burton", Manufacturer: brand.ManufacturerBurton}
	if got := StrategyFor(brand.ManufacturerBurton)(sig); got.ProfileVariant != "camber" {
		t.Errorf("burton dispatch missing variant extraction, got %+v", got)
	}
	if got := StrategyFor(brand.ManufacturerDefault)(sig); got.ProfileVariant != "" {
		t.Errorf("default dispatch must not extract variants, got %+v", got)
	}
}

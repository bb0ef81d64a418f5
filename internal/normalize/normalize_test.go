// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/pdiddy/screening-engine/pkg/types"
)

func TestDOIKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare doi", "10.1109/ABC.2021.001", "10.1109/abc.2021.001"},
		{"https resolver and trailing period", "https://doi.org/10.1109/ABC.2021.001.", "10.1109/abc.2021.001"},
		{"http resolver", "http://doi.org/10.1016/j.inffus.2020.06.014", "10.1016/j.inffus.2020.06.014"},
		{"dx resolver", "https://dx.doi.org/10.1038/s41467-021-23778-6", "10.1038/s41467-021-23778-6"},
		{"uppercase resolver", "HTTPS://DOI.ORG/10.1145/3025453.3025461", "10.1145/3025453.3025461"},
		{"embedded in text", "available at 10.1007/S11042-020-09764-Y, accessed 2021", "10.1007/s11042-020-09764-y"},
		{"trailing semicolon and paren", "10.5555/12345678);", "10.5555/12345678"},
		{"surrounding whitespace", "  10.1109/TIFS.2021.3099321  ", "10.1109/tifs.2021.3099321"},
		{"registrant too short", "10.123/abc", ""},
		{"no doi", "not-a-doi", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DOIKey(tt.input); got != tt.want {
				t.Errorf("DOIKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "deep fake detection", "deep fake detection"},
		{"punctuation and case", "Deep-Fake Detection!", "deep fake detection"},
		{"whitespace collapse", "  Deep   Fake \t Detection ", "deep fake detection"},
		{"accents decompose", "Détection des deepfakes: étude", "detection des deepfakes etude"},
		{"digits kept", "GAN-Generated Faces 2021", "gan generated faces 2021"},
		{"colon subtitle", "DeepFakes: A Survey", "deepfakes a survey"},
		{"empty", "", ""},
		{"punctuation only", "?!---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleKey(tt.input); got != tt.want {
				t.Errorf("TitleKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentityKeyPrefersDOI(t *testing.T) {
	r := types.Record{
		RawDOI:   "https://doi.org/10.1109/ABC.2021.001.",
		RawTitle: "Some Completely Different Title",
	}
	if got, want := IdentityKey(r), "10.1109/abc.2021.001"; got != want {
		t.Errorf("IdentityKey = %q, want %q", got, want)
	}
}

func TestIdentityKeyTitleFallback(t *testing.T) {
	a := types.Record{RawTitle: "Deep-Fake Detection!"}
	b := types.Record{RawDOI: "garbage", RawTitle: "deep fake detection"}

	ka, kb := IdentityKey(a), IdentityKey(b)
	if ka != "deep fake detection" {
		t.Errorf("IdentityKey(a) = %q", ka)
	}
	if ka != kb {
		t.Errorf("fallback keys differ: %q vs %q", ka, kb)
	}
}

func TestIdentityKeyUnkeyed(t *testing.T) {
	r := types.Record{RawDOI: "doi pending", RawTitle: "   "}
	if got := IdentityKey(r); got != "" {
		t.Errorf("IdentityKey = %q, want empty", got)
	}
}

func TestIdentityKeyDeterministic(t *testing.T) {
	r := types.Record{RawDOI: "10.1016/J.PATCOG.2020.107616", RawTitle: "Título con acentos"}
	first := IdentityKey(r)
	for i := 0; i < 5; i++ {
		if got := IdentityKey(r); got != first {
			t.Fatalf("IdentityKey not deterministic: %q then %q", first, got)
		}
	}
}

package optimizer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/use-agent/listify/models"
)

func airpodsListing() *models.Listing {
	return &models.Listing{
		ASIN:  "B07PXGQC1Q",
		Title: "Apple AirPods (2nd Generation) Wireless Earbuds with Lightning Charging Case Included.",
		Bullets: []string{
			"HIGH-QUALITY SOUND — Powered by the Apple H1 headphone chip for immersive listening.",
			"EFFORTLESS SETUP — One-tap setup instantly connects to your iPhone.",
			"VOICE CONTROL — Just say \"Hey Siri\" to play music.",
			"LONG BATTERY LIFE — More than 24 hours of total listening time with the Charging Case.",
			"Legal disclaimer: warranty terms apply.",
		},
	}
}

func TestSynthesize_AirPods(t *testing.T) {
	got := Synthesize(airpodsListing())

	wantTitle := "Apple AirPods Wireless Earbuds, H1 Chip, One‑Tap Setup, Hands‑Free “Hey Siri”, 24‑Hr Battery, Charging Case"
	if got.Title != wantTitle {
		t.Errorf("title mismatch:\n got: %q\nwant: %q", got.Title, wantTitle)
	}

	wantBullets := []string{
		"Rich, immersive sound with Apple H1 chip.",
		"Instant one‑tap pairing; auto play/pause; seamless switching.",
		"Hands‑free voice control with “Hey Siri”.",
		"Up to 24‑hour listening with Charging Case.",
		"Instant one‑tap pairing; auto‑connect across Apple devices.",
	}
	if !reflect.DeepEqual(got.Bullets, wantBullets) {
		t.Errorf("bullets mismatch:\n got: %#v\nwant: %#v", got.Bullets, wantBullets)
	}

	if !strings.Contains(got.Description, "Apple AirPods Wireless Earbuds deliver rich, immersive sound") {
		t.Errorf("description missing lead paragraph: %q", got.Description)
	}
	if !strings.Contains(got.Description, "up to 24‑hour listening with the Charging Case") {
		t.Errorf("description missing battery clause: %q", got.Description)
	}
	if !strings.Contains(got.Description, "hands‑free control with “Hey Siri”") {
		t.Errorf("description missing voice clause: %q", got.Description)
	}

	wantKeywords := []string{"apple", "charging", "case", "listening", "setup"}
	if !reflect.DeepEqual(got.Keywords, wantKeywords) {
		t.Errorf("keywords mismatch:\n got: %v\nwant: %v", got.Keywords, wantKeywords)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	l := airpodsListing()
	first := Synthesize(l)
	second := Synthesize(l)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different output:\n%#v\n%#v", first, second)
	}
}

func TestSynthesizeBullets_AlwaysFive(t *testing.T) {
	cases := []struct {
		name    string
		bullets []string
	}{
		{"empty", nil},
		{"one", []string{"Comes in a gift box"}},
		{"many", []string{
			"Color option cherry", "Color option indigo", "Color option olive",
			"Color option coral", "Color option slate", "Color option ivory",
			"Color option amber", "Color option jade", "Color option onyx",
			"Color option plum", "Color option rust", "Color option teal",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := synthesizeBullets(tc.bullets, nil)
			if len(got) != bulletCount {
				t.Errorf("got %d bullets, want %d: %v", len(got), bulletCount, got)
			}
		})
	}
}

func TestSynthesizeBullets_PadsWithFiller(t *testing.T) {
	got := synthesizeBullets(nil, nil)
	for i, b := range got {
		if b != fillerBullet {
			t.Errorf("bullet %d = %q, want filler", i, b)
		}
	}
}

func TestSynthesizeBullets_DedupIgnoresTrailingPeriod(t *testing.T) {
	got := synthesizeBullets([]string{"Great fit for small ears.", "great fit for small ears"}, nil)
	if got[0] != "Great fit for small ears." {
		t.Errorf("first bullet = %q", got[0])
	}
	if got[1] != fillerBullet {
		t.Errorf("duplicate was not collapsed: %v", got)
	}
}

func TestSynthesizeBullets_DropsLegalText(t *testing.T) {
	got := synthesizeBullets([]string{"Legal: terms and conditions apply"}, nil)
	for _, b := range got {
		if strings.Contains(strings.ToLower(b), "legal") {
			t.Errorf("legal bullet survived rewrite: %q", b)
		}
	}
}

func TestSynthesizeTitle_CapsLength(t *testing.T) {
	long := strings.Repeat("Extraordinarily Long Product Name ", 20)
	got := synthesizeTitle(long, []string{"Bluetooth"})
	if n := utf8.RuneCountInString(got); n > maxTitleLen {
		t.Errorf("title has %d runes, cap is %d", n, maxTitleLen)
	}
}

func TestSynthesizeTitle_NormalizesPunctuation(t *testing.T) {
	got := synthesizeTitle("Gadget  Pro ,, Deluxe", []string{"Bluetooth"})
	if strings.Contains(got, " ,") || strings.Contains(got, ",,") || strings.Contains(got, "  ") {
		t.Errorf("punctuation not normalized: %q", got)
	}
}

func TestSynthesizeTitle_NoFeatures(t *testing.T) {
	got := synthesizeTitle("Plain Widget – Deluxe Edition", nil)
	if got != "Plain Widget" {
		t.Errorf("got %q, want base name only", got)
	}
}

func TestSynthesizeKeywords_Properties(t *testing.T) {
	got := synthesizeKeywords(airpodsListing())
	if len(got) > 5 {
		t.Fatalf("got %d keywords, max is 5", len(got))
	}
	for _, kw := range got {
		if len(kw) < 4 {
			t.Errorf("keyword %q is shorter than 4 characters", kw)
		}
		if _, stop := stopWords[kw]; stop {
			t.Errorf("stop word %q leaked into keywords", kw)
		}
	}
}

func TestSynthesizeKeywords_TieBreakByFirstAppearance(t *testing.T) {
	l := &models.Listing{Title: "zebra yonder xylophone wombat vulture umbra"}
	got := synthesizeKeywords(l)
	want := []string{"zebra", "yonder", "xylophone", "wombat", "vulture"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDetectFeatures_RuleOrder(t *testing.T) {
	// Mention Bluetooth before H1: output must still follow rule order.
	got := detectFeatures("Bluetooth headset with H1 chip", nil)
	want := []string{"H1 Chip", "Bluetooth"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSynthesizeDescription_CapsLength(t *testing.T) {
	title := strings.Repeat("Very Long Product Title Words ", 50)
	got := synthesizeDescription(title, []string{"Bluetooth"})
	if n := utf8.RuneCountInString(got); n > maxDescriptionLen {
		t.Errorf("description has %d runes, cap is %d", n, maxDescriptionLen)
	}
}

func TestTruncate_RuneSafe(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := truncate(s, 4)
	if got != "éééé" {
		t.Errorf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Error("truncate produced invalid UTF-8")
	}
}

func ExampleSynthesize() {
	opt := Synthesize(&models.Listing{Title: "Plain Widget – Deluxe"})
	fmt.Println(opt.Title)
	// Output: Plain Widget
}

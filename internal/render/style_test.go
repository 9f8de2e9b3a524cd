package render

import (
	"strings"
	"testing"

	"resumecraft/internal/resume"
)

func TestResolveDefaults(t *testing.T) {
	s := Resolve(resume.Theme{})

	if s.PrimaryColor != "#4f46e5" {
		t.Errorf("primary = %q", s.PrimaryColor)
	}
	if s.FontFamily != "Inter" {
		t.Errorf("font family = %q", s.FontFamily)
	}
	if s.FontSizePx != 16 || s.FontWeight != 400 || s.LineHeight != 1.5 {
		t.Errorf("typography defaults: size=%d weight=%d lh=%v", s.FontSizePx, s.FontWeight, s.LineHeight)
	}
	if s.LayoutType != resume.LayoutSingleColumn {
		t.Errorf("layout = %q", s.LayoutType)
	}
	if s.Paper != PaperA4 {
		t.Errorf("paper = %+v", s.Paper)
	}
}

// 每个字段独立回退：一个非法取值不影响其它字段的解析。
func TestResolveFallbackPerField(t *testing.T) {
	theme := resume.Theme{
		PrimaryColor: "not-a-color",
		FontSize:     "enormous",
		FontWeight:   "bold",
		LineHeight:   "???",
		Spacing:      "compact",
		BorderRadius: "xxl",
		HeaderStyle:  "neon",
		SectionStyle: "flat",
		LayoutType:   "three-column",
		SidebarWidth: "wide",
		PaperSize:    "letter",
	}

	s := Resolve(theme)

	if s.PrimaryColor != "#4f46e5" {
		t.Errorf("invalid color must fall back, got %q", s.PrimaryColor)
	}
	if s.FontSizePx != 16 {
		t.Errorf("invalid font size must fall back, got %d", s.FontSizePx)
	}
	if s.FontWeight != 700 {
		t.Errorf("valid weight must resolve, got %d", s.FontWeight)
	}
	if s.LineHeight != 1.5 {
		t.Errorf("invalid line height must fall back, got %v", s.LineHeight)
	}
	if s.SectionGapPx != 12 {
		t.Errorf("valid spacing must resolve, got %d", s.SectionGapPx)
	}
	if s.RadiusPx != 4 {
		t.Errorf("invalid radius must fall back, got %d", s.RadiusPx)
	}
	if s.HeaderStyle != "modern" {
		t.Errorf("invalid header style must fall back, got %q", s.HeaderStyle)
	}
	if s.SectionStyle != "flat" {
		t.Errorf("valid section style must resolve, got %q", s.SectionStyle)
	}
	if s.LayoutType != resume.LayoutSingleColumn {
		t.Errorf("invalid layout must fall back, got %q", s.LayoutType)
	}
	if s.SidebarWidth != "30%" {
		t.Errorf("invalid sidebar width must fall back, got %q", s.SidebarWidth)
	}
	if s.Paper != PaperLetter {
		t.Errorf("letter paper must resolve, got %+v", s.Paper)
	}
}

func TestResolveFontFamilyStripsInjection(t *testing.T) {
	s := Resolve(resume.Theme{FontFamily: `Roboto"; } body { display:none`})
	for _, banned := range []string{";", "{", "}", `"`} {
		if strings.Contains(s.FontFamily, banned) {
			t.Fatalf("font family contains %q: %q", banned, s.FontFamily)
		}
	}
}

func TestResolvePaper(t *testing.T) {
	cases := map[string]Paper{
		"a4":      PaperA4,
		"A4":      PaperA4,
		"letter":  PaperLetter,
		"legal":   PaperLegal,
		"":        PaperA4,
		"tabloid": PaperA4,
	}
	for name, want := range cases {
		if got := ResolvePaper(name); got != want {
			t.Errorf("ResolvePaper(%q) = %q, want %q", name, got.Name, want.Name)
		}
	}
}

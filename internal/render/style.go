package render

import (
	"regexp"
	"strings"

	"resumecraft/internal/resume"
)

// Paper 描述一种纸张规格。Pt 用于 PDF 坐标（1pt = 1/72in），
// Px 用于浏览器渲染（96 DPI）。
type Paper struct {
	Name     string
	WidthPt  float64
	HeightPt float64
	WidthPx  int
	HeightPx int
}

// 支持的三种纸张。A4 = 210mm x 297mm，Letter = 8.5in x 11in，Legal = 8.5in x 14in。
var (
	PaperA4     = Paper{Name: "a4", WidthPt: 595.28, HeightPt: 841.89, WidthPx: 794, HeightPx: 1123}
	PaperLetter = Paper{Name: "letter", WidthPt: 612, HeightPt: 792, WidthPx: 816, HeightPx: 1056}
	PaperLegal  = Paper{Name: "legal", WidthPt: 612, HeightPt: 1008, WidthPx: 816, HeightPx: 1344}
)

// ResolvedStyle 是主题解析后的具体渲染参数。
type ResolvedStyle struct {
	PrimaryColor      string
	SecondaryColor    string
	AccentColor       string
	TextColor         string
	BackgroundColor   string
	SidebarBackground string
	SidebarText       string

	FontFamily   string
	FontSizePx   int
	FontWeight   int
	LineHeight   float64
	SectionGapPx int
	RadiusPx     int

	HeaderStyle  string
	SectionStyle string

	LayoutType   string
	SidebarWidth string
	Paper        Paper

	CustomCSS string
}

// 每个枚举字段都有一张固定映射表，未知取值回落到表中的默认项。
// 这是刻意的宽容策略：老版本/残缺的主题数据也要能渲染，绝不报错。

var fontSizes = map[string]int{
	"small":  14,
	"medium": 16,
	"large":  18,
}

var fontWeights = map[string]int{
	"light":    300,
	"normal":   400,
	"medium":   500,
	"semibold": 600,
	"bold":     700,
}

var lineHeights = map[string]float64{
	"tight":   1.25,
	"normal":  1.5,
	"relaxed": 1.75,
}

var sectionGaps = map[string]int{
	"compact": 12,
	"normal":  20,
	"relaxed": 32,
}

var borderRadii = map[string]int{
	"none": 0,
	"sm":   2,
	"md":   4,
	"lg":   8,
}

var headerStyles = map[string]bool{
	"simple": true, "modern": true, "classic": true, "minimal": true, "bold": true,
}

var sectionStyles = map[string]bool{
	"card": true, "flat": true, "bordered": true, "minimal": true,
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

var sidebarWidthRe = regexp.MustCompile(`^\d+(\.\d+)?(%|px)$`)

// Resolve 把声明式主题映射为具体渲染参数。纯函数，对任意主题取值都不报错。
func Resolve(theme resume.Theme) ResolvedStyle {
	s := ResolvedStyle{
		PrimaryColor:      color(theme.PrimaryColor, "#4f46e5"),
		SecondaryColor:    color(theme.SecondaryColor, "#818cf8"),
		AccentColor:       color(theme.AccentColor, "#fca5a5"),
		TextColor:         color(theme.TextColor, "#1f2937"),
		BackgroundColor:   color(theme.BackgroundColor, "#ffffff"),
		SidebarBackground: color(theme.SidebarBackgroundColor, "#f3f4f6"),
		SidebarText:       color(theme.SidebarTextColor, "#1f2937"),
		FontFamily:        fontFamily(theme.FontFamily),
		FontSizePx:        lookupInt(fontSizes, theme.FontSize, 16),
		FontWeight:        lookupInt(fontWeights, theme.FontWeight, 400),
		LineHeight:        lookupFloat(lineHeights, theme.LineHeight, 1.5),
		SectionGapPx:      lookupInt(sectionGaps, theme.Spacing, 20),
		RadiusPx:          lookupInt(borderRadii, theme.BorderRadius, 4),
		Paper:             ResolvePaper(theme.PaperSize),
		CustomCSS:         theme.CustomCSS,
	}

	s.HeaderStyle = "modern"
	if headerStyles[theme.HeaderStyle] {
		s.HeaderStyle = theme.HeaderStyle
	}
	s.SectionStyle = "card"
	if sectionStyles[theme.SectionStyle] {
		s.SectionStyle = theme.SectionStyle
	}

	switch theme.LayoutType {
	case resume.LayoutTwoColumnLeft, resume.LayoutTwoColumnRight:
		s.LayoutType = theme.LayoutType
	default:
		s.LayoutType = resume.LayoutSingleColumn
	}

	s.SidebarWidth = "30%"
	if sidebarWidthRe.MatchString(strings.TrimSpace(theme.SidebarWidth)) {
		s.SidebarWidth = strings.TrimSpace(theme.SidebarWidth)
	}

	return s
}

// ResolvePaper 解析纸张规格，未知取值回落到 A4。
func ResolvePaper(name string) Paper {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "letter":
		return PaperLetter
	case "legal":
		return PaperLegal
	default:
		return PaperA4
	}
}

func lookupInt(table map[string]int, key string, fallback int) int {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func lookupFloat(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func color(v, fallback string) string {
	if colorRe.MatchString(strings.TrimSpace(v)) {
		return strings.TrimSpace(v)
	}
	return fallback
}

// fontFamily 允许自由文本，但要防止注入 CSS 分隔符。
func fontFamily(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '"', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
	if v == "" {
		return "Inter"
	}
	return v
}

package export

import (
	"math"
	"testing"

	"resumecraft/internal/render"
)

func TestPageCount(t *testing.T) {
	page := render.PaperA4.HeightPt

	cases := []struct {
		name   string
		height float64
		want   int
	}{
		{"empty image", 0, 1},
		{"half page", page / 2, 1},
		{"exactly one page", page, 1},
		{"just over one page", page + 0.1, 2},
		{"two and a half pages", page * 2.5, 3},
		{"exactly three pages", page * 3, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pageCount(tc.height, page); got != tc.want {
				t.Fatalf("pageCount(%v) = %d, want %d", tc.height, got, tc.want)
			}
		})
	}
}

func TestMapLinksScalesAndPaginates(t *testing.T) {
	paper := render.PaperA4
	// 克隆宽度等于纸张像素宽度，scale = WidthPt/WidthPx
	scale := paper.WidthPt / float64(paper.WidthPx)

	// 第二个链接的像素 Y 对应第 2 页（页高两倍多一点）
	secondPageY := (paper.HeightPt*1.5 + 1) / scale
	geom := Geometry{
		WidthPx: float64(paper.WidthPx),
		Links: []LinkRect{
			{Href: "example.com", X: 100, Y: 50, Width: 120, Height: 16},
			{Href: "jane@example.com", X: 40, Y: secondPageY, Width: 80, Height: 14},
		},
	}

	out := mapLinks(geom, float64(paper.WidthPx), paper, "https://resume.example.com/view/1")

	if len(out) != 2 {
		t.Fatalf("expected 2 links, got %d", len(out))
	}

	first := out[0]
	if first.URL != "https://example.com" {
		t.Errorf("first url = %q", first.URL)
	}
	if first.Page != 0 {
		t.Errorf("first page = %d", first.Page)
	}
	if math.Abs(first.X-100*scale) > 1e-9 {
		t.Errorf("first x = %v, want %v", first.X, 100*scale)
	}

	second := out[1]
	if second.URL != "mailto:jane@example.com" {
		t.Errorf("second url = %q", second.URL)
	}
	if second.Page != 1 {
		t.Errorf("second page = %d, want 1", second.Page)
	}
	// Y 以所在页页首为基准
	if second.Y < 0 || second.Y >= paper.HeightPt {
		t.Errorf("second y = %v out of page range", second.Y)
	}
}

func TestMapLinksSkipsEmptyAndClampsDegenerate(t *testing.T) {
	paper := render.PaperA4
	geom := Geometry{
		WidthPx: float64(paper.WidthPx),
		Links: []LinkRect{
			{Href: "   ", X: 0, Y: 0, Width: 50, Height: 10},
			{Href: "example.com", X: 10, Y: 10, Width: 0, Height: 0},
		},
	}

	out := mapLinks(geom, float64(paper.WidthPx), paper, "")

	if len(out) != 1 {
		t.Fatalf("empty href must be skipped, got %d links", len(out))
	}
	if out[0].Width < minLinkWidthPt || out[0].Height < minLinkHeightPt {
		t.Errorf("degenerate rect not clamped: w=%v h=%v", out[0].Width, out[0].Height)
	}
}

func TestMapLinksZeroWidthGeometry(t *testing.T) {
	out := mapLinks(Geometry{WidthPx: 0, Links: []LinkRect{{Href: "example.com"}}}, 0, render.PaperA4, "")
	if out != nil {
		t.Fatalf("zero width geometry must yield nil, got %v", out)
	}
}

// compact 的 CSS transform 会缩小测量到的根节点宽度，但截图仍是
// 布局宽度。换算必须以栅格图宽度为基准，否则坐标整体偏移。
func TestMapLinksUsesRasterWidthOverMeasuredWidth(t *testing.T) {
	paper := render.PaperA4
	rasterW := float64(paper.WidthPx)
	scale := paper.WidthPt / rasterW

	geom := Geometry{
		// transform: scale(0.95) 生效后的测量宽度
		WidthPx: rasterW * 0.95,
		Links: []LinkRect{
			{Href: "https://example.com", X: 400, Y: 1000, Width: 100, Height: 16},
		},
	}

	out := mapLinks(geom, rasterW, paper, "")
	if len(out) != 1 {
		t.Fatalf("expected 1 link, got %d", len(out))
	}
	if math.Abs(out[0].X-400*scale) > 1e-9 {
		t.Errorf("x = %v, want %v (raster-width scale)", out[0].X, 400*scale)
	}
	if math.Abs(out[0].Y-1000*scale) > 1e-9 {
		t.Errorf("y = %v, want %v (raster-width scale)", out[0].Y, 1000*scale)
	}

	// 栅格宽度缺失时回落到测量宽度，链接仍然可注入。
	fallback := mapLinks(geom, 0, paper, "")
	if len(fallback) != 1 {
		t.Fatalf("expected fallback mapping, got %d links", len(fallback))
	}
	wantX := 400 * paper.WidthPt / geom.WidthPx
	if math.Abs(fallback[0].X-wantX) > 1e-9 {
		t.Errorf("fallback x = %v, want %v", fallback[0].X, wantX)
	}
}

package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"resumecraft/internal/resume"
)

// fakeSurface 在内存中模拟渲染后端，记录每个阶段的调用。
type fakeSurface struct {
	raster []byte
	geom   Geometry

	loadedHTML   string
	loadedWidth  int
	loadedHeight int
	injected     []string
	settled      bool
	closed       bool

	// blockLoad 非 nil 时 Load 阻塞直到通道关闭，用于并发测试；
	// loadStarted 在进入 Load 时关闭一次。
	blockLoad   chan struct{}
	loadStarted chan struct{}
}

func (s *fakeSurface) Load(ctx context.Context, html string, widthPx, heightPx int) error {
	if s.loadStarted != nil {
		close(s.loadStarted)
		s.loadStarted = nil
	}
	if s.blockLoad != nil {
		select {
		case <-s.blockLoad:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.loadedHTML = html
	s.loadedWidth = widthPx
	s.loadedHeight = heightPx
	return nil
}

func (s *fakeSurface) AwaitFonts(context.Context) error { return nil }

func (s *fakeSurface) InjectStyle(_ context.Context, css string) error {
	s.injected = append(s.injected, css)
	return nil
}

func (s *fakeSurface) Settle(context.Context) error {
	s.settled = true
	return nil
}

func (s *fakeSurface) Measure(context.Context) (Geometry, error) {
	return s.geom, nil
}

func (s *fakeSurface) Rasterize(context.Context) ([]byte, error) {
	return s.raster, nil
}

func (s *fakeSurface) Close() error {
	s.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func testDocument() *resume.Document {
	doc := resume.NewDocument("Jane Resume")
	doc.Sections = resume.UpdateSection(doc.Sections, doc.Sections[0].ID, func(s resume.Section) resume.Section {
		s.Data = resume.PersonalInfoData{Name: "Jane Doe"}
		return s
	})
	return doc
}

func newTestExporter(surface *fakeSurface) *Exporter {
	return NewExporter(func() (Surface, error) { return surface, nil }, testLogger())
}

func TestExportSuccess(t *testing.T) {
	surface := &fakeSurface{
		raster: testPNG(t, 794, 2300),
		geom: Geometry{
			WidthPx:  794,
			HeightPx: 2300,
			Links: []LinkRect{
				{Href: "example.com", X: 10, Y: 20, Width: 100, Height: 14},
			},
		},
	}
	exporter := newTestExporter(surface)

	result, err := exporter.Export(context.Background(), testDocument(), Options{BaseURL: "https://resume.example.com"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if !bytes.HasPrefix(result.PDF, []byte("%PDF")) {
		t.Error("output is not a pdf")
	}
	if result.Filename != "Jane Resume.pdf" {
		t.Errorf("filename = %q", result.Filename)
	}
	if result.Fallback {
		t.Error("unexpected fallback")
	}
	if result.PageCount < 2 {
		t.Errorf("tall raster must span multiple pages, got %d", result.PageCount)
	}
	if result.LinkCount != 1 {
		t.Errorf("link count = %d", result.LinkCount)
	}
	if len(result.Raster) == 0 {
		t.Error("raster must be carried in the result")
	}
	if !surface.closed {
		t.Error("surface must be closed after export")
	}
	if !surface.settled {
		t.Error("settle stage skipped")
	}
	if surface.loadedHTML == "" || !strings.Contains(surface.loadedHTML, "resume-root") {
		t.Error("rendered html not loaded into surface")
	}
	// 视口必须锁定为纸张像素尺寸（A4），截图与坐标换算共用基准
	if surface.loadedWidth != 794 || surface.loadedHeight != 1123 {
		t.Errorf("viewport = %dx%d, want 794x1123", surface.loadedWidth, surface.loadedHeight)
	}
	// 尺寸锁定与链接样式必须注入
	if len(surface.injected) != 2 {
		t.Fatalf("expected 2 injected styles, got %d", len(surface.injected))
	}
}

func TestExportCompactInjectsTransform(t *testing.T) {
	surface := &fakeSurface{
		raster: testPNG(t, 794, 1100),
		geom:   Geometry{WidthPx: 794, HeightPx: 1100},
	}
	exporter := newTestExporter(surface)

	_, err := exporter.Export(context.Background(), testDocument(), Options{Compact: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if len(surface.injected) != 3 {
		t.Fatalf("compact export must inject 3 styles, got %d", len(surface.injected))
	}
	var found bool
	for _, css := range surface.injected {
		if strings.Contains(css, "scale(") {
			found = true
		}
	}
	if !found {
		t.Error("compact css with transform scale missing")
	}
}

func TestExportNoContent(t *testing.T) {
	exporter := newTestExporter(&fakeSurface{})

	doc := testDocument()
	doc.Sections = nil
	if _, err := exporter.Export(context.Background(), doc, Options{}); !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
	if _, err := exporter.Export(context.Background(), nil, Options{}); !errors.Is(err, ErrNoContent) {
		t.Fatalf("nil doc err = %v, want ErrNoContent", err)
	}
}

func TestExportRejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	blocking := &fakeSurface{
		raster:      testPNG(t, 794, 500),
		geom:        Geometry{WidthPx: 794, HeightPx: 500},
		blockLoad:   release,
		loadStarted: started,
	}
	exporter := newTestExporter(blocking)

	doc := testDocument()
	done := make(chan error, 1)
	go func() {
		_, err := exporter.Export(context.Background(), doc, Options{})
		done <- err
	}()

	// 等首个导出进入 Load 阻塞后再发起第二次
	<-started
	if _, err := exporter.Export(context.Background(), doc, Options{}); !errors.Is(err, ErrExportInFlight) {
		t.Fatalf("second export err = %v, want ErrExportInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	// 完成后同一文档可以再次导出
	fresh := &fakeSurface{raster: testPNG(t, 794, 500), geom: Geometry{WidthPx: 794, HeightPx: 500}}
	exporter2 := NewExporter(func() (Surface, error) { return fresh, nil }, testLogger())
	if _, err := exporter2.Export(context.Background(), doc, Options{}); err != nil {
		t.Fatalf("re-export after completion: %v", err)
	}
}

func TestExportFallbackOnBadRaster(t *testing.T) {
	surface := &fakeSurface{
		raster: []byte("definitely not a png"),
		geom:   Geometry{WidthPx: 794, HeightPx: 500},
	}
	exporter := newTestExporter(surface)

	result, err := exporter.Export(context.Background(), testDocument(), Options{})
	if err != nil {
		t.Fatalf("fallback path must still deliver a file: %v", err)
	}

	if !result.Fallback {
		t.Fatal("expected fallback result")
	}
	if !bytes.HasPrefix(result.PDF, []byte("%PDF")) {
		t.Error("fallback output is not a pdf")
	}
	if result.Filename != "Jane Resume_error.pdf" {
		t.Errorf("fallback filename = %q", result.Filename)
	}
	if result.PageCount != 1 {
		t.Errorf("fallback page count = %d", result.PageCount)
	}
	if !surface.closed {
		t.Error("surface must be closed on fallback path")
	}
}

func TestExportSurfaceFactoryFailure(t *testing.T) {
	exporter := NewExporter(func() (Surface, error) {
		return nil, errors.New("chromium not found")
	}, testLogger())

	if _, err := exporter.Export(context.Background(), testDocument(), Options{}); err == nil {
		t.Fatal("expected error when surface factory fails")
	}

	// busy 标记必须被释放，后续导出可重试
	surface := &fakeSurface{raster: testPNG(t, 794, 500), geom: Geometry{WidthPx: 794, HeightPx: 500}}
	exporter2 := newTestExporter(surface)
	doc := testDocument()
	if _, err := exporter2.Export(context.Background(), doc, Options{}); err != nil {
		t.Fatalf("export after factory failure: %v", err)
	}
}

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Geometry 是对克隆页面的一次测量：根节点的像素尺寸与
// 全部链接节点相对根节点原点的矩形。
type Geometry struct {
	WidthPx  float64    `json:"widthPx"`
	HeightPx float64    `json:"heightPx"`
	Links    []LinkRect `json:"links"`
}

// LinkRect 是单个链接节点的原始 href 与像素矩形。
type LinkRect struct {
	Href   string  `json:"href"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Surface 抽象导出管线依赖的渲染后端：加载 HTML、等字体、注入样式、
// 等布局稳定、测量几何、栅格化。管线本身只是对它的纯编排，
// 测试用内存假实现即可覆盖。
type Surface interface {
	// Load 装载 HTML 并把视口固定为纸张像素尺寸。
	// 截图宽度必须等于纸张像素宽度，否则坐标换算没有统一基准。
	Load(ctx context.Context, html string, widthPx, heightPx int) error
	AwaitFonts(ctx context.Context) error
	InjectStyle(ctx context.Context, css string) error
	Settle(ctx context.Context) error
	Measure(ctx context.Context) (Geometry, error)
	Rasterize(ctx context.Context) ([]byte, error)
	Close() error
}

// SurfaceFactory 为每次导出创建独立的 Surface。
// 离屏页面由单次导出独占，Stage I 之后不再被引用。
type SurfaceFactory func() (Surface, error)

// rodSurface 用无头 Chromium 实现 Surface。
type rodSurface struct {
	logger  *slog.Logger
	launch  *launcher.Launcher
	browser *rod.Browser
	page    *rod.Page

	// 样式注入后等待排版收敛的固定延迟。没有可靠的"布局完成"信号，
	// 这是已知的近似做法。
	settleDelay time.Duration
}

// NewRodSurface 启动无头 Chromium 并返回渲染后端。
func NewRodSurface(logger *slog.Logger, settleDelay time.Duration) (Surface, error) {
	if settleDelay <= 0 {
		settleDelay = 300 * time.Millisecond
	}

	launch := launcher.New().
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browser := rod.New().ControlURL(browserURL).Timeout(90 * time.Second)
	if err := browser.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		launch.Cleanup()
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &rodSurface{
		logger:      logger,
		launch:      launch,
		browser:     browser,
		page:        page,
		settleDelay: settleDelay,
	}, nil
}

func (s *rodSurface) Load(ctx context.Context, html string, widthPx, heightPx int) error {
	page := s.page.Context(ctx)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             widthPx,
		Height:            heightPx,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

// AwaitFonts 等待 WebFont/系统字体就绪，避免回退字体度量导致排版差异。
// 字体获取是尽力而为：超时或失败只记日志，不中断导出。
func (s *rodSurface) AwaitFonts(ctx context.Context) error {
	page := s.page.Context(ctx).Timeout(5 * time.Second)
	_, err := page.Eval(`() => {
	  if (document && document.fonts && document.fonts.ready) {
	    return Promise.race([
	      document.fonts.ready.then(() => true),
	      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
	    ]);
	  }
	  return true;
	}`)
	if err != nil {
		s.logger.Warn("document.fonts.ready wait failed, continue", slog.Any("error", err))
	}
	return nil
}

func (s *rodSurface) InjectStyle(ctx context.Context, css string) error {
	page := s.page.Context(ctx)
	if err := page.AddStyleTag("", css); err != nil {
		return fmt.Errorf("inject style: %w", err)
	}
	return nil
}

func (s *rodSurface) Settle(ctx context.Context) error {
	page := s.page.Context(ctx)
	if err := page.WaitIdle(10 * time.Second); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	select {
	case <-time.After(s.settleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

const measureScript = `() => {
  const root = document.getElementById('resume-root');
  if (!root) {
    return JSON.stringify({ widthPx: 0, heightPx: 0, links: [] });
  }
  const origin = root.getBoundingClientRect();
  const links = Array.from(root.querySelectorAll('a[href]')).map((a) => {
    const r = a.getBoundingClientRect();
    return {
      href: a.getAttribute('href') || '',
      x: r.left - origin.left,
      y: r.top - origin.top,
      width: r.width,
      height: r.height,
    };
  });
  return JSON.stringify({
    widthPx: origin.width,
    heightPx: Math.max(origin.height, root.scrollHeight),
    links,
  });
}`

func (s *rodSurface) Measure(ctx context.Context) (Geometry, error) {
	page := s.page.Context(ctx).Timeout(10 * time.Second)
	obj, err := page.Eval(measureScript)
	if err != nil {
		return Geometry{}, fmt.Errorf("measure clone geometry: %w", err)
	}

	var geom Geometry
	if err := json.Unmarshal([]byte(obj.Value.Str()), &geom); err != nil {
		return Geometry{}, fmt.Errorf("decode clone geometry: %w", err)
	}
	return geom, nil
}

func (s *rodSurface) Rasterize(ctx context.Context) ([]byte, error) {
	page := s.page.Context(ctx)
	req := &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	}
	data, err := page.Screenshot(true, req)
	if err != nil {
		return nil, fmt.Errorf("rasterize page: %w", err)
	}
	return data, nil
}

func (s *rodSurface) Close() error {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launch != nil {
		s.launch.Cleanup()
	}
	return nil
}

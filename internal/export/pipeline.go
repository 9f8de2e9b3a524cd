// Package export 实现 PDF 导出管线：快照 → 尺寸锁定 → 紧凑变换 →
// 链接准备 → 栅格化 → 几何采集 → 分页 → 链接注入 → 收尾。
// 各阶段严格单向，无回环；失败尽量就地恢复（单链接 > 单阶段 > 全局）。
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"sync"
	"time"

	"resumecraft/internal/metrics"
	"resumecraft/internal/render"
	"resumecraft/internal/resume"
)

// Stage 是管线状态机的状态。每次导出从 Idle 出发，
// 失败进入 Failed 后清理并回到 Idle；单次调用内没有重试。
type Stage string

const (
	StageIdle         Stage = "idle"
	StageSnapshotting Stage = "snapshotting"
	StageTransforming Stage = "transforming"
	StageRasterizing  Stage = "rasterizing"
	StagePaginating   Stage = "paginating"
	StageFinalizing   Stage = "finalizing"
	StageFailed       Stage = "failed"
)

var (
	// ErrNoContent 表示没有可导出的内容。这是 no-op 条件而非错误：
	// 调用方应静默跳过，不产出文件也不提示失败。
	ErrNoContent = errors.New("nothing to export")

	// ErrExportInFlight 表示同一文档已有导出在进行中。
	ErrExportInFlight = errors.New("export already in flight")
)

// Options 是单次导出的调用方参数。
type Options struct {
	// Compact 开启紧凑模式（Stage C 的调用方开关）。
	Compact bool
	// CompactOptions 为零值时使用 DefaultCompactOptions。
	CompactOptions CompactOptions
	// BaseURL 用于把锚点链接补全为绝对地址。
	BaseURL string
}

// Result 是一次成功导出的产物。
type Result struct {
	PDF      []byte
	Filename string
	// Raster 是整页栅格图（PNG），调用方可用作预览图。
	Raster    []byte
	PageCount int
	LinkCount int
	// Fallback 为真表示图像嵌入失败，产出的是降级的纯文本文件。
	Fallback bool
}

// Exporter 驱动导出管线。每次导出独占一个新建的 Surface；
// 同一文档同时只允许一次导出（busy 标记），没有取消机制，
// 进行中的导出只能跑到完成或失败。
type Exporter struct {
	newSurface SurfaceFactory
	logger     *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewExporter 构造导出器。
func NewExporter(factory SurfaceFactory, logger *slog.Logger) *Exporter {
	return &Exporter{
		newSurface: factory,
		logger:     logger,
		inFlight:   make(map[string]struct{}),
	}
}

// Export 执行一次完整导出。清理（Surface 关闭、busy 释放）在任何
// 退出路径上都无条件执行；任何逃逸的异常都在这里收口成 error。
func (e *Exporter) Export(ctx context.Context, doc *resume.Document, opts Options) (result *Result, err error) {
	// 前置条件：没有渲染源就静默跳过，任何阶段都不启动。
	if doc == nil || len(doc.Sections) == 0 {
		return nil, ErrNoContent
	}

	if !e.acquire(doc.ID) {
		return nil, ErrExportInFlight
	}
	start := time.Now()
	stage := StageIdle

	defer func() {
		e.release(doc.ID)
		if r := recover(); r != nil {
			err = fmt.Errorf("export pipeline panic at %s: %v", stage, r)
		}
		outcome := "completed"
		switch {
		case err != nil:
			outcome = "failed"
		case result != nil && result.Fallback:
			outcome = "fallback"
		}
		metrics.ObserveExport(outcome, time.Since(start))
	}()

	log := e.logger.With(slog.String("document_id", doc.ID))

	html, style, err := render.Document(doc)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	surface, err := e.newSurface()
	if err != nil {
		return nil, fmt.Errorf("create render surface: %w", err)
	}
	defer func() {
		if closeErr := surface.Close(); closeErr != nil {
			log.Warn("close render surface failed", slog.Any("error", closeErr))
		}
	}()

	// Stage A：把渲染结果装载进独立的离屏页面，与线上界面完全隔离。
	// 视口锁定为纸张像素尺寸，截图宽度与坐标换算共用同一基准。
	stage = e.enter(log, StageSnapshotting)
	if err := surface.Load(ctx, html, style.Paper.WidthPx, style.Paper.HeightPx); err != nil {
		return nil, e.fail(log, stage, err)
	}
	_ = surface.AwaitFonts(ctx)

	// Stage B：盒子锁定为纸张物理尺寸。
	if err := surface.InjectStyle(ctx, dimensionLockCSS(style.Paper)); err != nil {
		return nil, e.fail(log, stage, err)
	}

	// Stage C + D：紧凑变换与链接样式，注入后等待排版收敛再测量。
	stage = e.enter(log, StageTransforming)
	if opts.Compact {
		compact := opts.CompactOptions
		if compact == (CompactOptions{}) {
			compact = DefaultCompactOptions()
		}
		if err := surface.InjectStyle(ctx, compact.CSS(style)); err != nil {
			return nil, e.fail(log, stage, err)
		}
	}
	if err := surface.InjectStyle(ctx, linkStyleCSS); err != nil {
		return nil, e.fail(log, stage, err)
	}
	if err := surface.Settle(ctx); err != nil {
		return nil, e.fail(log, stage, err)
	}

	// Stage E + F：先栅格化，再在丢弃克隆前采集几何。
	stage = e.enter(log, StageRasterizing)
	raster, err := surface.Rasterize(ctx)
	if err != nil {
		return nil, e.fail(log, stage, err)
	}
	geom, err := surface.Measure(ctx)
	if err != nil {
		return nil, e.fail(log, stage, err)
	}

	// Stage G + H：分页与链接注入。链接换算基准取栅格图的实际宽度，
	// 与 PDF 里图像的放置比例保持一致；解不出图头时回落到测量宽度。
	stage = e.enter(log, StagePaginating)
	rasterWidth := 0.0
	if cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(raster)); cfgErr == nil {
		rasterWidth = float64(cfg.Width)
	}
	linkRects := mapLinks(geom, rasterWidth, style.Paper, opts.BaseURL)
	meta := metadataFor(doc)

	pdfBytes, pages, assembleErr := assemble(raster, linkRects, style.Paper, meta, log)

	// Stage I：收尾。组装失败走降级文件，保证总有产物交付。
	stage = e.enter(log, StageFinalizing)
	result = &Result{
		Raster:    raster,
		LinkCount: len(linkRects),
	}
	if assembleErr != nil {
		log.Error("pdf assembly failed, delivering fallback file", slog.Any("error", assembleErr))
		fb := fallbackPDF(meta, log)
		if fb == nil {
			return nil, e.fail(log, stage, assembleErr)
		}
		result.PDF = fb
		result.PageCount = 1
		result.Fallback = true
		result.Filename = doc.Name + "_error.pdf"
	} else {
		result.PDF = pdfBytes
		result.PageCount = pages
		result.Filename = doc.Name + ".pdf"
	}

	log.Info("export completed",
		slog.Int("pages", result.PageCount),
		slog.Int("links", result.LinkCount),
		slog.Bool("fallback", result.Fallback),
		slog.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (e *Exporter) enter(log *slog.Logger, s Stage) Stage {
	log.Debug("export stage", slog.String("stage", string(s)))
	return s
}

func (e *Exporter) fail(log *slog.Logger, s Stage, err error) error {
	log.Error("export stage failed",
		slog.String("stage", string(s)),
		slog.Any("error", err),
	)
	return fmt.Errorf("%s: %w", s, err)
}

func (e *Exporter) acquire(docID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[docID]; busy {
		return false
	}
	e.inFlight[docID] = struct{}{}
	return true
}

func (e *Exporter) release(docID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, docID)
}

func metadataFor(doc *resume.Document) Metadata {
	meta := Metadata{
		Title:   doc.Name,
		Author:  "resumecraft",
		Subject: "Resume",
	}
	for _, s := range doc.Sections {
		if info, ok := s.Data.(resume.PersonalInfoData); ok && info.Name != "" {
			meta.Author = info.Name
			break
		}
	}
	return meta
}

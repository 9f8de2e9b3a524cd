package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jung-kurt/gofpdf"

	"resumecraft/internal/render"
)

// Metadata 写入 PDF 文档信息。Author 取自 personalInfo 段落的姓名。
type Metadata struct {
	Title   string
	Author  string
	Subject string
}

const pdfCreator = "resumecraft"

// assemble 把整张栅格图按页切片组装为 PDF 并注入链接矩形。
// 图像在每一页放置同一份，仅纵向偏移 -page*pageHeight，
// 让每页窗口露出不同的切片（不做真正的图像裁剪）。
func assemble(raster []byte, linkRects []LinkPosition, paper render.Paper, meta Metadata, logger *slog.Logger) ([]byte, int, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: paper.WidthPt, Ht: paper.HeightPt},
	})
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(pdfCreator, true)
	pdf.SetAutoPageBreak(false, 0)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("resume", opts, bytes.NewReader(raster))
	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("register raster image: %w", err)
	}
	if info == nil || info.Width() <= 0 {
		return nil, 0, fmt.Errorf("raster image has no extent")
	}

	// 等比缩放到纸张宽度；高宽比与单位无关，直接用注册信息换算。
	scaledW := paper.WidthPt
	scaledH := info.Height() * paper.WidthPt / info.Width()
	pages := pageCount(scaledH, paper.HeightPt)
	offsetX := (paper.WidthPt - scaledW) / 2

	for page := 0; page < pages; page++ {
		pdf.AddPage()
		pdf.ImageOptions("resume", offsetX, -float64(page)*paper.HeightPt, scaledW, scaledH, false, opts, 0, "")

		for _, l := range linkRects {
			if l.Page != page {
				continue
			}
			injectLink(pdf, l, offsetX, logger)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("place raster pages: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("serialize pdf: %w", err)
	}
	return buf.Bytes(), pages, nil
}

// injectLink 注入单个可点击矩形。单个链接失败只记日志并跳过，
// 绝不让整次导出失败。
func injectLink(pdf *gofpdf.Fpdf, l LinkPosition, offsetX float64, logger *slog.Logger) {
	if _, err := url.Parse(l.URL); err != nil {
		logger.Warn("skip malformed link",
			slog.String("url", l.URL),
			slog.Int("page", l.Page),
			slog.Any("error", err),
		)
		return
	}
	pdf.LinkString(l.X+offsetX, l.Y, l.Width, l.Height, l.URL)
}

// fallbackPDF 在图像嵌入失败时产出单页纯文本的降级文件，
// 保证用户总能拿到一个文件而不是一无所获。
func fallbackPDF(meta Metadata, logger *slog.Logger) []byte {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator(pdfCreator, true)
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.MultiCell(0, 16,
		"We could not render your resume as an image this time.\n"+
			"Please try exporting again. If the problem persists, try a different paper size or disable compact mode.",
		"", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		// 降级文件也失败，只能空手而归。
		logger.Error("serialize fallback pdf failed", slog.Any("error", err))
		return nil
	}
	return buf.Bytes()
}

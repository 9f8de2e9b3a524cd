package export

import (
	"math"

	"resumecraft/internal/links"
	"resumecraft/internal/render"
)

// LinkPosition 是导出过程中的临时记录：某个链接在 PDF 页面坐标系
// （pt，缩放后）里的矩形与所属页码。每次导出重新计算，从不持久化。
type LinkPosition struct {
	URL    string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Page   int
}

// 退化矩形（测量宽高为 0）也要保持可点击，注入时夹到这个下限。
const (
	minLinkWidthPt  = 6.0
	minLinkHeightPt = 6.0
)

// pageCount 计算缩放后的图像需要多少页。空图像也至少产出一页。
func pageCount(scaledImageHeightPt, pageHeightPt float64) int {
	if scaledImageHeightPt <= pageHeightPt {
		return 1
	}
	return int(math.Ceil(scaledImageHeightPt / pageHeightPt))
}

// mapLinks 把克隆页面像素坐标下的链接矩形换算到 PDF 页面坐标。
// 换算比例 = 纸张宽度(pt) / 栅格图宽度(px)，等比缩放；
// 页码 = floor(scaledY / pageHeight)，Y 重新以所在页页首为基准。
// 矩形必须是变换后（compact 生效后）的测量值：getBoundingClientRect
// 与截图都反映变换后的视觉位置，二者共享同一坐标系。
// 比例基准必须是栅格图宽度而不是根节点的测量宽度：CSS transform
// 会缩小测量矩形但不改变布局尺寸，截图捕获的是布局尺寸，
// PDF 里图像也按栅格图自身宽高放置——栅格图是唯一的换算基准。
func mapLinks(geom Geometry, rasterWidthPx float64, paper render.Paper, baseURL string) []LinkPosition {
	widthPx := rasterWidthPx
	if widthPx <= 0 {
		widthPx = geom.WidthPx
	}
	if widthPx <= 0 || len(geom.Links) == 0 {
		return nil
	}

	scale := paper.WidthPt / widthPx
	out := make([]LinkPosition, 0, len(geom.Links))
	for _, r := range geom.Links {
		url := links.Normalize(r.Href, baseURL)
		if url == "" {
			continue
		}

		scaledY := r.Y * scale
		page := int(math.Floor(scaledY / paper.HeightPt))
		if page < 0 {
			page = 0
		}

		out = append(out, LinkPosition{
			URL:    url,
			X:      r.X * scale,
			Y:      scaledY - float64(page)*paper.HeightPt,
			Width:  math.Max(r.Width*scale, minLinkWidthPt),
			Height: math.Max(r.Height*scale, minLinkHeightPt),
			Page:   page,
		})
	}
	return out
}

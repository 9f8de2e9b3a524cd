package export

import (
	"fmt"

	"resumecraft/internal/render"
)

// CompactOptions 是紧凑模式的样式收紧参数。这些常数来自人工调参，
// 不是从内容测量推导出来的；保持默认值即可复现既有行为，
// 调用方也可以按需覆盖。
type CompactOptions struct {
	// Scale 是整体等比缩小系数。
	Scale float64
	// LineHeight 收紧后的行高。
	LineHeight float64
	// FontScale 正文字号缩小系数（标题另有 HeadingFontScale）。
	FontScale        float64
	HeadingFontScale float64
	// SectionGapPx 收紧后的段落间距。
	SectionGapPx int
	// SidebarShrink 侧栏宽度乘以该系数。
	SidebarShrink float64
	// MainPaddingPx 收紧后的主栏内边距。
	MainPaddingPx int
}

// DefaultCompactOptions 返回与原始调参一致的默认值。
func DefaultCompactOptions() CompactOptions {
	return CompactOptions{
		Scale:            0.95,
		LineHeight:       1.2,
		FontScale:        0.9,
		HeadingFontScale: 0.95,
		SectionGapPx:     4,
		SidebarShrink:    0.9,
		MainPaddingPx:    20,
	}
}

// CSS 生成紧凑模式注入的样式表：整体缩放、收紧文本节点的
// 行高与边距、压缩段落容器、按比例收窄侧栏与主栏内边距。
// 这是确定性的、与主题无关的兜底变换，不是真正的内容自适应分页。
func (o CompactOptions) CSS(style render.ResolvedStyle) string {
	sidebarWidth := fmt.Sprintf("calc(%s * %.2f)", style.SidebarWidth, o.SidebarShrink)

	return fmt.Sprintf(`
#resume-root {
  transform: scale(%.2f);
  transform-origin: top left;
}
#resume-root p, #resume-root span, #resume-root h1, #resume-root h2,
#resume-root h3, #resume-root h4, #resume-root h5, #resume-root h6,
#resume-root div, #resume-root li, #resume-root a {
  line-height: %.2f !important;
  letter-spacing: 0 !important;
  margin-top: 0 !important;
  margin-bottom: 0 !important;
}
#resume-root h1, #resume-root h2, #resume-root h3 {
  font-size: calc(1em * %.2f) !important;
  margin-top: 3px !important;
  margin-bottom: 2px !important;
}
#resume-root .resume-section {
  margin-bottom: %dpx !important;
  padding-top: 2px !important;
  padding-bottom: 2px !important;
}
#resume-root .main-column {
  padding: %dpx !important;
}
#resume-root .sidebar-column {
  width: %s !important;
}
#resume-root .entry-list p, #resume-root .entry-list li {
  font-size: calc(1em * %.2f) !important;
}
`, o.Scale, o.LineHeight, o.HeadingFontScale, o.SectionGapPx, o.MainPaddingPx, sidebarWidth, o.FontScale)
}

// linkStyleCSS 在栅格化前给链接烘焙统一的可点击观感：截图只保留
// 视觉信息，下划线与颜色必须在此前生效；inline-block 保证测量
// 得到单一矩形（inline 元素可能被拆成多段矩形）。
const linkStyleCSS = `
#resume-root a {
  display: inline-block;
  text-decoration: underline;
  font-weight: bold;
  word-break: break-all;
  padding: 1px;
  margin: 0;
}
`

// dimensionLockCSS 把克隆页面的盒子锁定为纸张物理尺寸，
// 关闭横向溢出，让后续测量有确定的参考框。高度随内容增长，
// 超出一页的部分由分页阶段切片。
func dimensionLockCSS(paper render.Paper) string {
	return fmt.Sprintf(`
html, body { overflow-x: hidden !important; }
#resume-root {
  width: %dpx !important;
  min-height: %dpx !important;
  overflow-x: hidden !important;
}
`, paper.WidthPx, paper.HeightPx)
}

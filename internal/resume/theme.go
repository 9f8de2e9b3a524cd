package resume

// Theme 描述一份文档的全部视觉/布局配置。
// 枚举字段的取值不做强校验：渲染端对未知取值回落到默认值，
// 保证旧版或不完整的主题数据仍然可渲染。
type Theme struct {
	PrimaryColor           string   `json:"primaryColor"`
	SecondaryColor         string   `json:"secondaryColor"`
	AccentColor            string   `json:"accentColor"`
	TextColor              string   `json:"textColor"`
	BackgroundColor        string   `json:"backgroundColor"`
	SidebarBackgroundColor string   `json:"sidebarBackgroundColor"`
	SidebarTextColor       string   `json:"sidebarTextColor"`
	FontFamily             string   `json:"fontFamily"`
	FontSize               string   `json:"fontSize"`
	FontWeight             string   `json:"fontWeight"`
	LineHeight             string   `json:"lineHeight"`
	BorderRadius           string   `json:"borderRadius"`
	Spacing                string   `json:"spacing"`
	PaperSize              string   `json:"paperSize"`
	LayoutType             string   `json:"layoutType"`
	SidebarWidth           string   `json:"sidebarWidth"`
	SidebarSections        []string `json:"sidebarSections"`
	HeaderStyle            string   `json:"headerStyle"`
	SectionStyle           string   `json:"sectionStyle"`
	// CustomCSS 原样注入且在所有计算样式之后生效，是不做校验的逃生通道。
	CustomCSS string `json:"customCSS"`
}

// 布局类型取值。sidebar 相关字段仅在非单栏布局下有意义。
const (
	LayoutSingleColumn   = "single-column"
	LayoutTwoColumnLeft  = "two-column-left"
	LayoutTwoColumnRight = "two-column-right"
)

// DefaultTheme 返回新文档的初始主题。
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:           "#4f46e5",
		SecondaryColor:         "#818cf8",
		AccentColor:            "#fca5a5",
		TextColor:              "#1f2937",
		BackgroundColor:        "#ffffff",
		SidebarBackgroundColor: "#f3f4f6",
		SidebarTextColor:       "#1f2937",
		FontFamily:             "Inter",
		FontSize:               "medium",
		FontWeight:             "normal",
		LineHeight:             "normal",
		BorderRadius:           "md",
		Spacing:                "normal",
		PaperSize:              "a4",
		LayoutType:             LayoutSingleColumn,
		SidebarWidth:           "30%",
		HeaderStyle:            "modern",
		SectionStyle:           "card",
	}
}

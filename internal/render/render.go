// Package render 把简历文档渲染为用于预览与 PDF 导出的 HTML 页面。
package render

import (
	"fmt"
	"html/template"
	"strings"

	"resumecraft/internal/links"
	"resumecraft/internal/resume"
)

var funcMap = template.FuncMap{
	// href 把用户随手填写的链接文本规范化成完整 URI 再放进 href 属性。
	// 必须在模板层做：html/template 的 URL 上下文会把原始文本转义
	// （电话里的 "+"、空格、括号），甚至把 tel: 整体改写成 #ZgotmplZ，
	// 导出时再规范化就来不及了。锚点留给导出阶段用 baseURL 补全，
	// Normalize 是幂等的，二次处理不会改变已规范化的值。
	"href": func(s string) template.URL { return template.URL(links.Normalize(s, "")) },
	// safeHTML 用于 custom 段落的富文本。与前端编辑器的约定一致，
	// 内容在入库前已做过清洗。
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	// safeCSS 用于主题的自定义样式覆盖，按约定原样注入且最后生效。
	"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	// nonEmpty 过滤列表中的空白条目；新建条目的单个空白占位
	// 不应该渲染成一个空 bullet。
	"nonEmpty": func(items []string) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			if strings.TrimSpace(it) != "" {
				out = append(out, it)
			}
		}
		return out
	},
}

var (
	pageTpl  = template.Must(template.New("page").Funcs(funcMap).Parse(pageTemplate))
	shellTpl = template.Must(template.New("shell").Funcs(funcMap).Parse(sectionShell))
	bodyTpls = func() map[string]*template.Template {
		m := make(map[string]*template.Template, len(sectionTemplates))
		for name, text := range sectionTemplates {
			m[name] = template.Must(template.New(name).Funcs(funcMap).Parse(text))
		}
		return m
	}()
)

type pageContext struct {
	Style        ResolvedStyle
	CustomCSS    string
	TwoColumn    bool
	SidebarLeft  bool
	SidebarRight bool
	Main         []template.HTML
	Sidebar      []template.HTML
}

// Document 渲染整份文档：解析主题、分栏、逐段落渲染子树并组装页面。
func Document(doc *resume.Document) (string, ResolvedStyle, error) {
	style := Resolve(doc.Theme)
	cols := resume.Partition(doc.Sections, doc.Theme)

	ctx := pageContext{
		Style:        style,
		CustomCSS:    style.CustomCSS,
		TwoColumn:    style.LayoutType != resume.LayoutSingleColumn,
		SidebarLeft:  style.LayoutType == resume.LayoutTwoColumnLeft,
		SidebarRight: style.LayoutType == resume.LayoutTwoColumnRight,
	}

	for _, s := range cols.Main {
		html, err := Section(s, style)
		if err != nil {
			return "", style, err
		}
		ctx.Main = append(ctx.Main, html)
	}
	for _, s := range cols.Sidebar {
		html, err := Section(s, style)
		if err != nil {
			return "", style, err
		}
		ctx.Sidebar = append(ctx.Sidebar, html)
	}

	var buf strings.Builder
	if err := pageTpl.Execute(&buf, ctx); err != nil {
		return "", style, fmt.Errorf("render page: %w", err)
	}
	return buf.String(), style, nil
}

type shellContext struct {
	ID        string
	Type      resume.SectionType
	Title     string
	ShowTitle bool
	Body      template.HTML
}

// Section 渲染单个段落为 HTML 子树。对全部十一种类型保持全覆盖：
// 空载荷渲染占位文案，未知类型渲染 unsupported 占位，永不报错失败。
func Section(s resume.Section, style ResolvedStyle) (template.HTML, error) {
	name, data := variant(s.Data)

	tpl, ok := bodyTpls[name]
	if !ok {
		tpl = bodyTpls["unsupported"]
		data = nil
	}

	var body strings.Builder
	if err := tpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render section %q (%s): %w", s.ID, s.Type, err)
	}

	var buf strings.Builder
	err := shellTpl.Execute(&buf, shellContext{
		ID:    s.ID,
		Type:  s.Type,
		Title: s.Title,
		// personalInfo 自带姓名大标题，不重复渲染段落标题。
		ShowTitle: s.Type != resume.TypePersonalInfo,
		Body:      template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("render section shell %q: %w", s.ID, err)
	}
	return template.HTML(buf.String()), nil
}

func variant(data resume.SectionData) (string, any) {
	switch d := data.(type) {
	case resume.PersonalInfoData:
		return "personalInfo", d
	case resume.ExperienceData:
		return "experience", d
	case resume.EducationData:
		return "education", d
	case resume.SkillsData:
		return "skills", d
	case resume.LanguagesData:
		return "languages", d
	case resume.ProjectsData:
		return "projects", d
	case resume.CertificationsData:
		return "certifications", d
	case resume.ReferencesData:
		return "references", d
	case resume.AwardsData:
		return "awards", d
	case resume.PublicationsData:
		return "publications", d
	case resume.CustomData:
		return "custom", d
	default:
		return "unsupported", nil
	}
}

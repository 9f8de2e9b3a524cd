package render

import (
	"strings"
	"testing"

	"resumecraft/internal/resume"
)

func TestSectionRendersEveryKnownType(t *testing.T) {
	style := Resolve(resume.DefaultTheme())

	for _, typ := range resume.KnownSectionTypes() {
		s := resume.Section{
			ID:    "sec-" + string(typ),
			Type:  typ,
			Title: resume.DefaultTitle(typ),
			Data:  resume.DefaultData(typ),
		}

		html, err := Section(s, style)
		if err != nil {
			t.Errorf("%s: render failed: %v", typ, err)
			continue
		}
		if !strings.Contains(string(html), `data-section-id="sec-`+string(typ)+`"`) {
			t.Errorf("%s: missing section id attribute", typ)
		}
	}
}

func TestSectionUnknownTypeRendersPlaceholder(t *testing.T) {
	style := Resolve(resume.DefaultTheme())
	s := resume.Section{
		ID:    "sec-x",
		Type:  "portfolio",
		Title: "Portfolio",
		Data:  resume.UnknownData(`{"pieces":[]}`),
	}

	html, err := Section(s, style)
	if err != nil {
		t.Fatalf("unknown type must not fail: %v", err)
	}
	if !strings.Contains(string(html), "Unsupported section") {
		t.Errorf("expected unsupported placeholder, got: %s", html)
	}
}

func TestSectionPersonalInfoSuppressesShellTitle(t *testing.T) {
	style := Resolve(resume.DefaultTheme())
	s := resume.Section{
		ID:    "sec-p",
		Type:  resume.TypePersonalInfo,
		Title: "Personal Information",
		Data:  resume.PersonalInfoData{Name: "Jane Doe"},
	}

	html, err := Section(s, style)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(html), "<h2") {
		t.Errorf("personalInfo must not render a shell title: %s", html)
	}
	if !strings.Contains(string(html), "Jane Doe") {
		t.Errorf("name missing from output")
	}
}

func TestSectionEmptyPersonalInfoUsesPlaceholders(t *testing.T) {
	style := Resolve(resume.DefaultTheme())
	s := resume.Section{
		ID:   "sec-p",
		Type: resume.TypePersonalInfo,
		Data: resume.PersonalInfoData{},
	}

	html, err := Section(s, style)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "Your Name") {
		t.Errorf("empty name must render placeholder, got: %s", html)
	}
}

func TestDocumentSingleColumn(t *testing.T) {
	doc := resume.NewDocument("Test Resume")
	doc.Sections = resume.AddSection(doc.Sections, resume.TypeSkills, "")

	html, style, err := Document(doc)
	if err != nil {
		t.Fatalf("render document: %v", err)
	}

	if style.Paper.Name != "a4" {
		t.Errorf("default paper = %q", style.Paper.Name)
	}
	if !strings.Contains(html, `id="resume-root"`) {
		t.Error("missing resume root element")
	}
	if strings.Contains(html, `<div class="sidebar-column">`) {
		t.Error("single column layout must not emit a sidebar")
	}
}

func TestDocumentTwoColumnSplitsSections(t *testing.T) {
	doc := resume.NewDocument("Test Resume")
	doc.Sections = resume.AddSection(doc.Sections, resume.TypeSkills, "")
	doc.Sections = resume.AddSection(doc.Sections, resume.TypeExperience, "")
	doc.Theme.LayoutType = resume.LayoutTwoColumnLeft
	doc.Theme.SidebarSections = []string{string(resume.TypeSkills)}

	html, _, err := Document(doc)
	if err != nil {
		t.Fatalf("render document: %v", err)
	}

	if !strings.Contains(html, `<div class="sidebar-column">`) || !strings.Contains(html, `<div class="main-column">`) {
		t.Fatal("two column layout must emit both columns")
	}
	sidebarIdx := strings.Index(html, `data-section-type="skills"`)
	mainIdx := strings.Index(html, `data-section-type="experience"`)
	if sidebarIdx < 0 || mainIdx < 0 {
		t.Fatal("sections missing from output")
	}
}

// 自定义 CSS 必须原样注入且位于主题样式之后。
func TestDocumentCustomCSSLast(t *testing.T) {
	doc := resume.NewDocument("Test Resume")
	doc.Theme.CustomCSS = ".resume-section { border: 3px dashed red; }"

	html, _, err := Document(doc)
	if err != nil {
		t.Fatalf("render document: %v", err)
	}

	custom := strings.Index(html, "3px dashed red")
	if custom < 0 {
		t.Fatal("custom css not injected")
	}
	base := strings.Index(html, ".resume-section {")
	if base < 0 || custom < base {
		t.Error("custom css must come after base styles")
	}
}

// href 属性在模板层就规范化成完整 URI，可见文本保留原始输入。
// 不能把原始文本直接写进 href：html/template 的 URL 上下文会转义
// 电话里的 "+"、空格和括号，导出阶段就再也还原不出 tel: 链接了。
func TestDocumentNormalizesHrefs(t *testing.T) {
	doc := resume.NewDocument("Test Resume")
	doc.Sections = resume.AddSection(doc.Sections, resume.TypeProjects, "")
	doc.Sections = resume.UpdateSection(doc.Sections, doc.Sections[0].ID, func(s resume.Section) resume.Section {
		s.Data = resume.PersonalInfoData{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "+1 (555) 123-4567",
		}
		return s
	})
	doc.Sections = resume.UpdateSection(doc.Sections, doc.Sections[1].ID, func(s resume.Section) resume.Section {
		s.Data = resume.ProjectsData{{Name: "Site", Link: "example.com"}}
		return s
	})

	html, _, err := Document(doc)
	if err != nil {
		t.Fatalf("render document: %v", err)
	}

	if !strings.Contains(html, `href="tel:+15551234567"`) {
		t.Errorf("phone href must normalize to tel:, got: %s", snippetAround(html, "Phone"))
	}
	if !strings.Contains(html, `href="mailto:jane@example.com"`) {
		t.Error("email href must normalize to mailto:")
	}
	if !strings.Contains(html, `href="https://example.com"`) {
		t.Error("bare domain href must gain https scheme")
	}
	// 可见文本保留用户的原始书写
	if !strings.Contains(html, ">+1 (555) 123-4567<") {
		t.Error("visible phone text must stay raw")
	}
}

// 已带 scheme 的链接必须原样通过 href 属性，
// 不能被模板引擎改写成 #ZgotmplZ。
func TestDocumentPassesThroughQualifiedHrefs(t *testing.T) {
	doc := resume.NewDocument("Test Resume")
	doc.Sections = resume.UpdateSection(doc.Sections, doc.Sections[0].ID, func(s resume.Section) resume.Section {
		s.Data = resume.PersonalInfoData{Name: "Jane Doe", Phone: "tel:+15551234567"}
		return s
	})

	html, _, err := Document(doc)
	if err != nil {
		t.Fatalf("render document: %v", err)
	}

	if strings.Contains(html, "ZgotmplZ") {
		t.Fatal("qualified tel: href was rejected by the template engine")
	}
	if !strings.Contains(html, `href="tel:+15551234567"`) {
		t.Errorf("tel: href must pass through unchanged, got: %s", snippetAround(html, "Phone"))
	}
}

func snippetAround(html, marker string) string {
	idx := strings.Index(html, marker)
	if idx < 0 {
		return "(marker not found)"
	}
	end := idx + 120
	if end > len(html) {
		end = len(html)
	}
	return html[idx:end]
}

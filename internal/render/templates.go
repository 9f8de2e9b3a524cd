package render

// 渲染模板。页面骨架的 CSS 必须与 PDF 导出的坐标换算保持一致：
// #resume-root 的宽度固定为纸张像素宽度，导出管线以它为坐标原点。

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        html, body {
            margin: 0;
            padding: 0;
            background: #ffffff;
        }
        #resume-root {
            width: {{.Style.Paper.WidthPx}}px;
            min-height: {{.Style.Paper.HeightPx}}px;
            box-sizing: border-box;
            background: {{.Style.BackgroundColor}};
            color: {{.Style.TextColor}};
            font-family: '{{.Style.FontFamily}}', sans-serif;
            font-size: {{.Style.FontSizePx}}px;
            font-weight: {{.Style.FontWeight}};
            line-height: {{.Style.LineHeight}};
            {{if .TwoColumn}}display: flex;{{end}}
        }
        .main-column {
            flex: 1;
            padding: 32px;
            box-sizing: border-box;
        }
        .sidebar-column {
            width: {{.Style.SidebarWidth}};
            flex-shrink: 0;
            padding: 32px 20px;
            box-sizing: border-box;
            background: {{.Style.SidebarBackground}};
            color: {{.Style.SidebarText}};
        }
        .resume-section {
            margin-bottom: {{.Style.SectionGapPx}}px;
            border-radius: {{.Style.RadiusPx}}px;
        }
        .section-card .resume-section {
            padding: 12px;
            background: rgba(0, 0, 0, 0.02);
            box-shadow: 0 1px 2px rgba(0, 0, 0, 0.08);
        }
        .section-bordered .resume-section {
            padding: 12px;
            border: 1px solid {{.Style.PrimaryColor}};
        }
        .section-minimal .resume-section h2 {
            font-size: 1em;
            text-transform: uppercase;
            letter-spacing: 0.05em;
        }
        .resume-section h2 {
            color: {{.Style.PrimaryColor}};
            font-size: 1.25em;
            margin: 0 0 10px;
        }
        .header-classic .personal-name { text-align: center; }
        .header-bold .personal-name { font-size: 2.2em; }
        .header-minimal .personal-name { font-weight: 400; }
        .personal-name {
            color: {{.Style.PrimaryColor}};
            font-size: 1.8em;
            font-weight: 700;
            margin: 0 0 8px;
        }
        .entry {
            padding: 8px 10px;
            margin-bottom: 10px;
            border-left: 4px solid {{.Style.PrimaryColor}};
            border-radius: {{.Style.RadiusPx}}px;
        }
        .entry-head {
            display: flex;
            justify-content: space-between;
            align-items: baseline;
        }
        .entry h3 { margin: 0; font-size: 1em; }
        .entry .org { color: {{.Style.SecondaryColor}}; font-size: 0.9em; margin: 2px 0; }
        .entry .dates { font-size: 0.85em; white-space: nowrap; }
        .entry p { margin: 6px 0 0; }
        .entry ul { margin: 6px 0 0; padding-left: 20px; }
        .tag-list { margin-top: 6px; }
        .tag {
            display: inline-block;
            padding: 2px 8px;
            margin: 0 6px 6px 0;
            font-size: 0.85em;
            border-radius: {{.Style.RadiusPx}}px;
            background: {{.Style.PrimaryColor}}20;
            color: {{.Style.PrimaryColor}};
        }
        .tag.alt {
            background: {{.Style.SecondaryColor}}20;
            color: {{.Style.SecondaryColor}};
        }
        .inline-list { display: flex; flex-wrap: wrap; gap: 12px; }
        .field-label { color: {{.Style.SecondaryColor}}; }
        a.doc-link {
            color: {{.Style.SecondaryColor}};
            text-decoration: underline;
        }
        .placeholder { opacity: 0.55; }
        {{safeCSS .CustomCSS}}
    </style>
</head>
<body>
    <div id="resume-root" class="layout-{{.Style.LayoutType}} header-{{.Style.HeaderStyle}} section-{{.Style.SectionStyle}}">
        {{if .SidebarLeft}}<div class="sidebar-column">{{range .Sidebar}}{{.}}{{end}}</div>{{end}}
        <div class="main-column">{{range .Main}}{{.}}{{end}}</div>
        {{if .SidebarRight}}<div class="sidebar-column">{{range .Sidebar}}{{.}}{{end}}</div>{{end}}
    </div>
</body>
</html>
`

const sectionShell = `<section class="resume-section" data-section-id="{{.ID}}" data-section-type="{{.Type}}">
{{if .ShowTitle}}<h2>{{.Title}}</h2>{{end}}
{{.Body}}
</section>
`

// 每个段落类型一个子树模板。缺失字段逐个回落到占位文案，
// 部分填写的内容绝不会让整个段落塌成空白。
var sectionTemplates = map[string]string{
	"personalInfo": `<div class="personal-info">
<h1 class="personal-name">{{or .Name "Your Name"}}</h1>
<div>{{if .Email}}Email: <a class="doc-link" href="{{href .Email}}">{{.Email}}</a>{{end}}</div>
<div>{{if .Phone}}Phone: <a class="doc-link" href="{{href .Phone}}">{{.Phone}}</a>{{end}}</div>
<div>{{if .Address}}Address: {{.Address}}{{end}}</div>
<div>{{if .Website}}<span class="field-label">Website:</span> <a class="doc-link" href="{{href .Website}}">{{.Website}}</a>{{end}}</div>
<div>{{if .LinkedIn}}<span class="field-label">LinkedIn:</span> <a class="doc-link" href="{{href .LinkedIn}}">{{.LinkedIn}}</a>{{end}}</div>
<div>{{if .GitHub}}<span class="field-label">GitHub:</span> <a class="doc-link" href="{{href .GitHub}}">{{.GitHub}}</a>{{end}}</div>
</div>`,

	"experience": `<div class="entry-list">
{{range .}}<div class="entry">
<div class="entry-head">
<div>
<h3>{{or .Position "Position"}}</h3>
<p class="org">{{or .Company "Company"}}{{if .Location}} &bull; {{.Location}}{{end}}</p>
</div>
<div class="dates">{{or .StartDate "Start Date"}} &mdash; {{or .EndDate "End Date"}}</div>
</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{with nonEmpty .Bullets}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
</div>
{{end}}</div>`,

	"education": `<div class="entry-list">
{{range .}}<div class="entry">
<div class="entry-head">
<div>
<h3>{{or .Degree "Degree"}}{{if .Field}} in {{.Field}}{{end}}</h3>
<p class="org">{{or .Institution "Institution"}}{{if .Location}} &bull; {{.Location}}{{end}}</p>
</div>
<div class="dates">{{or .StartDate "Start Date"}} &mdash; {{or .EndDate "End Date"}}</div>
</div>
{{if .GPA}}<p>GPA: {{.GPA}}</p>{{end}}
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>
{{end}}</div>`,

	"skills": `<div class="skill-list">
{{range .}}<div class="skill-category">
<h3 class="field-label">{{or .Category "Category"}}</h3>
<div class="tag-list">{{range nonEmpty .Items}}<span class="tag">{{.}}</span>{{end}}</div>
</div>
{{end}}</div>`,

	"languages": `<div class="inline-list">
{{range .}}<div><span>{{or .Language "Language"}}:</span> <span class="field-label">{{or .Proficiency "Proficiency"}}</span></div>
{{end}}</div>`,

	"projects": `<div class="entry-list">
{{range .}}<div class="entry">
<div class="entry-head">
<h3>{{or .Name "Project Name"}}</h3>
{{if or .StartDate .EndDate}}<div class="dates">{{.StartDate}}{{if and .StartDate .EndDate}} &mdash; {{end}}{{.EndDate}}</div>{{end}}
</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{with nonEmpty .Technologies}}<div class="tag-list">{{range .}}<span class="tag alt">{{.}}</span>{{end}}</div>{{end}}
{{if .Link}}<a class="doc-link" href="{{href .Link}}">Project Link</a>{{end}}
</div>
{{end}}</div>`,

	"certifications": `<div class="entry-list">
{{range .}}<div class="cert">
<h3>{{or .Name "Certification Name"}}</h3>
<div class="entry-head">
<p class="org">{{or .Issuer "Issuer"}}</p>
<p class="dates">{{or .Date "Date"}}</p>
</div>
{{if .Link}}<a class="doc-link" href="{{href .Link}}">View Certificate</a>{{end}}
</div>
{{end}}</div>`,

	"awards": `<div class="entry-list">
{{range .}}<div class="cert">
<h3>{{or .Title "Award Title"}}</h3>
<div class="entry-head">
<p class="org">{{or .Issuer "Issuer"}}</p>
<p class="dates">{{or .Date "Date"}}</p>
</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>
{{end}}</div>`,

	"publications": `<div class="entry-list">
{{range .}}<div class="cert">
<h3>{{or .Title "Publication Title"}}</h3>
<div class="entry-head">
<p class="org">{{or .Publisher "Publisher"}}</p>
<p class="dates">{{or .Date "Date"}}</p>
</div>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .Link}}<a class="doc-link" href="{{href .Link}}">View Publication</a>{{end}}
</div>
{{end}}</div>`,

	"references": `<div class="entry-list">
{{range .}}<div class="cert">
<h3>{{or .Name "Reference Name"}}</h3>
<p class="org">{{or .Title "Title"}}{{if .Company}} &bull; {{.Company}}{{end}}</p>
<div>{{if .Email}}<a class="doc-link" href="{{href .Email}}">{{.Email}}</a>{{end}}</div>
<div>{{if .Phone}}<a class="doc-link" href="{{href .Phone}}">{{.Phone}}</a>{{end}}</div>
</div>
{{end}}</div>`,

	"custom": `<div class="custom-content">{{safeHTML .Content}}</div>`,

	"unsupported": `<div class="placeholder">Unsupported section type</div>`,
}

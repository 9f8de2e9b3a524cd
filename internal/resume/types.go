package resume

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SectionType 标识一个段落的内容类型。集合是封闭的；
// 未知类型会被保留并在渲染时显示占位内容，而不是报错。
type SectionType string

const (
	TypePersonalInfo   SectionType = "personalInfo"
	TypeExperience     SectionType = "experience"
	TypeEducation      SectionType = "education"
	TypeSkills         SectionType = "skills"
	TypeLanguages      SectionType = "languages"
	TypeProjects       SectionType = "projects"
	TypeCertifications SectionType = "certifications"
	TypeAwards         SectionType = "awards"
	TypePublications   SectionType = "publications"
	TypeReferences     SectionType = "references"
	TypeCustom         SectionType = "custom"
)

// KnownSectionTypes 返回全部受支持的段落类型，按编辑器中的展示顺序。
func KnownSectionTypes() []SectionType {
	return []SectionType{
		TypePersonalInfo,
		TypeExperience,
		TypeEducation,
		TypeSkills,
		TypeLanguages,
		TypeProjects,
		TypeCertifications,
		TypeAwards,
		TypePublications,
		TypeReferences,
		TypeCustom,
	}
}

// Document 表示存储在简历 Content(JSONB) 中的完整结构化数据。
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sections  []Section `json:"sections"`
	Theme     Theme     `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section 表示文档中的单个段落。Position 决定渲染顺序，
// 在任何增删/重排后必须保持 0..N-1 连续。
type Section struct {
	ID       string      `json:"id"`
	Type     SectionType `json:"type"`
	Title    string      `json:"title"`
	Position int         `json:"position"`
	Data     SectionData `json:"data"`
}

// SectionData 是按 Section.Type 区分的内容载荷。
type SectionData interface {
	sectionData()
}

// PersonalInfoData 是 personalInfo 段落的载荷。
type PersonalInfoData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// ExperienceEntry 是一条工作经历。
type ExperienceEntry struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// ExperienceData 是 experience 段落的载荷。
type ExperienceData []ExperienceEntry

// EducationEntry 是一条教育经历。
type EducationEntry struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

// EducationData 是 education 段落的载荷。
type EducationData []EducationEntry

// SkillCategory 是一个技能分类及其条目。
type SkillCategory struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// SkillsData 是 skills 段落的载荷。
type SkillsData []SkillCategory

// LanguageEntry 是一条语言能力。
type LanguageEntry struct {
	ID          string `json:"id"`
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// LanguagesData 是 languages 段落的载荷。
type LanguagesData []LanguageEntry

// ProjectEntry 是一条项目经历。
type ProjectEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Link         string   `json:"link"`
	Technologies []string `json:"technologies"`
}

// ProjectsData 是 projects 段落的载荷。
type ProjectsData []ProjectEntry

// CertificationEntry 是一条证书。
type CertificationEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
	Link   string `json:"link"`
}

// CertificationsData 是 certifications 段落的载荷。
type CertificationsData []CertificationEntry

// AwardEntry 是一条获奖记录。
type AwardEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// AwardsData 是 awards 段落的载荷。
type AwardsData []AwardEntry

// PublicationEntry 是一条出版物。
type PublicationEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// PublicationsData 是 publications 段落的载荷。
type PublicationsData []PublicationEntry

// ReferenceEntry 是一位推荐人。
type ReferenceEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// ReferencesData 是 references 段落的载荷。
type ReferencesData []ReferenceEntry

// CustomData 是 custom 段落的载荷，内容为富文本 HTML。
type CustomData struct {
	Content string `json:"content"`
}

// UnknownData 保留无法识别类型的原始载荷，避免旧数据丢失。
type UnknownData json.RawMessage

func (PersonalInfoData) sectionData()   {}
func (ExperienceData) sectionData()     {}
func (EducationData) sectionData()      {}
func (SkillsData) sectionData()         {}
func (LanguagesData) sectionData()      {}
func (ProjectsData) sectionData()       {}
func (CertificationsData) sectionData() {}
func (AwardsData) sectionData()         {}
func (PublicationsData) sectionData()   {}
func (ReferencesData) sectionData()     {}
func (CustomData) sectionData()         {}
func (UnknownData) sectionData()        {}

// MarshalJSON 保证 UnknownData 原样写回。
func (d UnknownData) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(d).MarshalJSON()
}

type sectionEnvelope struct {
	ID       string          `json:"id"`
	Type     SectionType     `json:"type"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Data     json.RawMessage `json:"data"`
}

// UnmarshalJSON 按 type 标签把 data 解码为对应的载荷类型。
func (s *Section) UnmarshalJSON(raw []byte) error {
	var env sectionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}

	data, err := decodeSectionData(env.Type, env.Data)
	if err != nil {
		return fmt.Errorf("decode section %q data: %w", env.ID, err)
	}

	s.ID = env.ID
	s.Type = env.Type
	s.Title = env.Title
	s.Position = env.Position
	s.Data = data
	return nil
}

func decodeSectionData(t SectionType, raw json.RawMessage) (SectionData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultData(t), nil
	}

	switch t {
	case TypePersonalInfo:
		var d PersonalInfoData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeExperience:
		var d ExperienceData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeEducation:
		var d EducationData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeSkills:
		var d SkillsData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeLanguages:
		var d LanguagesData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeProjects:
		var d ProjectsData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeCertifications:
		var d CertificationsData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeAwards:
		var d AwardsData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypePublications:
		var d PublicationsData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeReferences:
		var d ReferencesData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	case TypeCustom:
		var d CustomData
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return UnknownData(append([]byte(nil), raw...)), nil
	}
}

// DefaultData 返回新建段落的初始载荷。
// 列表类型预置一条空白条目，与编辑器的初始状态一致。
func DefaultData(t SectionType) SectionData {
	switch t {
	case TypePersonalInfo:
		return PersonalInfoData{}
	case TypeExperience:
		return ExperienceData{{ID: uuid.NewString(), Bullets: []string{""}}}
	case TypeEducation:
		return EducationData{{ID: uuid.NewString()}}
	case TypeSkills:
		return SkillsData{{ID: uuid.NewString(), Category: "New Category", Items: []string{""}}}
	case TypeLanguages:
		return LanguagesData{{ID: uuid.NewString()}}
	case TypeProjects:
		return ProjectsData{{ID: uuid.NewString(), Technologies: []string{""}}}
	case TypeCertifications:
		return CertificationsData{{ID: uuid.NewString()}}
	case TypeAwards:
		return AwardsData{{ID: uuid.NewString()}}
	case TypePublications:
		return PublicationsData{{ID: uuid.NewString()}}
	case TypeReferences:
		return ReferencesData{{ID: uuid.NewString()}}
	case TypeCustom:
		return CustomData{}
	default:
		return UnknownData(nil)
	}
}

// DefaultTitle 返回段落类型的默认标题。
func DefaultTitle(t SectionType) string {
	switch t {
	case TypePersonalInfo:
		return "Personal Information"
	case TypeExperience:
		return "Work Experience"
	case TypeEducation:
		return "Education"
	case TypeSkills:
		return "Skills"
	case TypeLanguages:
		return "Languages"
	case TypeProjects:
		return "Projects"
	case TypeCertifications:
		return "Certifications"
	case TypeAwards:
		return "Awards"
	case TypePublications:
		return "Publications"
	case TypeReferences:
		return "References"
	case TypeCustom:
		return "Custom Section"
	default:
		return string(t)
	}
}

// NewDocument 创建一份新文档：一个空白 personalInfo 段落加默认主题。
func NewDocument(name string) *Document {
	now := time.Now()
	return &Document{
		ID:   uuid.NewString(),
		Name: name,
		Sections: []Section{
			{
				ID:       uuid.NewString(),
				Type:     TypePersonalInfo,
				Title:    DefaultTitle(TypePersonalInfo),
				Position: 0,
				Data:     PersonalInfoData{},
			},
		},
		Theme:     DefaultTheme(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Decode 从 JSONB 字节解码完整文档。未知分节类型原样保留，
// 缺失主题字段回退到默认值。
func Decode(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode resume document: %w", err)
	}
	return &doc, nil
}

// Encode 把文档序列化为 JSONB 字节。
func Encode(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode resume document: %w", err)
	}
	return data, nil
}

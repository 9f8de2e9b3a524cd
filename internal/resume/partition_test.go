package resume

import "testing"

func TestPartitionSingleColumn(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeSkills, TypeExperience)
	theme := Theme{
		LayoutType:      LayoutSingleColumn,
		SidebarSections: []string{string(TypeSkills)},
	}

	cols := Partition(sections, theme)

	if len(cols.Main) != 3 {
		t.Fatalf("single column must keep everything in main, got %d", len(cols.Main))
	}
	if len(cols.Sidebar) != 0 {
		t.Fatalf("single column must have empty sidebar, got %d", len(cols.Sidebar))
	}
}

func TestPartitionEmptyLayoutDefaultsToSingleColumn(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeSkills)
	cols := Partition(sections, Theme{SidebarSections: []string{string(TypeSkills)}})
	if len(cols.Main) != 2 || len(cols.Sidebar) != 0 {
		t.Fatalf("got main=%d sidebar=%d", len(cols.Main), len(cols.Sidebar))
	}
}

func TestPartitionTwoColumn(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience, TypeSkills, TypeLanguages, TypeEducation)
	theme := Theme{
		LayoutType:      LayoutTwoColumnLeft,
		SidebarSections: []string{string(TypeSkills), string(TypeLanguages)},
	}

	cols := Partition(sections, theme)

	// 完整性：每个段落恰好出现在一栏
	if len(cols.Main)+len(cols.Sidebar) != len(sections) {
		t.Fatalf("partition lost sections: main=%d sidebar=%d", len(cols.Main), len(cols.Sidebar))
	}

	wantMain := []SectionType{TypePersonalInfo, TypeExperience, TypeEducation}
	wantSidebar := []SectionType{TypeSkills, TypeLanguages}
	for i, want := range wantMain {
		if cols.Main[i].Type != want {
			t.Errorf("main[%d] = %q, want %q", i, cols.Main[i].Type, want)
		}
	}
	for i, want := range wantSidebar {
		if cols.Sidebar[i].Type != want {
			t.Errorf("sidebar[%d] = %q, want %q", i, cols.Sidebar[i].Type, want)
		}
	}
}

// 分栏前先按 position 排序，乱序输入也要得到确定结果。
func TestPartitionSortsByPositionFirst(t *testing.T) {
	sections := []Section{
		{ID: "c", Type: TypeEducation, Position: 2},
		{ID: "a", Type: TypePersonalInfo, Position: 0},
		{ID: "b", Type: TypeExperience, Position: 1},
	}
	theme := Theme{LayoutType: LayoutTwoColumnRight}

	cols := Partition(sections, theme)

	if cols.Main[0].ID != "a" || cols.Main[1].ID != "b" || cols.Main[2].ID != "c" {
		t.Fatalf("main not ordered by position: %s %s %s", cols.Main[0].ID, cols.Main[1].ID, cols.Main[2].ID)
	}
}

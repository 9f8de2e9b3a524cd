package resume

import "testing"

func makeSections(types ...SectionType) []Section {
	out := make([]Section, 0, len(types))
	for i, t := range types {
		out = append(out, Section{
			ID:       string(rune('a' + i)),
			Type:     t,
			Title:    DefaultTitle(t),
			Position: i,
			Data:     DefaultData(t),
		})
	}
	return out
}

// 每次增删/重排后，position 按升序恰好是 0..N-1。
func assertDensePositions(t *testing.T, sections []Section) {
	t.Helper()
	for i, s := range sections {
		if s.Position != i {
			t.Fatalf("position not dense: index %d has position %d", i, s.Position)
		}
	}
}

func TestAddSectionAppendsAtEnd(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience)

	out := AddSection(sections, TypeSkills, "")

	if len(out) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(out))
	}
	added := out[2]
	if added.Type != TypeSkills {
		t.Errorf("added section type = %q", added.Type)
	}
	if added.Title != DefaultTitle(TypeSkills) {
		t.Errorf("empty title should fall back to default, got %q", added.Title)
	}
	if added.ID == "" {
		t.Error("added section must get a fresh id")
	}
	if added.Data == nil {
		t.Error("added section must get default data")
	}
	assertDensePositions(t, out)

	// 入参不被修改
	if len(sections) != 2 {
		t.Errorf("input slice mutated, len=%d", len(sections))
	}
}

func TestAddSectionKeepsCustomTitle(t *testing.T) {
	out := AddSection(nil, TypeCustom, "Volunteering")
	if out[0].Title != "Volunteering" {
		t.Fatalf("got title %q", out[0].Title)
	}
}

func TestRemoveSectionRenumbers(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience, TypeEducation)

	out := RemoveSection(sections, "b")

	if len(out) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("unexpected order: %s, %s", out[0].ID, out[1].ID)
	}
	assertDensePositions(t, out)
}

func TestRemoveSectionUnknownIDIsNoop(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience)
	out := RemoveSection(sections, "missing")
	if len(out) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(out))
	}
	assertDensePositions(t, out)
}

func TestReorderSections(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience, TypeEducation, TypeSkills)

	out := ReorderSections(sections, 3, 1)

	wantOrder := []string{"a", "d", "b", "c"}
	for i, want := range wantOrder {
		if out[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, out[i].ID, want)
		}
	}
	assertDensePositions(t, out)
}

func TestReorderSectionsOutOfRange(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience)

	for _, tc := range [][2]int{{-1, 0}, {0, 5}, {5, 0}, {0, -2}} {
		out := ReorderSections(sections, tc[0], tc[1])
		if out[0].ID != "a" || out[1].ID != "b" {
			t.Fatalf("reorder(%d,%d) changed order", tc[0], tc[1])
		}
		assertDensePositions(t, out)
	}
}

func TestUpdateSectionPreservesIDAndPosition(t *testing.T) {
	sections := makeSections(TypePersonalInfo, TypeExperience)

	out := UpdateSection(sections, "b", func(s Section) Section {
		s.ID = "hijacked"
		s.Position = 99
		s.Title = "Work History"
		return s
	})

	if out[1].ID != "b" {
		t.Errorf("id must be preserved, got %q", out[1].ID)
	}
	if out[1].Position != 1 {
		t.Errorf("position must be preserved, got %d", out[1].Position)
	}
	if out[1].Title != "Work History" {
		t.Errorf("title not updated, got %q", out[1].Title)
	}
}

func TestSortByPositionStable(t *testing.T) {
	sections := []Section{
		{ID: "x", Position: 2},
		{ID: "y", Position: 0},
		{ID: "z", Position: 2},
	}

	out := SortByPosition(sections)

	if out[0].ID != "y" || out[1].ID != "x" || out[2].ID != "z" {
		t.Fatalf("unexpected order: %s %s %s", out[0].ID, out[1].ID, out[2].ID)
	}
}

package resume

import (
	"sort"

	"github.com/google/uuid"
)

// 本文件维护 position 的稠密不变量：任何增删/重排之后，
// 按 position 升序排列恰好是 0..N-1。所有函数都是纯函数，
// 返回新切片，不修改入参（拖拽等事件系统只负责调用这里）。

// SortByPosition 返回按 position 升序的稳定副本。
// position 重复时保留原始相对顺序（正常数据不会出现重复）。
func SortByPosition(sections []Section) []Section {
	sorted := append([]Section(nil), sections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}

// AddSection 追加一个新段落，position 为当前数量。
func AddSection(sections []Section, t SectionType, title string) []Section {
	if title == "" {
		title = DefaultTitle(t)
	}
	out := SortByPosition(sections)
	out = append(out, Section{
		ID:       uuid.NewString(),
		Type:     t,
		Title:    title,
		Position: len(out),
		Data:     DefaultData(t),
	})
	return renumber(out)
}

// RemoveSection 删除指定段落并重新编号。找不到时原样返回。
func RemoveSection(sections []Section, id string) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range SortByPosition(sections) {
		if s.ID == id {
			continue
		}
		out = append(out, s)
	}
	return renumber(out)
}

// ReorderSections 把 from 位置的段落移动到 to 位置并重新编号。
// 越界索引原样返回排序副本，不会 panic。
func ReorderSections(sections []Section, from, to int) []Section {
	out := SortByPosition(sections)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return renumber(out)
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)

	rest := append([]Section(nil), out[:to]...)
	rest = append(rest, moved)
	rest = append(rest, out[to:]...)
	return renumber(rest)
}

// UpdateSection 用 update 回调替换指定段落。找不到时原样返回。
func UpdateSection(sections []Section, id string, update func(Section) Section) []Section {
	out := append([]Section(nil), sections...)
	for i, s := range out {
		if s.ID == id {
			updated := update(s)
			// ID 与 position 由本包维护，回调不得改动。
			updated.ID = s.ID
			updated.Position = s.Position
			out[i] = updated
			break
		}
	}
	return out
}

func renumber(sections []Section) []Section {
	for i := range sections {
		sections[i].Position = i
	}
	return sections
}

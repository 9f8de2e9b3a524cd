package resume

// Columns 是布局分栏的结果：主栏与侧栏各自保持段落的相对顺序。
type Columns struct {
	Main    []Section
	Sidebar []Section
}

// Partition 按主题的布局类型把段落分配到主栏/侧栏。
// 单栏布局下 sidebarSections 视为无效，全部进主栏。
// 这是一次稳定的过滤划分：两个输出都保持排序后输入的相对顺序。
func Partition(sections []Section, theme Theme) Columns {
	sorted := SortByPosition(sections)

	if theme.LayoutType == LayoutSingleColumn || theme.LayoutType == "" {
		return Columns{Main: sorted}
	}

	sidebarTypes := make(map[string]struct{}, len(theme.SidebarSections))
	for _, t := range theme.SidebarSections {
		sidebarTypes[t] = struct{}{}
	}

	cols := Columns{}
	for _, s := range sorted {
		if _, ok := sidebarTypes[string(s.Type)]; ok {
			cols.Sidebar = append(cols.Sidebar, s)
		} else {
			cols.Main = append(cols.Main, s)
		}
	}
	return cols
}

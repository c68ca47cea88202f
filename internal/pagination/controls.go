package pagination

import "fmt"

// State is the committed paging state of a controller.
type State struct {
	CurrentPage  int
	PageSize     int
	TotalRecords int
	SearchTerm   string
}

// Offset returns the row offset of the current page.
func (s State) Offset() int {
	return s.CurrentPage * s.PageSize
}

// Controls is the rendered state of the footer: range label and button states.
type Controls struct {
	Start        int
	End          int
	Total        int
	PrevDisabled bool
	NextDisabled bool
	ShowTotal    bool
}

// Window returns the 1-based inclusive range of rows shown for a page.
// A zero total yields 0 to 0.
func Window(currentPage, pageSize, total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	start = currentPage*pageSize + 1
	end = min((currentPage+1)*pageSize, total)
	return start, end
}

// ControlsFor computes the footer controls for a state.
func ControlsFor(s State, showTotal bool) Controls {
	start, end := Window(s.CurrentPage, s.PageSize, s.TotalRecords)
	return Controls{
		Start:        start,
		End:          end,
		Total:        s.TotalRecords,
		PrevDisabled: s.CurrentPage == 0,
		NextDisabled: (s.CurrentPage+1)*s.PageSize >= s.TotalRecords,
		ShowTotal:    showTotal,
	}
}

// Label is the informational text shown between the selector and the buttons.
func (c Controls) Label() string {
	if !c.ShowTotal {
		return fmt.Sprintf("Mostrando %d a %d", c.Start, c.End)
	}
	return fmt.Sprintf("Mostrando %d a %d de %d entradas", c.Start, c.End, c.Total)
}

// ElementIDs are the identifiers of the footer elements, namespaced by table.
type ElementIDs struct {
	PageSize string
	Info     string
	Prev     string
	Next     string
}

// IDsFor derives the footer element IDs for a table.
func IDsFor(tableID string) ElementIDs {
	return ElementIDs{
		PageSize: "page-size-" + tableID,
		Info:     "pagination-info-" + tableID,
		Prev:     "prev-page-" + tableID,
		Next:     "next-page-" + tableID,
	}
}

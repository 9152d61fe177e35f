package session

import "github.com/JonMunkholm/explorer/internal/dataset"

// DefaultPerPage is the table page size when none is configured.
const DefaultPerPage = 50

// Page is one window of the view.
type Page struct {
	Records    []dataset.Record `json:"records"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
	// First and Last are 1-based item positions for "Showing x-y of n".
	First int `json:"first"`
	Last  int `json:"last"`
}

// Paginate returns the 1-based page of view. Out-of-range pages clamp to
// the first or last page.
func Paginate(view []dataset.Record, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(view)
	pages := max(1, (total+perPage-1)/perPage)
	page = min(max(page, 1), pages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	p := Page{
		Records:    view[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: pages,
		Total:      total,
	}
	if end > start {
		p.First, p.Last = start+1, end
	} else {
		p.Records = []dataset.Record{}
	}
	return p
}

// Page returns a window of the current view.
func (s State) Page(page, perPage int) Page {
	return Paginate(s.View, page, perPage)
}

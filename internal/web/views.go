package web

import (
	"github.com/JonMunkholm/explorer/internal/axis"
	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/dataset"
	"github.com/JonMunkholm/explorer/internal/filter"
	"github.com/JonMunkholm/explorer/internal/palette"
	"github.com/JonMunkholm/explorer/internal/selection"
	"github.com/JonMunkholm/explorer/internal/sorting"
)

type datasetView struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	Source         dataset.Source           `json:"source"`
	Records        int                      `json:"records"`
	Columns        dataset.Columns          `json:"columns"`
	Ranges         map[string]dataset.Range `json:"ranges"`
	Categories     map[string][]string      `json:"categories"`
	DefaultColorBy string                   `json:"defaultColorBy"`
	DefaultImgCol  string                   `json:"defaultImgCol"`
}

type rowView struct {
	Record   dataset.Record `json:"record"`
	Image    string         `json:"image,omitempty"`
	Color    palette.RGB    `json:"color"`
	Selected bool           `json:"selected"`
	Active   bool           `json:"active"`
}

type pageView struct {
	Rows       []rowView `json:"rows"`
	Page       int       `json:"page"`
	PerPage    int       `json:"perPage"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
	First      int       `json:"first"`
	Last       int       `json:"last"`
}

type stateView struct {
	Source      dataset.Source   `json:"source"`
	Dataset     *datasetView     `json:"dataset"`
	Axes        []string         `json:"axes"`
	Filters     filter.State     `json:"filters"`
	HasFilters  bool             `json:"hasFilters"`
	Sorts       sorting.Keys     `json:"sorts"`
	Selection   selection.State  `json:"selection"`
	Selected    []dataset.Record `json:"selectedRecords"`
	Active      *dataset.Record  `json:"activeRecord"`
	ActiveImage string           `json:"activeImage"`
	ColorBy     string           `json:"colorBy"`
	ImgCol      string           `json:"imgCol"`
	Palette     string           `json:"palette"`
	Layout      axis.Layout      `json:"layout"`
	Brush       *axis.Brush      `json:"brush"`
	Page        pageView         `json:"page"`
}

func newDatasetView(ds *dataset.Dataset) *datasetView {
	if ds == nil {
		return nil
	}
	return &datasetView{
		ID:             ds.ID,
		Name:           ds.Name,
		Source:         ds.Source,
		Records:        ds.Len(),
		Columns:        ds.Columns,
		Ranges:         ds.Ranges,
		Categories:     ds.Categories,
		DefaultColorBy: ds.DefaultColorBy,
		DefaultImgCol:  ds.DefaultImgCol,
	}
}

func newStateView(snap core.Snapshot, page, perPage int) stateView {
	st, p := snap.State, snap.Palette
	v := stateView{
		Source:     snap.Source,
		Dataset:    newDatasetView(st.Dataset),
		Axes:       st.Axes,
		Filters:    st.Filters,
		HasFilters: st.HasFilters(),
		Sorts:      st.Sorts,
		Selection:  st.Selection,
		Selected:   st.SelectedRecords(),
		ColorBy:    st.ColorBy,
		ImgCol:     st.ImgCol,
		Palette:    st.Palette,
		Layout:     st.Layout,
		Brush:      st.Brush,
	}
	if v.Selected == nil {
		v.Selected = []dataset.Record{}
	}
	if rec, ok := st.ActiveRecord(); ok {
		v.Active = &rec
		v.ActiveImage = st.ImageName(rec)
	}

	pg := st.Page(page, perPage)
	rng, ok := st.Dataset.Range(st.ColorBy)
	rows := make([]rowView, len(pg.Records))
	for i, rec := range pg.Records {
		rows[i] = rowView{
			Record:   rec,
			Image:    st.ImageName(rec),
			Color:    p.MapValue(rec.Get(st.ColorBy), rng, ok),
			Selected: st.Selection.Selected.Contains(rec.ID),
			Active:   st.Selection.Active.Contains(rec.ID),
		}
	}
	v.Page = pageView{
		Rows:       rows,
		Page:       pg.Page,
		PerPage:    pg.PerPage,
		TotalPages: pg.TotalPages,
		Total:      pg.Total,
		First:      pg.First,
		Last:       pg.Last,
	}
	return v
}

type axisView struct {
	Column string         `json:"column"`
	Label  string         `json:"label"`
	X      float64        `json:"x"`
	Scale  axis.Scale     `json:"scale"`
	Ranges []filter.Range `json:"ranges"`
	Sort   string         `json:"sort,omitempty"`
}

type lineView struct {
	ID       int          `json:"id"`
	Points   []axis.Point `json:"points"`
	Color    palette.RGB  `json:"color"`
	Selected bool         `json:"selected"`
	Active   bool         `json:"active"`
}

type chartView struct {
	Layout axis.Layout `json:"layout"`
	Axes   []axisView  `json:"axes"`
	Lines  []lineView  `json:"lines"`
	Brush  *axis.Brush `json:"brush"`
	// Legend is the CSS gradient of the palette for the color column.
	Legend  string `json:"legend"`
	ColorBy string `json:"colorBy"`
}

// newChartView draws one line per visible record. Selected and active
// lines come last so the client paints them on top.
func newChartView(snap core.Snapshot) chartView {
	st, p := snap.State, snap.Palette
	chart := st.Chart()
	v := chartView{
		Layout:  chart.Layout,
		Axes:    make([]axisView, len(chart.Columns)),
		Brush:   st.Brush,
		Legend:  p.Gradient("to top"),
		ColorBy: st.ColorBy,
	}
	for i, col := range chart.Columns {
		av := axisView{
			Column: col,
			Label:  dataset.CleanName(col),
			X:      chart.X[i],
			Scale:  chart.Scales[i],
			Ranges: st.Filters.Ranges(col),
		}
		if dir, ok := st.Sorts.Direction(col); ok {
			av.Sort = string(dir)
		}
		if av.Ranges == nil {
			av.Ranges = []filter.Range{}
		}
		v.Axes[i] = av
	}

	colors := st.Colors(p)
	var plain, highlighted []lineView
	for i, rec := range st.View {
		lv := lineView{
			ID:       rec.ID,
			Points:   chart.Line(rec),
			Color:    colors[i],
			Selected: st.Selection.Selected.Contains(rec.ID),
			Active:   st.Selection.Active.Contains(rec.ID),
		}
		if lv.Selected || lv.Active {
			highlighted = append(highlighted, lv)
		} else {
			plain = append(plain, lv)
		}
	}
	v.Lines = append(append(make([]lineView, 0, len(st.View)), plain...), highlighted...)
	return v
}

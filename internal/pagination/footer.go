package pagination

import (
	"html/template"
	"io"
)

const footerTemplate = `<form class="pagination-footer" method="post"{{with .Action}} action="{{.}}"{{end}}>
	<div class="pagination-controls-left">
		<label for="{{.IDs.PageSize}}" class="pagination-label">Mostrar:</label>
		<select id="{{.IDs.PageSize}}" name="page_size" class="pagination-select" onchange="this.nextElementSibling.click()">
			{{- range .Options}}
			<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
			{{- end}}
		</select>
		<button type="submit" name="action" value="size" class="pagination-apply">Aplicar</button>
	</div>
	<div class="pagination-info" id="{{.IDs.Info}}">{{.Controls.Label}}</div>
	<div class="pagination-controls-right">
		<button type="submit" name="action" value="prev" id="{{.IDs.Prev}}" class="pagination-button"{{if .Controls.PrevDisabled}} disabled{{end}}>Anterior</button>
		<button type="submit" name="action" value="next" id="{{.IDs.Next}}" class="pagination-button"{{if .Controls.NextDisabled}} disabled{{end}}>Siguiente</button>
	</div>
</form>
`

var footerTmpl = template.Must(template.New("pagination-footer").Parse(footerTemplate))

type footerOption struct {
	Value    int
	Selected bool
}

type footerData struct {
	Action   string
	IDs      ElementIDs
	Options  []footerOption
	Controls Controls
}

// footer renders the paging controls injected after the table.
type footer[T any] struct {
	c *Controller[T]
}

func (f *footer[T]) Render(w io.Writer) error {
	st := f.c.State()
	data := footerData{
		Action:   f.c.cfg.formAction,
		IDs:      f.c.ids,
		Controls: ControlsFor(st, f.c.cfg.showTotalRecords),
	}
	for _, n := range f.c.cfg.pageSizeOptions {
		data.Options = append(data.Options, footerOption{Value: n, Selected: n == st.PageSize})
	}
	return footerTmpl.Execute(w, data)
}

package panel

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"adminpanel/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("panel").ParseFS(templateFS, "templates/*.html"))

func execute(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}

// NavItem is one sidebar link.
type NavItem struct {
	Name   string
	Title  string
	Icon   string
	Href   string
	Active bool
}

// PageData is the layout around a mounted view.
type PageData struct {
	Title   string
	User    *domain.User
	Nav     []NavItem
	Actions []Action
	Flash   *Flash
	Content template.HTML
}

// LoginData feeds the login page.
type LoginData struct {
	Options    []*domain.LoginOption
	Selected   string
	Error      string
	LoadFailed bool
}

// RenderView writes the full panel page for v, mounted from module, to w.
// Nothing is written when rendering fails.
func RenderView(w io.Writer, reg *Registry, s *Session, module string, v View) error {
	var content bytes.Buffer
	if err := v.Document().Render(&content); err != nil {
		return err
	}
	data := PageData{
		Title:   v.Title(),
		User:    s.User(),
		Nav:     navItems(reg, module),
		Actions: v.HeaderActions(),
		Flash:   v.Flash(),
		Content: template.HTML(content.String()),
	}
	var page bytes.Buffer
	if err := execute(&page, "layout", data); err != nil {
		return err
	}
	_, err := page.WriteTo(w)
	return err
}

// RenderLogin writes the login page to w.
func RenderLogin(w io.Writer, data LoginData) error {
	var page bytes.Buffer
	if err := execute(&page, "login", data); err != nil {
		return err
	}
	_, err := page.WriteTo(w)
	return err
}

func navItems(reg *Registry, active string) []NavItem {
	mods := reg.Modules()
	items := make([]NavItem, 0, len(mods))
	for _, m := range mods {
		items = append(items, NavItem{
			Name:   m.Name(),
			Title:  m.Title(),
			Icon:   m.Icon(),
			Href:   "/panel/" + m.Name() + "?fresh=1",
			Active: m.Name() == active,
		})
	}
	return items
}

// templateNode renders the named template with the data returned by data at render time.
func templateNode(name string, data func() any) RendererFunc {
	return func(w io.Writer) error {
		return execute(w, name, data())
	}
}

package panel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"adminpanel/internal/domain"
	"adminpanel/internal/pagination"
)

const branchTableID = "sucursal-table"

// BranchesModule manages sucursales.
type BranchesModule struct {
	branches domain.BranchService
	logger   *slog.Logger
	opts     []pagination.Option
}

func NewBranchesModule(branches domain.BranchService, logger *slog.Logger, opts ...pagination.Option) *BranchesModule {
	return &BranchesModule{branches: branches, logger: logger, opts: opts}
}

func (m *BranchesModule) Name() string  { return "sucursales" }
func (m *BranchesModule) Title() string { return "Sucursales" }
func (m *BranchesModule) Icon() string  { return "bx bx-store" }

func (m *BranchesModule) Mount(ctx context.Context, s *Session) (View, error) {
	v := &branchesView{baseView: newBaseView("Sucursales", m.logger), module: m}
	v.doc.Append("sucursal-search", templateNode("search", func() any {
		return searchData{Action: "/panel/sucursales/paging", Value: v.pager.State().SearchTerm}
	}))
	v.doc.Append(branchTableID, templateNode("branches-table", func() any { return v.pager.Rows() }))
	v.doc.Append("sucursal-form", templateNode("branches-form", func() any { return v.currentForm() }))

	loader := serviceLoader(m.branches.List, func(error) {
		v.setFlash(FlashError, "Error", "No se pudieron cargar las sucursales")
	})
	opts := append([]pagination.Option{pagination.WithFormAction("/panel/sucursales/paging")}, m.opts...)
	pager, err := pagination.New(ctx, v.doc, branchTableID, loader, m.logger, opts...)
	if err != nil {
		return nil, err
	}
	v.pager = pager
	return v, nil
}

type branchesView struct {
	*baseView
	module *BranchesModule
	pager  *pagination.Controller[*domain.Branch]

	formMu sync.Mutex
	form   *branchForm
}

type branchForm struct {
	Title    string
	ID       string
	Input    domain.BranchInput
	Problems []string
}

func (v *branchesView) HeaderActions() []Action { return newAction("sucursales") }

func (v *branchesView) Pager() Pager { return v.pager }

func (v *branchesView) currentForm() *branchForm {
	v.formMu.Lock()
	defer v.formMu.Unlock()
	return v.form
}

func (v *branchesView) setForm(f *branchForm) {
	v.formMu.Lock()
	defer v.formMu.Unlock()
	v.form = f
}

func (v *branchesView) OpenNew(context.Context) error {
	v.setForm(&branchForm{Title: "Nueva Sucursal"})
	return nil
}

func (v *branchesView) OpenEdit(ctx context.Context, id string) error {
	b, err := v.module.branches.GetByID(ctx, id)
	if err != nil {
		v.failure(err)
		return err
	}
	v.setForm(&branchForm{
		Title: "Editar Sucursal",
		ID:    b.ID,
		Input: domain.BranchInput{
			Company:  b.Company,
			Name:     b.Name,
			Phone:    b.Phone,
			Address:  b.Address,
			Document: b.Document,
		},
	})
	return nil
}

func (v *branchesView) CloseForm() { v.setForm(nil) }

func (v *branchesView) Save(ctx context.Context, f Form) error {
	id := f.Values.Get("id")
	in := domain.BranchInput{
		Company:  f.Values.Get("empresa"),
		Name:     f.Values.Get("nombre"),
		Phone:    f.Values.Get("telefono"),
		Address:  f.Values.Get("direccion"),
		Document: f.Values.Get("documento"),
	}

	var err error
	if id == "" {
		_, err = v.module.branches.Create(ctx, in)
	} else {
		_, err = v.module.branches.Update(ctx, id, in)
	}
	if err != nil {
		title := "Nueva Sucursal"
		if id != "" {
			title = "Editar Sucursal"
		}
		v.setForm(&branchForm{Title: title, ID: id, Input: in, Problems: problemsOf(err)})
		v.failure(err)
		return err
	}
	v.CloseForm()
	v.setFlash(FlashSuccess, "¡Guardado!", "La sucursal ha sido guardada.")
	return v.pager.LoadData(ctx)
}

func (v *branchesView) Delete(ctx context.Context, id string) error {
	if err := v.module.branches.Delete(ctx, id); err != nil {
		v.failure(err)
		return err
	}
	v.setFlash(FlashSuccess, "¡Eliminado!", "La sucursal ha sido eliminada.")
	return v.pager.LoadData(ctx)
}

func (v *branchesView) Unmount() {
	v.CloseForm()
	v.baseView.Unmount()
}

func problemsOf(err error) []string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Problems
	}
	return nil
}

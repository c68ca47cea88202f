package panel

import (
	"context"
	"log/slog"
	"sync"

	"adminpanel/internal/domain"
	"adminpanel/internal/pagination"
)

const userTableID = "user-table"

// UsersModule manages usuarios.
type UsersModule struct {
	users    domain.UserService
	branches domain.BranchService
	logger   *slog.Logger
	opts     []pagination.Option
}

func NewUsersModule(users domain.UserService, branches domain.BranchService, logger *slog.Logger, opts ...pagination.Option) *UsersModule {
	return &UsersModule{users: users, branches: branches, logger: logger, opts: opts}
}

func (m *UsersModule) Name() string  { return "usuarios" }
func (m *UsersModule) Title() string { return "Usuarios" }
func (m *UsersModule) Icon() string  { return "bx bx-user" }

func (m *UsersModule) Mount(ctx context.Context, s *Session) (View, error) {
	v := &usersView{
		baseView: newBaseView("Usuarios", m.logger),
		module:   m,
		session:  s,
	}
	v.doc.Append("user-search", templateNode("search", func() any {
		return searchData{Action: "/panel/usuarios/paging", Value: v.pager.State().SearchTerm}
	}))
	v.doc.Append(userTableID, templateNode("users-table", func() any { return v.pager.Rows() }))
	v.doc.Append("user-form", templateNode("users-form", func() any { return v.currentForm() }))

	loader := serviceLoader(m.users.List, func(error) {
		v.setFlash(FlashError, "Error", "No se pudieron cargar los usuarios")
	})
	opts := append([]pagination.Option{pagination.WithFormAction("/panel/usuarios/paging")}, m.opts...)
	pager, err := pagination.New(ctx, v.doc, userTableID, loader, m.logger, opts...)
	if err != nil {
		return nil, err
	}
	v.pager = pager
	return v, nil
}

type usersView struct {
	*baseView
	module  *UsersModule
	session *Session
	pager   *pagination.Controller[*domain.User]

	formMu sync.Mutex
	form   *userForm
}

type userForm struct {
	Title    string
	ID       string
	Input    domain.UserInput
	Branches []*domain.BranchRef
	Problems []string
}

// AvatarPreview is the image shown next to the file input.
func (f *userForm) AvatarPreview() string {
	if f.Input.AvatarURL == "" {
		return domain.DefaultAvatarURL
	}
	return f.Input.AvatarURL
}

type searchData struct {
	Action string
	Value  string
}

func (v *usersView) HeaderActions() []Action { return newAction("usuarios") }

func (v *usersView) Pager() Pager { return v.pager }

func (v *usersView) currentForm() *userForm {
	v.formMu.Lock()
	defer v.formMu.Unlock()
	return v.form
}

func (v *usersView) setForm(f *userForm) {
	v.formMu.Lock()
	defer v.formMu.Unlock()
	v.form = f
}

func (v *usersView) OpenNew(ctx context.Context) error {
	branches, err := v.module.branches.Options(ctx)
	if err != nil {
		v.failure(err)
		return err
	}
	v.setForm(&userForm{Title: "Nuevo Usuario", Branches: branches})
	return nil
}

func (v *usersView) OpenEdit(ctx context.Context, id string) error {
	u, err := v.module.users.GetByID(ctx, id)
	if err != nil {
		v.failure(err)
		return err
	}
	branches, err := v.module.branches.Options(ctx)
	if err != nil {
		v.failure(err)
		return err
	}
	v.setForm(&userForm{
		Title: "Editar Usuario",
		ID:    u.ID,
		Input: domain.UserInput{
			Name:      u.Name,
			Phone:     u.Phone,
			Role:      u.Role,
			Username:  u.Username,
			BranchID:  u.BranchID,
			AvatarURL: u.AvatarURL,
		},
		Branches: branches,
	})
	return nil
}

func (v *usersView) CloseForm() { v.setForm(nil) }

// Save creates or updates the user in f. On failure the form stays open with
// the submitted values. Saving the signed-in user refreshes the session.
func (v *usersView) Save(ctx context.Context, f Form) error {
	id := f.Values.Get("id")
	in := domain.UserInput{
		Name:      f.Values.Get("nombre"),
		Phone:     f.Values.Get("telefono"),
		Role:      f.Values.Get("rol"),
		Username:  f.Values.Get("usuario"),
		PIN:       f.Values.Get("pin"),
		BranchID:  f.Values.Get("sucursal_id"),
		AvatarURL: f.Values.Get("avatar_url"),
	}

	var (
		saved *domain.User
		err   error
	)
	if id == "" {
		saved, err = v.module.users.Create(ctx, in, f.Avatar)
	} else {
		saved, err = v.module.users.Update(ctx, id, in, f.Avatar)
	}
	if err != nil {
		v.keepForm(ctx, id, in, err)
		v.failure(err)
		return err
	}

	if saved.ID == v.session.Principal.UserID {
		v.session.SetUser(saved)
	}
	v.CloseForm()
	v.setFlash(FlashSuccess, "¡Guardado!", "El usuario ha sido guardado.")
	return v.pager.LoadData(ctx)
}

func (v *usersView) keepForm(ctx context.Context, id string, in domain.UserInput, err error) {
	form := v.currentForm()
	if form == nil {
		title := "Nuevo Usuario"
		if id != "" {
			title = "Editar Usuario"
		}
		form = &userForm{Title: title, ID: id}
		branches, optErr := v.module.branches.Options(ctx)
		if optErr != nil {
			v.logger.ErrorContext(ctx, "load branch options", "err", optErr)
		}
		form.Branches = branches
	}
	next := *form
	in.PIN = ""
	next.Input = in
	next.Problems = problemsOf(err)
	v.setForm(&next)
}

func (v *usersView) Delete(ctx context.Context, id string) error {
	if err := v.module.users.Delete(ctx, id); err != nil {
		v.failure(err)
		return err
	}
	v.setFlash(FlashSuccess, "¡Eliminado!", "El usuario ha sido eliminado.")
	return v.pager.LoadData(ctx)
}

func (v *usersView) Unmount() {
	v.CloseForm()
	v.baseView.Unmount()
}

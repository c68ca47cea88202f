package panel

import (
	"errors"
	"log/slog"
	"sync"

	"adminpanel/internal/domain"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown above the module content.
type Flash struct {
	Kind    string
	Title   string
	Message string
}

// Action is a header button.
type Action struct {
	ID    string
	Label string
	Href  string
	Icon  string
}

type baseView struct {
	title  string
	doc    *Document
	logger *slog.Logger

	mu        sync.Mutex
	flash     *Flash
	unmounted bool
}

func newBaseView(title string, logger *slog.Logger) *baseView {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &baseView{title: title, doc: NewDocument(), logger: logger}
}

func (v *baseView) Title() string { return v.title }

func (v *baseView) Document() *Document { return v.doc }

func (v *baseView) HeaderActions() []Action { return nil }

func (v *baseView) Flash() *Flash {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.flash
	v.flash = nil
	return f
}

func (v *baseView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unmounted = true
	v.flash = nil
}

func (v *baseView) setFlash(kind, title, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unmounted {
		return
	}
	v.flash = &Flash{Kind: kind, Title: title, Message: msg}
}

// Fail shows err as the view's flash. It serves errors raised before the view
// is reached, such as an unreadable form.
func (v *baseView) Fail(err error) { v.failure(err) }

// failure turns a service error into a flash. Unexpected errors are logged and
// shown with a generic message.
func (v *baseView) failure(err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		v.setFlash(FlashError, "Error", verr.Error())
	case errors.Is(err, domain.ErrDuplicateUsername):
		v.setFlash(FlashError, "Error", "El nombre de usuario ya está en uso")
	case errors.Is(err, domain.ErrBranchInUse):
		v.setFlash(FlashError, "Error", "La sucursal tiene usuarios asignados")
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrBranchNotFound):
		v.setFlash(FlashError, "Error", "El registro no existe")
	case errors.Is(err, domain.ErrUnsupportedImage):
		v.setFlash(FlashError, "Error", "El archivo debe ser una imagen")
	case errors.Is(err, domain.ErrImageTooLarge):
		v.setFlash(FlashError, "Error", "La imagen es demasiado grande")
	default:
		v.logger.Error("panel operation failed", "view", v.title, "err", err)
		v.setFlash(FlashError, "Error", "Hubo un problema, inténtalo de nuevo más tarde")
	}
}

func newAction(module string) []Action {
	return []Action{{
		ID:    "btn-nuevo-" + module,
		Label: "Nuevo",
		Href:  "/panel/" + module + "/new",
		Icon:  "bx bx-plus",
	}}
}

package client

import (
	"context"
	"fmt"
)

// ModalState is the create/edit dialog state machine.
type ModalState string

const (
	ModalClosed     ModalState = "closed"
	ModalNew        ModalState = "new"
	ModalEditing    ModalState = "editing"
	ModalSubmitting ModalState = "submitting"
)

// Endpoint describes one entity's REST family.
type Endpoint struct {
	// List is the collection path, also the POST target.
	List string
	// Item renders the path for one id. When nil, "<List>/<id>" is used.
	Item func(id int64) string
}

func (e Endpoint) item(id int64) string {
	if e.Item != nil {
		return e.Item(id)
	}
	return fmt.Sprintf("%s/%d", e.List, id)
}

// ResourceConfig parameterises a Resource.
type ResourceConfig[T any] struct {
	// Name is the human label used in notification prose.
	Name     string
	Endpoint Endpoint
	API      *API
	Notifier *Notifier
	// Validate runs before any write. A non-nil error keeps the modal
	// open and suppresses the network call.
	Validate func(T) error
	// ID extracts the entity id, needed for Update and Delete.
	ID func(T) int64
}

// Resource is the generic list + create/edit modal + delete triad every
// entity screen instantiates. It holds the full fetched collection;
// filtering and pagination happen over Items via the filter helpers.
type Resource[T any] struct {
	cfg     ResourceConfig[T]
	items   []T
	modal   ModalState
	editing *T
	lastErr error
}

// NewResource builds a Resource.
func NewResource[T any](cfg ResourceConfig[T]) *Resource[T] {
	return &Resource[T]{cfg: cfg, modal: ModalClosed}
}

// Load fetches the full collection. On failure it notifies and keeps
// the previous list so the screen degrades to stale data.
func (r *Resource[T]) Load(ctx context.Context) error {
	var fetched []T
	if err := r.cfg.API.Get(ctx, r.cfg.Endpoint.List, &fetched); err != nil {
		r.notifyError(fmt.Sprintf("could not load %s", r.cfg.Name))
		return err
	}
	r.items = fetched
	return nil
}

// Items returns the fetched collection in backend order.
func (r *Resource[T]) Items() []T { return r.items }

// Modal returns the dialog state.
func (r *Resource[T]) Modal() ModalState { return r.modal }

// LastError returns the error kept with an open modal after a failed
// submit, nil otherwise.
func (r *Resource[T]) LastError() error { return r.lastErr }

// OpenNew opens the dialog for a fresh entity.
func (r *Resource[T]) OpenNew() {
	r.modal = ModalNew
	r.editing = nil
	r.lastErr = nil
}

// OpenEdit opens the dialog over an existing entity.
func (r *Resource[T]) OpenEdit(item T) {
	r.modal = ModalEditing
	r.editing = &item
	r.lastErr = nil
}

// Close discards the dialog and any unsaved input.
func (r *Resource[T]) Close() {
	r.modal = ModalClosed
	r.editing = nil
	r.lastErr = nil
}

// Submit validates and writes the dialog's entity: POST when the
// dialog was opened fresh, PATCH otherwise. On success the list is
// re-fetched and the modal closes. On any failure the modal stays open
// with the input intact.
func (r *Resource[T]) Submit(ctx context.Context, item T) error {
	if r.modal == ModalClosed {
		return fmt.Errorf("%s: no open dialog", r.cfg.Name)
	}
	if r.cfg.Validate != nil {
		if err := r.cfg.Validate(item); err != nil {
			r.lastErr = err
			r.notifyError(err.Error())
			return err
		}
	}

	creating := r.modal == ModalNew
	r.modal = ModalSubmitting

	var err error
	if creating {
		err = r.cfg.API.Post(ctx, r.cfg.Endpoint.List, item, nil)
	} else {
		err = r.cfg.API.Patch(ctx, r.cfg.Endpoint.item(r.cfg.ID(item)), item, nil)
	}
	if err != nil {
		if creating {
			r.modal = ModalNew
		} else {
			r.modal = ModalEditing
		}
		r.lastErr = err
		r.notifyError(fmt.Sprintf("could not save %s", r.cfg.Name))
		return err
	}

	r.Close()
	r.notifySuccess(fmt.Sprintf("%s saved", r.cfg.Name))
	// A failed refresh already notifies; the write itself succeeded.
	_ = r.Load(ctx)
	return nil
}

// Delete removes an entity after the confirm hook approves. The
// in-memory list drops the item optimistically.
func (r *Resource[T]) Delete(ctx context.Context, item T, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return nil
	}
	id := r.cfg.ID(item)
	if err := r.cfg.API.Delete(ctx, r.cfg.Endpoint.item(id)); err != nil {
		r.notifyError(fmt.Sprintf("could not delete %s", r.cfg.Name))
		return err
	}
	kept := r.items[:0]
	for _, it := range r.items {
		if r.cfg.ID(it) != id {
			kept = append(kept, it)
		}
	}
	r.items = kept
	r.notifySuccess(fmt.Sprintf("%s deleted", r.cfg.Name))
	return nil
}

func (r *Resource[T]) notifyError(msg string) {
	if r.cfg.Notifier != nil {
		r.cfg.Notifier.Error(msg)
	}
}

func (r *Resource[T]) notifySuccess(msg string) {
	if r.cfg.Notifier != nil {
		r.cfg.Notifier.Success(msg)
	}
}

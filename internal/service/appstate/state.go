// Package appstate holds the single application-state object of an admin
// session. State only changes through the named intents below.
package appstate

import (
	"errors"
	"maps"
	"sync"

	"github.com/mamadbah2/backoffice/internal/domain/models"
)

// DefaultItem is the sidebar entry selected when a session starts.
const DefaultItem = "dashboard"

// FormState tracks one form instance.
type FormState struct {
	Submitting bool              `json:"submitting"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// State is the read-only view handed to callers.
type State struct {
	OpenMenu   string               `json:"openMenu"`
	ActiveItem string               `json:"activeItem"`
	Forms      map[string]FormState `json:"forms"`
}

func (s State) clone() State {
	out := State{OpenMenu: s.OpenMenu, ActiveItem: s.ActiveItem, Forms: make(map[string]FormState, len(s.Forms))}
	for id, form := range s.Forms {
		form.Errors = maps.Clone(form.Errors)
		out.Forms[id] = form
	}
	return out
}

// Intent is a named mutation of the state.
type Intent interface {
	apply(s *State) error
}

// OpenMenu opens the named dropdown and closes any other. Opening the menu
// that is already open closes it.
type OpenMenu struct {
	Name string
}

func (i OpenMenu) apply(s *State) error {
	if i.Name == "" || s.OpenMenu == i.Name {
		s.OpenMenu = ""
		return nil
	}
	s.OpenMenu = i.Name
	return nil
}

// CloseMenus closes every dropdown.
type CloseMenus struct{}

func (CloseMenus) apply(s *State) error {
	s.OpenMenu = ""
	return nil
}

// SelectItem activates a sidebar entry and closes menus.
type SelectItem struct {
	Item string
}

func (i SelectItem) apply(s *State) error {
	if i.Item == "" {
		return errors.New("item must not be empty")
	}
	s.ActiveItem = i.Item
	s.OpenMenu = ""
	return nil
}

// SubmitForm marks a form as submitting. A form already submitting rejects
// the intent with a KindBusy error.
type SubmitForm struct {
	Form string
}

func (i SubmitForm) apply(s *State) error {
	if s.Forms[i.Form].Submitting {
		return models.NewError(models.KindBusy, 0, "A submission is already in progress for this form", nil)
	}
	s.Forms[i.Form] = FormState{Submitting: true}
	return nil
}

// FinishSubmit releases the form and records its field errors, if any.
type FinishSubmit struct {
	Form   string
	Errors map[string]string
}

func (i FinishSubmit) apply(s *State) error {
	if len(i.Errors) == 0 {
		delete(s.Forms, i.Form)
		return nil
	}
	s.Forms[i.Form] = FormState{Errors: maps.Clone(i.Errors)}
	return nil
}

// Store owns a State behind a mutex.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates the state for a new session.
func NewStore() *Store {
	return &Store{state: State{ActiveItem: DefaultItem, Forms: map[string]FormState{}}}
}

// Dispatch applies an intent and returns the resulting state. A rejected
// intent leaves the state untouched.
func (s *Store) Dispatch(intent Intent) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := intent.apply(&next); err != nil {
		return s.state.clone(), err
	}
	s.state = next
	return s.state.clone(), nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Submit runs fn while the form is marked as submitting, then records the
// outcome. Validation failures are kept on the form so they can be shown.
// The form is released even if fn panics.
func (s *Store) Submit(form string, fn func() error) (err error) {
	if _, err := s.Dispatch(SubmitForm{Form: form}); err != nil {
		return err
	}

	defer func() {
		finish := FinishSubmit{Form: form}
		var failure *models.Error
		if errors.As(err, &failure) && failure.Kind == models.KindValidation {
			finish.Errors = failure.Fields
		}
		_, _ = s.Dispatch(finish)
	}()

	return fn()
}

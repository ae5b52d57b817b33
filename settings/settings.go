// Package settings manages the persisted dashboard preferences.
package settings

import (
	"errors"
	"fmt"
	"slices"

	"dashboard/models"
	"dashboard/store"
)

// Key is the store key the settings are persisted under.
const Key = "settings"

// ErrInvalidChoice is returned when a vibe outside the enumerated set is
// requested.
var ErrInvalidChoice = errors.New("invalid vibe choice")

// Vibes is the enumerated set of selectable vibes. The first entry is the
// default.
var Vibes = []string{
	"Soft grind",
	"Locked in",
	"CEO mode",
	"Golden retriever energy",
	"Cozy & calm",
	"Unhinged (but productive)",
}

// Valid reports whether v is a member of the vibe enumeration.
func Valid(v string) bool {
	return slices.Contains(Vibes, v)
}

// Repository owns the in-memory settings and is the only writer to its
// backing store key. Settings load once, on first access.
type Repository struct {
	store    store.Store
	settings models.Settings
	loaded   bool
}

// NewRepository creates a repository over the given store.
func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) ensureLoaded() {
	if r.loaded {
		return
	}
	loaded := models.Settings{Vibe: Vibes[0]}
	if !r.store.Load(Key, &loaded) {
		loaded = models.Settings{Vibe: Vibes[0]}
	}
	r.settings = loaded
	r.loaded = true
}

// Vibe returns the current vibe. A stored value outside the enumeration is
// replaced by the default, which is written back so the file and the
// in-memory copy agree again. The heal write is best-effort; a later
// SetVibe persists regardless.
func (r *Repository) Vibe() string {
	r.ensureLoaded()

	if !Valid(r.settings.Vibe) {
		r.settings.Vibe = Vibes[0]
		_ = r.store.Save(Key, r.settings)
	}
	return r.settings.Vibe
}

// SetVibe updates the current vibe. Values outside the enumeration fail
// with ErrInvalidChoice; setting the already-current vibe skips the
// redundant write.
func (r *Repository) SetVibe(v string) error {
	if !Valid(v) {
		return fmt.Errorf("%w: %q", ErrInvalidChoice, v)
	}

	r.ensureLoaded()
	if v == r.settings.Vibe {
		return nil
	}

	prev := r.settings.Vibe
	r.settings.Vibe = v
	if err := r.store.Save(Key, r.settings); err != nil {
		r.settings.Vibe = prev
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

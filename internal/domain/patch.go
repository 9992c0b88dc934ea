package domain

import (
	"encoding/json"
	"time"
)

// PatchField is an optional update to a single field. Set reports whether
// the field appeared in the patch at all; a Set field with a nil Value
// clears it. This replaces open-ended merge objects so that only the
// fields enumerated on TodoPatch can ever be written.
type PatchField[T any] struct {
	Set   bool
	Value *T
}

func (f *PatchField[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f PatchField[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// TodoPatch enumerates the mutable fields of a task. CompletedBy is not
// patchable directly: it follows CompletedAt (stamped with the acting
// user on completion, cleared on un-completion).
type TodoPatch struct {
	Title       PatchField[string]    `json:"title"`
	Description PatchField[string]    `json:"description"`
	ExpiresAt   PatchField[time.Time] `json:"expiresAt"`
	CompletedAt PatchField[time.Time] `json:"completedAt"`
	IsMuted     PatchField[bool]      `json:"isMuted"`
}

func (p *TodoPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.ExpiresAt.Set &&
		!p.CompletedAt.Set && !p.IsMuted.Set
}

// Apply merges the patch into the task field by field and reports whether
// a critical field (title, description, due time) changed and whether the
// task transitioned to completed. actor is stamped as CompletedBy on a
// completion transition.
func (p *TodoPatch) Apply(todo *Todo, actor *User) (critical, completed bool) {
	if p.Title.Set && p.Title.Value != nil && *p.Title.Value != todo.Title {
		todo.Title = *p.Title.Value
		critical = true
	}
	if p.Description.Set && !equalStringPtr(p.Description.Value, todo.Description) {
		todo.Description = p.Description.Value
		critical = true
	}
	if p.ExpiresAt.Set && !equalTimePtr(p.ExpiresAt.Value, todo.ExpiresAt) {
		todo.ExpiresAt = p.ExpiresAt.Value
		critical = true
	}
	if p.CompletedAt.Set {
		if p.CompletedAt.Value != nil && todo.CompletedAt == nil {
			completed = true
		}
		todo.CompletedAt = p.CompletedAt.Value
		if p.CompletedAt.Value != nil {
			id := actor.ID
			todo.CompletedBy = &id
		} else {
			todo.CompletedBy = nil
		}
	}
	if p.IsMuted.Set && p.IsMuted.Value != nil {
		todo.IsMuted = *p.IsMuted.Value
	}
	return critical, completed
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

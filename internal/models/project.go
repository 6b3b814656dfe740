package models

import (
	"time"

	"clipforge/internal/edit"
)

// Project ties a source video to its current edit spec. The spec column is
// the authoritative authoring state; renders read from it but never write it.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	SourceRef string        `json:"sourceRef"`
	Spec      edit.EditSpec `json:"editSpec"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	DeletedAt *time.Time    `json:"deletedAt,omitempty"`
}

// EditRevision is one append-only history entry: the full spec as it stood
// after an edit, never mutated afterwards.
type EditRevision struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"projectId"`
	Spec      edit.EditSpec `json:"editSpec"`
	CreatedAt time.Time     `json:"createdAt"`
}

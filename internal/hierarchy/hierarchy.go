// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy enforces the one-level category tree: a category is a
// root or the child of a root, never both a parent and a child.
package hierarchy

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
)

var (
	ErrSelfReference         = errors.New("category cannot be its own parent")
	ErrAlreadyAParent        = errors.New("category has children and cannot become a child")
	ErrParentNotFound        = errors.New("parent category does not exist")
	ErrGrandparentNotAllowed = errors.New("parent category is itself a child")
)

// ValidationError reports a rejected parent assignment. Reason is one of
// the Err* values above.
type ValidationError struct {
	CategoryID uuid.UUID
	ParentID   uuid.UUID
	Reason     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("assign parent %s to category %s: %v", e.ParentID, e.CategoryID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// ChildCount returns how many categories name id as their parent.
func ChildCount(id uuid.UUID, all []models.Category) int {
	n := 0
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n
}

// CanEditParent reports whether category's parent may be changed at all.
func CanEditParent(category models.Category, all []models.Category) bool {
	return ChildCount(category.ID, all) == 0
}

// ValidateParentAssignment checks that category may take proposedParentID
// as its parent. A nil proposal (make it a root) is always allowed.
func ValidateParentAssignment(category models.Category, proposedParentID *uuid.UUID, all []models.Category) error {
	if proposedParentID == nil {
		return nil
	}
	parentID := *proposedParentID
	fail := func(reason error) error {
		return &ValidationError{CategoryID: category.ID, ParentID: parentID, Reason: reason}
	}

	if parentID == category.ID {
		return fail(ErrSelfReference)
	}
	if ChildCount(category.ID, all) > 0 {
		return fail(ErrAlreadyAParent)
	}

	var parent *models.Category
	for i := range all {
		if all[i].ID == parentID {
			parent = &all[i]
			break
		}
	}
	if parent == nil {
		return fail(ErrParentNotFound)
	}
	if parent.ParentID != nil {
		return fail(ErrGrandparentNotAllowed)
	}
	return nil
}

// ListValidParents yields every root category except category itself, in
// display order. Roots that already have children remain valid parents.
func ListValidParents(category models.Category, all []models.Category) iter.Seq[models.Category] {
	return func(yield func(models.Category) bool) {
		for _, c := range ordering.Sort(all) {
			if c.ParentID != nil || c.ID == category.ID {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// FlattenForDisplay yields roots in display order, each followed by its
// direct children, then every category whose parent is missing or is not a
// root. Emitted categories have Depth and Orphan set.
func FlattenForDisplay(all []models.Category) iter.Seq[models.Category] {
	return func(yield func(models.Category) bool) {
		sorted := ordering.Sort(all)

		roots := make(map[uuid.UUID]bool)
		children := make(map[uuid.UUID][]models.Category)
		var orphans []models.Category
		for _, c := range sorted {
			if c.ParentID == nil {
				roots[c.ID] = true
			}
		}
		for _, c := range sorted {
			switch {
			case c.ParentID == nil:
			case roots[*c.ParentID]:
				children[*c.ParentID] = append(children[*c.ParentID], c)
			default:
				orphans = append(orphans, c)
			}
		}

		for _, c := range sorted {
			if c.ParentID != nil {
				continue
			}
			c.Depth, c.Orphan = 0, false
			if !yield(c) {
				return
			}
			for _, child := range children[c.ID] {
				child.Depth, child.Orphan = 1, false
				if !yield(child) {
					return
				}
			}
		}
		for _, o := range orphans {
			o.Depth, o.Orphan = 0, true
			if !yield(o) {
				return
			}
		}
	}
}

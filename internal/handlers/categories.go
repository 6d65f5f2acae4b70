// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"meewadmin/internal/cache"
	"meewadmin/internal/hierarchy"
	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
	"meewadmin/internal/persist"
	"meewadmin/internal/slug"
)

const collectionCategories = "categories"

func findCategory(all []models.Category, id uuid.UUID) (models.Category, bool) {
	i := slices.IndexFunc(all, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return models.Category{}, false
	}
	return all[i], true
}

// siblings returns the categories sharing parentID, excluding exclude.
func siblings(all []models.Category, parentID *uuid.UUID, exclude uuid.UUID) []models.Category {
	var out []models.Category
	for _, c := range all {
		if c.ID == exclude {
			continue
		}
		switch {
		case parentID == nil && c.ParentID == nil,
			parentID != nil && c.ParentID != nil && *c.ParentID == *parentID:
			out = append(out, c)
		}
	}
	return out
}

// uniqueCategorySlug returns base, or base with a numeric suffix, such that
// no other category uses it.
func (a *API) uniqueCategorySlug(ctx context.Context, base string, excludeID uuid.UUID) (string, error) {
	var lookupErr error
	s := slug.Unique(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := a.Categories.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	return s, lookupErr
}

// ListCategories returns every category flattened for display: roots in
// display order, each followed by its children, then orphans.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	all, err := cached(r.Context(), a.Cache, cache.QueryKey(collectionCategories), a.Categories.List)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]models.Category, 0, len(all))
	out = slices.AppendSeq(out, hierarchy.FlattenForDisplay(all))
	writeJSON(w, http.StatusOK, out)
}

// CreateCategory adds a category at the end of its sibling list.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in models.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	all, err := a.Categories.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	draft := models.Category{ID: uuid.New()}
	if err := hierarchy.ValidateParentAssignment(draft, in.ParentID, all); err != nil {
		writeError(w, r, err)
		return
	}

	base := in.Slug
	if base == "" {
		base = in.Name
	}
	base = slug.Generate(base)
	if base == "" {
		writeError(w, r, badRequest("name does not produce a usable slug"))
		return
	}
	s, err := a.uniqueCategorySlug(ctx, base, uuid.Nil)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := &models.Category{
		Name:         in.Name,
		Slug:         s,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		ParentID:     in.ParentID,
		DisplayOrder: ordering.AppendNew(siblings(all, in.ParentID, uuid.Nil)),
		IsActive:     in.IsActive == nil || *in.IsActive,
	}
	created, err := a.Categories.Create(ctx, c)
	if err != nil {
		writeError(w, r, persist.Wrap(collectionCategories, "create", uuid.Nil, err))
		return
	}
	a.finish(ctx, persist.Mutation(collectionCategories), created.ID, "create")

	slog.Info("category created", "id", created.ID, "slug", created.Slug, "display_order", created.DisplayOrder)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory applies a partial update. A parent change is checked
// against the one-level hierarchy rule.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.CategoryPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	all, err := a.Categories.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, ok := findCategory(all, id)
	if !ok {
		writeError(w, r, notFound("category"))
		return
	}

	if patch.ParentID.Set {
		if err := hierarchy.ValidateParentAssignment(current, patch.ParentID.Value, all); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if patch.Slug != nil {
		s := slug.Generate(*patch.Slug)
		if s == "" {
			writeError(w, r, badRequest("slug is empty"))
			return
		}
		taken, err := a.Categories.SlugExists(ctx, s, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if taken {
			writeError(w, r, conflict("slug %q is already used", s))
			return
		}
		patch.Slug = &s
	}

	prevParent := current.ParentID
	patch.Apply(&current)
	if !sameParent(prevParent, current.ParentID) {
		current.DisplayOrder = ordering.AppendNew(siblings(all, current.ParentID, current.ID))
	}
	if err := a.Categories.Update(ctx, &current); err != nil {
		writeError(w, r, persist.Wrap(collectionCategories, "update", id, err))
		return
	}
	a.finish(ctx, persist.Mutation(collectionCategories), id, "update")

	writeJSON(w, http.StatusOK, current)
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DeleteCategory removes a category. Its children are kept and surface as
// orphans until they are reassigned.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	all, err := a.Categories.List(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, ok := findCategory(all, id); !ok {
		writeError(w, r, notFound("category"))
		return
	}

	if err := a.Categories.Delete(ctx, id); err != nil {
		writeError(w, r, persist.Wrap(collectionCategories, "delete", id, err))
		return
	}
	a.finish(ctx, persist.Mutation(collectionCategories), id, "delete")

	if n := hierarchy.ChildCount(id, all); n > 0 {
		slog.Warn("category deleted with children", "id", id, "orphaned", n)
	}
	w.WriteHeader(http.StatusNoContent)
}

type parentOptions struct {
	CanEdit bool              `json:"can_edit"`
	Parents []models.Category `json:"parents"`
}

// ValidParents lists the categories that may become the parent of {id}.
func (a *API) ValidParents(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	all, err := a.Categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	current, ok := findCategory(all, id)
	if !ok {
		writeError(w, r, notFound("category"))
		return
	}

	out := parentOptions{
		CanEdit: hierarchy.CanEditParent(current, all),
		Parents: []models.Category{},
	}
	if out.CanEdit {
		out.Parents = slices.AppendSeq(out.Parents, hierarchy.ListValidParents(current, all))
	}
	writeJSON(w, http.StatusOK, out)
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"meewadmin/internal/ordering"
	"meewadmin/internal/persist"
	"meewadmin/internal/store"
)

type reorderRequest struct {
	SourceIndex      *int `json:"source_index" validate:"required,gte=0"`
	DestinationIndex *int `json:"destination_index" validate:"required,gte=0"`
}

type moveRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// collectionParams resolves the {collection} path parameter and the scope
// query parameter of scoped collections. For categories the scope is the
// parent id and an absent scope selects the roots.
func collectionParams(r *http.Request) (string, *uuid.UUID, error) {
	name := chi.URLParam(r, "collection")
	if !store.IsOrderedCollection(name) {
		return "", nil, notFound("collection " + name)
	}
	if !store.IsScoped(name) {
		return name, nil, nil
	}
	raw := r.URL.Query().Get("scope")
	if raw == "" {
		if store.ScopeRequired(name) {
			return "", nil, store.ErrScopeRequired
		}
		return name, nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", nil, badRequest("invalid scope")
	}
	return name, &id, nil
}

// snapshot returns the collection in display sequence.
func (a *API) snapshot(ctx context.Context, collection string, scope *uuid.UUID) ([]ordering.Item, error) {
	items, err := a.Ordered.List(ctx, collection, scope)
	if err != nil {
		return nil, err
	}
	return ordering.Sort(items), nil
}

// ListCollection returns a sortable collection in display order.
func (a *API) ListCollection(w http.ResponseWriter, r *http.Request) {
	name, scope, err := collectionParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := a.snapshot(r.Context(), name, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []ordering.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ReorderCollection moves the row at source_index to destination_index and
// renumbers the whole collection.
func (a *API) ReorderCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, scope, err := collectionParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	items, err := a.snapshot(ctx, name, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := ordering.ReorderByDragDrop(items, *req.SourceIndex, *req.DestinationIndex)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.apply(w, r, name, ws, items, uuid.Nil, "reorder")
}

// MoveInCollection swaps {id} with its neighbour above or below.
func (a *API) MoveInCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, scope, err := collectionParams(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	dir, err := ordering.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	// A category only moves among its siblings, whatever scope was sent.
	if name == collectionCategories {
		c, err := a.Categories.FindByID(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if c == nil {
			writeError(w, r, notFound("category"))
			return
		}
		scope = c.ParentID
	}

	items, err := a.snapshot(ctx, name, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ws, err := ordering.MoveAdjacent(items, id, dir)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a.apply(w, r, name, ws, items, id, "move")
}

// apply persists ws and answers with the mutation result. Cache keys are
// dropped whether or not every write landed.
func (a *API) apply(w http.ResponseWriter, r *http.Request, collection string, ws ordering.WriteSet, current []ordering.Item, entityID uuid.UUID, action string) {
	ctx := r.Context()

	slog.Info("applying display order writes",
		"collection", collection,
		"action", action,
		"writes", len(ws),
		"changed", len(ws.Changed(current)),
	)
	res, err := persist.Apply(ctx, a.Ordered, collection, ws)
	a.finish(ctx, res, entityID, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

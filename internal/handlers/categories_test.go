package handlers

import (
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/cache"
	"meewadmin/internal/models"
)

func seedCategory(env *testEnv, name, slug string, order int, parent *models.Category) models.Category {
	c := models.Category{
		ID:           uuid.New(),
		Name:         name,
		Slug:         slug,
		DisplayOrder: order,
		IsActive:     true,
		CreatedAt:    testNow.Add(time.Duration(order) * time.Minute),
	}
	if parent != nil {
		id := parent.ID
		c.ParentID = &id
	}
	env.Categories.items = append(env.Categories.items, c)
	return c
}

func TestCreateCategory(t *testing.T) {
	env := newTestEnv(t)
	shoes := seedCategory(env, "Shoes", "shoes", 3, nil)

	rr := serve(env.API.CreateCategory, newRequest(http.MethodPost, "/api/categories",
		map[string]any{"name": "Shoes", "parent_id": nil}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body)
	}
	var created models.Category
	decodeBody(t, rr, &created)
	if created.Slug != "shoes-2" {
		t.Errorf("slug: got %q, want shoes-2", created.Slug)
	}
	if created.DisplayOrder != 4 {
		t.Errorf("display_order: got %d, want 4", created.DisplayOrder)
	}
	if !created.IsActive {
		t.Error("new categories are active by default")
	}

	// Child of a root is accepted.
	rr = serve(env.API.CreateCategory, newRequest(http.MethodPost, "/api/categories",
		map[string]any{"name": "Sneakers", "parent_id": shoes.ID}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("child: status %d, body %s", rr.Code, rr.Body)
	}
	var child models.Category
	decodeBody(t, rr, &child)
	if child.DisplayOrder != 1 {
		t.Errorf("first child display_order: got %d, want 1", child.DisplayOrder)
	}
	if !slices.Contains(env.Cache.invalidated, cache.QueryKey("categories")) {
		t.Errorf("categories key not invalidated: %v", env.Cache.invalidated)
	}
	if len(env.CacheLog.entries) != 2 || env.CacheLog.entries[0].action != "create" {
		t.Errorf("cache log: %+v", env.CacheLog.entries)
	}
}

func TestCreateCategory_Rejections(t *testing.T) {
	env := newTestEnv(t)
	root := seedCategory(env, "Shoes", "shoes", 1, nil)
	child := seedCategory(env, "Boots", "boots", 2, &root)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"grandparent", map[string]any{"name": "Chelsea", "parent_id": child.ID}, http.StatusUnprocessableEntity},
		{"missing parent", map[string]any{"name": "Chelsea", "parent_id": uuid.New()}, http.StatusUnprocessableEntity},
		{"missing name", map[string]any{"description": "x"}, http.StatusUnprocessableEntity},
		{"unknown field", map[string]any{"name": "X", "colour": "red"}, http.StatusBadRequest},
		{"malformed", `{"name":`, http.StatusBadRequest},
		{"unsluggable name", map[string]any{"name": "!!!"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(env.API.CreateCategory, newRequest(http.MethodPost, "/api/categories", tt.body))
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
	if len(env.Categories.items) != 2 {
		t.Errorf("rejected creates must not store anything, have %d", len(env.Categories.items))
	}
}

func TestCreateCategory_NilParentID(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env, "Shoes", "shoes", 1, nil)

	rr := serve(env.API.CreateCategory, newRequest(http.MethodPost, "/api/categories",
		map[string]any{"name": "Boots", "parent_id": uuid.Nil}))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rr.Code)
	}
	var body map[string]any
	decodeBody(t, rr, &body)
	if body["error"] != "parent category does not exist" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestCreateCategory_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.Categories.createErr = errors.New("duplicate key value")

	rr := serve(env.API.CreateCategory, newRequest(http.MethodPost, "/api/categories", map[string]any{"name": "Bags"}))
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", rr.Code)
	}
	if len(env.Cache.invalidated) != 0 {
		t.Error("failed create must not invalidate")
	}
}

func TestUpdateCategory_ParentRules(t *testing.T) {
	env := newTestEnv(t)
	a := seedCategory(env, "A", "a", 1, nil)
	b := seedCategory(env, "B", "b", 2, nil)
	c := seedCategory(env, "C", "c", 3, &b)

	// A under B is fine and lands after C among B's children.
	rr := serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"parent_id": b.ID}, "id", a.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("A under B: status %d, body %s", rr.Code, rr.Body)
	}
	var moved models.Category
	decodeBody(t, rr, &moved)
	if moved.DisplayOrder != c.DisplayOrder+1 {
		t.Errorf("A display_order: got %d, want %d", moved.DisplayOrder, c.DisplayOrder+1)
	}

	// B has children and cannot become a child.
	rr = serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"parent_id": a.ID}, "id", b.ID.String()))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("B under A: status %d, body %s", rr.Code, rr.Body)
	}
	var body map[string]string
	decodeBody(t, rr, &body)
	if body["error"] != "category has children and cannot become a child" {
		t.Errorf("error: got %q", body["error"])
	}

	// Explicit null makes C a root; other fields are untouched.
	rr = serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		`{"parent_id": null}`, "id", c.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("C to root: status %d, body %s", rr.Code, rr.Body)
	}
	var updated models.Category
	decodeBody(t, rr, &updated)
	if updated.ParentID != nil || updated.Name != "C" || updated.Slug != "c" {
		t.Errorf("C after patch: %+v", updated)
	}
}

func TestUpdateCategory_Slug(t *testing.T) {
	env := newTestEnv(t)
	seedCategory(env, "Bags", "bags", 1, nil)
	totes := seedCategory(env, "Totes", "totes", 2, nil)

	rr := serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"slug": "Bags"}, "id", totes.ID.String()))
	if rr.Code != http.StatusConflict {
		t.Errorf("taken slug: got %d, want 409", rr.Code)
	}

	rr = serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"slug": "Tote Bags"}, "id", totes.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body)
	}
	var updated models.Category
	decodeBody(t, rr, &updated)
	if updated.Slug != "tote-bags" {
		t.Errorf("slug: got %q, want tote-bags", updated.Slug)
	}
}

func TestUpdateCategory_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rr := serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"name": "X"}, "id", uuid.NewString()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	rr = serve(env.API.UpdateCategory, newRequest(http.MethodPatch, "/",
		map[string]any{"name": "X"}, "id", "not-a-uuid"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want 400", rr.Code)
	}
}

func TestListCategories_FlattenedAndCached(t *testing.T) {
	env := newTestEnv(t)
	shoes := seedCategory(env, "Shoes", "shoes", 2, nil)
	bags := seedCategory(env, "Bags", "bags", 1, nil)
	seedCategory(env, "Boots", "boots", 1, &shoes)
	seedCategory(env, "Totes", "totes", 1, &bags)

	rr := serve(env.API.ListCategories, newRequest(http.MethodGet, "/api/categories", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var list []models.Category
	decodeBody(t, rr, &list)

	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	if want := []string{"Bags", "Totes", "Shoes", "Boots"}; !slices.Equal(names, want) {
		t.Errorf("order: got %v, want %v", names, want)
	}
	if list[1].Depth != 1 {
		t.Errorf("Totes depth: got %d, want 1", list[1].Depth)
	}

	// A second read is served from the snapshot.
	env.Categories.items = nil
	rr = serve(env.API.ListCategories, newRequest(http.MethodGet, "/api/categories", nil))
	decodeBody(t, rr, &list)
	if len(list) != 4 {
		t.Errorf("cached read: got %d categories, want 4", len(list))
	}
}

func TestDeleteCategory(t *testing.T) {
	env := newTestEnv(t)
	root := seedCategory(env, "Shoes", "shoes", 1, nil)
	seedCategory(env, "Boots", "boots", 2, &root)

	rr := serve(env.API.DeleteCategory, newRequest(http.MethodDelete, "/", nil, "id", root.ID.String()))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status %d", rr.Code)
	}
	if len(env.Categories.items) != 1 {
		t.Errorf("remaining: %d", len(env.Categories.items))
	}

	rr = serve(env.API.ListCategories, newRequest(http.MethodGet, "/api/categories", nil))
	var list []models.Category
	decodeBody(t, rr, &list)
	if len(list) != 1 || !list[0].Orphan {
		t.Errorf("child should be listed as an orphan: %+v", list)
	}

	rr = serve(env.API.DeleteCategory, newRequest(http.MethodDelete, "/", nil, "id", root.ID.String()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rr.Code)
	}
}

func TestValidParents(t *testing.T) {
	env := newTestEnv(t)
	r1 := seedCategory(env, "R1", "r1", 2, nil)
	seedCategory(env, "R2", "r2", 1, nil)
	child := seedCategory(env, "Child", "child", 3, &r1)

	rr := serve(env.API.ValidParents, newRequest(http.MethodGet, "/", nil, "id", child.ID.String()))
	var out parentOptions
	decodeBody(t, rr, &out)
	if !out.CanEdit || len(out.Parents) != 2 || out.Parents[0].Name != "R2" {
		t.Errorf("child: %+v", out)
	}

	rr = serve(env.API.ValidParents, newRequest(http.MethodGet, "/", nil, "id", r1.ID.String()))
	decodeBody(t, rr, &out)
	if out.CanEdit || len(out.Parents) != 0 {
		t.Errorf("parent with children: %+v", out)
	}
}

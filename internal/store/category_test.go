// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"meewadmin/internal/models"
)

func TestCategoryStore_CRUD(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{Name: "Test Root", Slug: "test-root-" + uuid.NewString()[:8], DisplayOrder: 900, IsActive: true})
	if err != nil {
		t.Fatalf("Create root: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{Name: "Test Child", Slug: "test-child-" + uuid.NewString()[:8], ParentID: &root.ID, DisplayOrder: 1, IsActive: true})
	if err != nil {
		t.Fatalf("Create child: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "categories", root.ID, child.ID) })

	found, err := s.FindByID(ctx, child.ID)
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v, %v", found, err)
	}
	if found.ParentID == nil || *found.ParentID != root.ID {
		t.Errorf("child parent: got %v, want %s", found.ParentID, root.ID)
	}

	found.Name = "Renamed"
	found.ParentID = nil
	found.DisplayOrder = 901
	if err := s.Update(ctx, found); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := s.FindByID(ctx, child.ID)
	if again.Name != "Renamed" || again.ParentID != nil || again.DisplayOrder != 901 {
		t.Errorf("after update: %+v", again)
	}

	taken, err := s.SlugExists(ctx, root.Slug, uuid.Nil)
	if err != nil || !taken {
		t.Errorf("SlugExists(root slug): %v, %v", taken, err)
	}
	taken, _ = s.SlugExists(ctx, root.Slug, root.ID)
	if taken {
		t.Error("SlugExists should ignore the excluded id")
	}

	if err := s.Delete(ctx, root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(ctx, root.ID)
	if err != nil || gone != nil {
		t.Errorf("expected nil after delete, got %v, %v", gone, err)
	}
}

func TestCategoryStore_DeleteLeavesOrphan(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	root, err := s.Create(ctx, &models.Category{Name: "Doomed", Slug: "doomed-" + uuid.NewString()[:8], IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	child, err := s.Create(ctx, &models.Category{Name: "Left", Slug: "left-" + uuid.NewString()[:8], ParentID: &root.ID, IsActive: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanRows(t, db, "categories", child.ID) })

	if err := s.Delete(ctx, root.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	orphan, _ := s.FindByID(ctx, child.ID)
	if orphan == nil || orphan.ParentID == nil || *orphan.ParentID != root.ID {
		t.Errorf("child should keep the dangling parent id, got %+v", orphan)
	}
}

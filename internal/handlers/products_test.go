package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
)

func TestGenerateVariants(t *testing.T) {
	env := newTestEnv(t)
	p := models.Product{ID: uuid.New(), Name: "Linen Shirt", Slug: "linen-shirt", BasePrice: 40}
	env.Products.product = &p
	env.Products.variants = []models.ProductVariant{
		{ID: uuid.New(), ProductID: p.ID, SKU: "LINEN-SHIRT-S-WHITE", Attributes: map[string]string{"Size": "S", "Colour": "White"}},
	}

	body := map[string]any{"options": []map[string]any{
		{"name": "Size", "values": []string{"S", "M"}},
		{"name": "Colour", "values": []string{"White", "Navy"}},
	}}
	rr := serve(env.API.GenerateVariants, newRequest(http.MethodPost, "/", body, "id", p.ID.String()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body)
	}
	var got generateVariantsResponse
	decodeBody(t, rr, &got)
	if len(got.Created) != 3 || got.Existing != 1 {
		t.Fatalf("created %d, existing %d", len(got.Created), got.Existing)
	}
	if got.Created[0].SKU != "LINEN-SHIRT-S-NAVY" || got.Created[0].Price != 40 {
		t.Errorf("first created: %+v", got.Created[0])
	}

	// Running again creates nothing new.
	rr = serve(env.API.GenerateVariants, newRequest(http.MethodPost, "/", body, "id", p.ID.String()))
	decodeBody(t, rr, &got)
	if len(got.Created) != 0 || got.Existing != 4 {
		t.Errorf("second run: created %d, existing %d", len(got.Created), got.Existing)
	}
}

func TestGenerateVariants_Rejections(t *testing.T) {
	env := newTestEnv(t)
	p := models.Product{ID: uuid.New(), Slug: "cap"}
	env.Products.product = &p

	tests := []struct {
		name string
		id   string
		body any
		want int
	}{
		{"unknown product", uuid.NewString(), map[string]any{"options": []map[string]any{{"name": "Size", "values": []string{"S"}}}}, http.StatusNotFound},
		{"no options", p.ID.String(), map[string]any{"options": []any{}}, http.StatusUnprocessableEntity},
		{"duplicate option", p.ID.String(), map[string]any{"options": []map[string]any{
			{"name": "Size", "values": []string{"S"}},
			{"name": "size", "values": []string{"M"}},
		}}, http.StatusUnprocessableEntity},
		{"only blank values", p.ID.String(), map[string]any{"options": []map[string]any{{"name": "Size", "values": []string{" "}}}}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(env.API.GenerateVariants, newRequest(http.MethodPost, "/", tt.body, "id", tt.id))
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", rr.Code, tt.want, rr.Body)
			}
		})
	}
}

func TestDeleteProductImage_PromotesPrimary(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	primary := models.ProductImage{ID: uuid.New(), ProductID: productID, IsPrimary: true, DisplayOrder: 1, CreatedAt: testNow}
	second := models.ProductImage{ID: uuid.New(), ProductID: productID, DisplayOrder: 3, CreatedAt: testNow}
	third := models.ProductImage{ID: uuid.New(), ProductID: productID, DisplayOrder: 2, CreatedAt: testNow.Add(time.Second)}
	env.Products.images = []models.ProductImage{primary, second, third}
	for _, img := range env.Products.images {
		env.Ordered.items["product_images"] = append(env.Ordered.items["product_images"], img.OrderItem())
	}

	rr := serve(env.API.DeleteProductImage, newRequest(http.MethodDelete, "/", nil,
		"id", productID.String(), "imageID", primary.ID.String()))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body)
	}
	var got deleteImageResponse
	decodeBody(t, rr, &got)
	if got.PrimaryID == nil || *got.PrimaryID != third.ID || env.Products.primary != third.ID {
		t.Errorf("promoted: %v (store %v), want %v", got.PrimaryID, env.Products.primary, third.ID)
	}
	if len(env.Ordered.items["product_images"]) != 2 {
		t.Errorf("image not deleted: %v", env.Ordered.items["product_images"])
	}
}

func TestDeleteProductImage_NonPrimary(t *testing.T) {
	env := newTestEnv(t)
	productID := uuid.New()
	primary := models.ProductImage{ID: uuid.New(), IsPrimary: true, DisplayOrder: 1}
	other := models.ProductImage{ID: uuid.New(), DisplayOrder: 2}
	env.Products.images = []models.ProductImage{primary, other}
	env.Ordered.items["product_images"] = []ordering.Item{primary.OrderItem(), other.OrderItem()}

	rr := serve(env.API.DeleteProductImage, newRequest(http.MethodDelete, "/", nil,
		"id", productID.String(), "imageID", other.ID.String()))
	var got deleteImageResponse
	decodeBody(t, rr, &got)
	if got.PrimaryID == nil || *got.PrimaryID != primary.ID || env.Products.primary != uuid.Nil {
		t.Errorf("primary should be unchanged: %+v", got)
	}

	rr = serve(env.API.DeleteProductImage, newRequest(http.MethodDelete, "/", nil,
		"id", productID.String(), "imageID", uuid.NewString()))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown image: got %d, want 404", rr.Code)
	}
}

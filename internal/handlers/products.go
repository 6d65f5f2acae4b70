package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"

	"meewadmin/internal/catalog"
	"meewadmin/internal/models"
	"meewadmin/internal/persist"
)

const collectionProductImages = "product_images"

type generateVariantsRequest struct {
	Options []models.VariantOption `json:"options" validate:"required,min=1,max=5,dive"`
}

type generateVariantsResponse struct {
	Created  []models.ProductVariant `json:"created"`
	Existing int                     `json:"existing"`
}

// GenerateVariants creates one variant per missing combination of the
// given option values.
func (a *API) GenerateVariants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req generateVariantsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := a.Products.FindByID(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, r, notFound("product"))
		return
	}
	existing, err := a.Products.Variants(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fresh, err := catalog.GenerateVariants(*product, req.Options, existing)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.Products.InsertVariants(ctx, fresh)
	if err != nil {
		writeError(w, r, persist.Wrap("product_variants", "insert", id, err))
		return
	}
	if created == nil {
		created = []models.ProductVariant{}
	}

	slog.Info("variants generated", "product_id", id, "created", len(created), "existing", len(existing))
	writeJSON(w, http.StatusCreated, generateVariantsResponse{Created: created, Existing: len(existing)})
}

type deleteImageResponse struct {
	Deleted   uuid.UUID  `json:"deleted"`
	PrimaryID *uuid.UUID `json:"primary_id"`
}

// DeleteProductImage removes an image from a product's gallery. When the
// primary image goes, the first remaining image takes its place.
func (a *API) DeleteProductImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	imageID, err := urlID(r, "imageID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	images, err := a.Products.Images(ctx, productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !slices.ContainsFunc(images, func(img models.ProductImage) bool { return img.ID == imageID }) {
		writeError(w, r, notFound("product image"))
		return
	}

	if err := a.Ordered.Delete(ctx, collectionProductImages, imageID); err != nil {
		writeError(w, r, persist.Wrap(collectionProductImages, "delete", imageID, err))
		return
	}
	res := persist.Mutation(collectionProductImages)

	out := deleteImageResponse{Deleted: imageID}
	if next, ok := catalog.PromotePrimaryAfterDelete(images, imageID); ok {
		if err := a.Products.SetPrimary(ctx, productID, next); err != nil {
			a.finish(ctx, res, imageID, "delete")
			writeError(w, r, persist.Wrap(collectionProductImages, "set primary", next, err))
			return
		}
		out.PrimaryID = &next
		slog.Info("primary image promoted", "product_id", productID, "image_id", next)
	} else {
		for _, img := range images {
			if img.ID != imageID && img.IsPrimary {
				out.PrimaryID = &img.ID
			}
		}
	}
	a.finish(ctx, res, imageID, "delete")

	writeJSON(w, http.StatusOK, out)
}

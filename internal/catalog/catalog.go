// Package catalog holds the product gallery and variant rules used by the
// product editor.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"meewadmin/internal/models"
	"meewadmin/internal/ordering"
	"meewadmin/internal/slug"
)

var (
	ErrNoOptions       = errors.New("at least one option with values is required")
	ErrDuplicateOption = errors.New("option names must be unique")
)

// PromotePrimaryAfterDelete returns the image that should become primary
// once deletedID is removed from images: the first remaining image in
// display order, but only if the deleted image was the primary one.
func PromotePrimaryAfterDelete(images []models.ProductImage, deletedID uuid.UUID) (uuid.UUID, bool) {
	wasPrimary := false
	remaining := make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		if img.ID == deletedID {
			wasPrimary = img.IsPrimary
			continue
		}
		remaining = append(remaining, img)
	}
	if !wasPrimary || len(remaining) == 0 {
		return uuid.Nil, false
	}
	return ordering.Sort(remaining)[0].ID, true
}

// combinationKey identifies a set of attributes independent of map order.
func combinationKey(attrs map[string]string) string {
	lowered := make(map[string]string, len(attrs))
	for k, v := range attrs {
		lowered[strings.ToLower(k)] = strings.ToLower(v)
	}
	var sb strings.Builder
	for _, k := range slices.Sorted(maps.Keys(lowered)) {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(lowered[k])
		sb.WriteByte(';')
	}
	return sb.String()
}

// GenerateVariants returns one variant per combination of option values
// that is not already in existing. Combinations follow option order, with
// the last option varying fastest. New variants take the product's base
// price and zero stock; their SKU is the product slug followed by each
// value's slug.
func GenerateVariants(product models.Product, options []models.VariantOption, existing []models.ProductVariant) ([]models.ProductVariant, error) {
	seenNames := make(map[string]bool)
	var axes []models.VariantOption
	for _, opt := range options {
		name := strings.TrimSpace(opt.Name)
		if seenNames[strings.ToLower(name)] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOption, name)
		}
		seenNames[strings.ToLower(name)] = true

		var values []string
		for _, v := range opt.Values {
			v = strings.TrimSpace(v)
			if v != "" && !slices.Contains(values, v) {
				values = append(values, v)
			}
		}
		if name == "" || len(values) == 0 {
			continue
		}
		axes = append(axes, models.VariantOption{Name: name, Values: values})
	}
	if len(axes) == 0 {
		return nil, ErrNoOptions
	}

	have := make(map[string]bool, len(existing))
	for _, v := range existing {
		have[combinationKey(v.Attributes)] = true
	}

	var out []models.ProductVariant
	idx := make([]int, len(axes))
	for {
		attrs := make(map[string]string, len(axes))
		parts := []string{product.Slug}
		for i, axis := range axes {
			attrs[axis.Name] = axis.Values[idx[i]]
			parts = append(parts, axis.Values[idx[i]])
		}
		if key := combinationKey(attrs); !have[key] {
			have[key] = true
			out = append(out, models.ProductVariant{
				ProductID:  product.ID,
				SKU:        strings.ToUpper(slug.Join(parts...)),
				Attributes: attrs,
				Price:      product.BasePrice,
			})
		}

		// Advance the odometer, last axis first.
		i := len(axes) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

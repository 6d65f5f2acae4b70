// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssetKind groups uploaded files by the screen that owns them.
type AssetKind string

const (
	AssetBanner     AssetKind = "banner"
	AssetPopup      AssetKind = "popup"
	AssetOnboarding AssetKind = "onboarding"
	AssetProduct    AssetKind = "product"
	AssetCategory   AssetKind = "category"
	AssetLogo       AssetKind = "logo"
	AssetSplash     AssetKind = "splash"
	AssetIcon       AssetKind = "icon"
)

// ParseAssetKind validates a kind coming from an upload form.
func ParseAssetKind(s string) (AssetKind, error) {
	switch k := AssetKind(s); k {
	case AssetBanner, AssetPopup, AssetOnboarding, AssetProduct, AssetCategory,
		AssetLogo, AssetSplash, AssetIcon:
		return k, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q", s)
	}
}

// IsBranding reports whether the asset replaces an app-branding setting.
func (k AssetKind) IsBranding() bool {
	return k == AssetLogo || k == AssetSplash || k == AssetIcon
}

// Asset represents a file uploaded to S3-compatible object storage.
// Metadata is stored in PostgreSQL; the file itself lives in the bucket.
type Asset struct {
	ID           uuid.UUID `json:"id"`
	Kind         AssetKind `json:"kind"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	S3Key        string    `json:"s3_key"`
	ThumbS3Key   *string   `json:"thumb_s3_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsImage returns true if the asset is an image type.
func (a *Asset) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (a *Asset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case a.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.SizeBytes)/float64(mb))
	case a.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(a.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", a.SizeBytes)
	}
}

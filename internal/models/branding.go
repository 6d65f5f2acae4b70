// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Branding setting keys, one per replaceable app asset.
const (
	BrandingLogoURL   = "logo_url"
	BrandingSplashURL = "splash_url"
	BrandingIconURL   = "icon_url"
)

// BrandingKey maps a branding asset kind to its setting key.
func BrandingKey(kind AssetKind) (string, bool) {
	switch kind {
	case AssetLogo:
		return BrandingLogoURL, true
	case AssetSplash:
		return BrandingSplashURL, true
	case AssetIcon:
		return BrandingIconURL, true
	}
	return "", false
}

// BrandingSetting is a single app-branding key-value pair.
type BrandingSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Branding is a convenience map for accessing settings by key.
type Branding map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (b Branding) Get(key, fallback string) string {
	if v, ok := b[key]; ok && v != "" {
		return v
	}
	return fallback
}

package models

import "testing"

func TestAssetIsImage(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/svg+xml", true},
		{"application/pdf", false},
		{"video/mp4", false},
		{"", false},
		{"IMAGE/PNG", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			a := &Asset{ContentType: tt.contentType}
			if got := a.IsImage(); got != tt.want {
				t.Errorf("Asset{ContentType: %q}.IsImage() = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestAssetHumanSize(t *testing.T) {
	tests := []struct {
		sizeBytes int64
		want      string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1536, "2 KB"},
		{1048576, "1.0 MB"},
		{2411724, "2.3 MB"},
	}

	for _, tt := range tests {
		a := &Asset{SizeBytes: tt.sizeBytes}
		if got := a.HumanSize(); got != tt.want {
			t.Errorf("Asset{SizeBytes: %d}.HumanSize() = %q, want %q", tt.sizeBytes, got, tt.want)
		}
	}
}

func TestParseAssetKind(t *testing.T) {
	for _, s := range []string{"banner", "popup", "onboarding", "product", "category", "logo", "splash", "icon"} {
		if _, err := ParseAssetKind(s); err != nil {
			t.Errorf("ParseAssetKind(%q): %v", s, err)
		}
	}
	if _, err := ParseAssetKind("avatar"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBrandingKey(t *testing.T) {
	if key, ok := BrandingKey(AssetLogo); !ok || key != BrandingLogoURL {
		t.Errorf("logo: got %q, %v", key, ok)
	}
	if _, ok := BrandingKey(AssetBanner); ok {
		t.Error("banner is not a branding asset")
	}
	if !AssetSplash.IsBranding() || AssetPopup.IsBranding() {
		t.Error("IsBranding mismatch")
	}
}

func TestBrandingGet(t *testing.T) {
	b := Branding{BrandingLogoURL: "https://cdn/logo.png", BrandingIconURL: ""}
	if got := b.Get(BrandingLogoURL, "x"); got != "https://cdn/logo.png" {
		t.Errorf("logo: got %q", got)
	}
	if got := b.Get(BrandingIconURL, "fallback"); got != "fallback" {
		t.Errorf("empty value: got %q, want fallback", got)
	}
	if got := b.Get("missing", "fallback"); got != "fallback" {
		t.Errorf("missing key: got %q, want fallback", got)
	}
}

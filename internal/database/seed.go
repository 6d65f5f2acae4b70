package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultBranding holds the branding keys the mobile app reads on launch.
// Values start empty until an asset is uploaded.
var defaultBranding = []string{"logo_url", "splash_url", "icon_url"}

// Seed populates the database with initial development data: the branding
// keys and a pair of starter categories. Existing rows are left untouched.
func Seed(db *sql.DB) error {
	for _, key := range defaultBranding {
		if _, err := db.Exec(`
			INSERT INTO branding_settings (key, value) VALUES ($1, '')
			ON CONFLICT (key) DO NOTHING
		`, key); err != nil {
			return fmt.Errorf("seed branding %s: %w", key, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	starters := []struct{ name, slug string }{
		{"Clothing", "clothing"},
		{"Accessories", "accessories"},
	}
	for i, c := range starters {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, display_order) VALUES ($1, $2, $3)
		`, c.name, c.slug, i+1); err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded", "categories", len(starters), "branding_keys", len(defaultBranding))
	return nil
}

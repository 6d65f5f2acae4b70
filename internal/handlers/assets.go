package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"meewadmin/internal/cache"
	"meewadmin/internal/imaging"
	"meewadmin/internal/models"
	"meewadmin/internal/persist"
)

const (
	// maxAssetSize is the largest accepted upload (10 MB).
	maxAssetSize = 10 << 20

	collectionBranding = "branding"
)

// allowedAssetTypes maps accepted MIME types to their file extension.
var allowedAssetTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// thumbableTypes are raster types we can decode. GIF keeps its animation
// and SVG is vector, so neither gets a thumbnail.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type uploadResponse struct {
	ID       uuid.UUID        `json:"id"`
	Kind     models.AssetKind `json:"kind"`
	URL      string           `json:"url"`
	ThumbURL *string          `json:"thumb_url"`
}

// sniffContentType detects the MIME type from the file contents. SVG is
// reported by DetectContentType as XML or plain text.
func sniffContentType(data []byte, filename string) string {
	ct := http.DetectContentType(data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if strings.EqualFold(filepath.Ext(filename), ".svg") &&
		(strings.Contains(ct, "xml") || ct == "text/plain") {
		return "image/svg+xml"
	}
	return ct
}

// UploadAsset stores an image in the public bucket under <kind>/<uuid><ext>
// and, for branding kinds, points the matching setting at it.
func (a *API) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if a.Storage == nil {
		writeError(w, r, errNoStorage)
		return
	}
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize+1024)
	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large, maximum size is 10 MB"})
		return
	}

	kind, err := models.ParseAssetKind(r.FormValue("kind"))
	if err != nil {
		writeError(w, r, badRequest("%v", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, badRequest("no file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAssetSize+1))
	if err != nil {
		writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(data) > maxAssetSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large, maximum size is 10 MB"})
		return
	}

	contentType := sniffContentType(data, header.Filename)
	ext, ok := allowedAssetTypes[contentType]
	if !ok {
		writeError(w, r, badRequest("file type %q is not allowed", contentType))
		return
	}

	fileID := uuid.New()
	key := fmt.Sprintf("%s/%s%s", kind, fileID, ext)
	url, err := a.Storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	asset := &models.Asset{
		Kind:         kind,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		S3Key:        key,
	}
	resp := uploadResponse{Kind: kind, URL: url}

	if thumbableTypes[contentType] {
		thumb, err := imaging.GenerateThumbnail(data, imaging.ThumbWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else {
			thumbKey := fmt.Sprintf("%s/%s_thumb.jpg", kind, fileID)
			thumbURL, err := a.Storage.Upload(ctx, thumbKey, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data)))
			if err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", thumbKey)
			} else {
				asset.ThumbS3Key = &thumbKey
				resp.ThumbURL = &thumbURL
			}
		}
	}

	created, err := a.Assets.Create(ctx, asset)
	if err != nil {
		writeError(w, r, persist.Wrap("assets", "create", uuid.Nil, err))
		return
	}
	resp.ID = created.ID

	if settingKey, ok := models.BrandingKey(kind); ok {
		if err := a.Branding.Set(ctx, settingKey, url); err != nil {
			writeError(w, r, persist.Wrap(collectionBranding, "set "+settingKey, uuid.Nil, err))
			return
		}
		a.finish(ctx, persist.Mutation(collectionBranding), created.ID, "upload "+string(kind))
	}

	slog.Info("asset uploaded",
		"id", created.ID,
		"kind", kind,
		"key", key,
		"size", len(data),
		"content_type", contentType,
	)
	writeJSON(w, http.StatusCreated, resp)
}

// GetBranding returns the current app-branding settings.
func (a *API) GetBranding(w http.ResponseWriter, r *http.Request) {
	settings, err := a.cachedBranding(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (a *API) cachedBranding(r *http.Request) (models.Branding, error) {
	ctx := r.Context()
	key := cache.QueryKey(collectionBranding)

	var settings models.Branding
	if a.Cache != nil && a.Cache.Get(ctx, key, &settings) {
		return settings, nil
	}
	settings, err := a.Branding.All(ctx)
	if err != nil {
		return nil, err
	}
	if a.Cache != nil {
		a.Cache.Set(ctx, key, settings)
	}
	return settings, nil
}

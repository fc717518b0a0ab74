package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/pmedv/folio/content"
)

const (
	maxCoverWidth = 800
	jpegQuality   = 80
)

// handleCover serves a resized JPEG of a content cover image. Originals live
// under <static>/covers/<subject>/; the resized result is cached on disk so
// each cover is processed once.
func (a *App) handleCover(c echo.Context) error {
	subject, ok := content.ParseSubjectType(c.Param("subject"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	name := strings.TrimSuffix(filepath.Base(c.Param("file")), ".jpg")
	if name == "" || name == "." || strings.ContainsAny(name, "./\\") {
		return c.NoContent(http.StatusNotFound)
	}

	cachePath := filepath.Join(a.coverCacheDir(), string(subject), name+".jpg")
	if _, err := os.Stat(cachePath); err == nil {
		return c.File(cachePath)
	}

	src, err := a.openCoverOriginal(subject, name)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	defer src.Close()

	data, err := resizeCover(src)
	if err != nil {
		return fmt.Errorf("resize cover %s/%s: %w", subject, name, err)
	}

	// Best effort: serve the bytes even if the cache write fails.
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err == nil {
		_ = os.WriteFile(cachePath, data, 0o644)
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

func (a *App) coverCacheDir() string {
	return filepath.Join(filepath.Dir(a.Config.DatabasePath), "covers")
}

// openCoverOriginal tries the known source formats for a cover.
func (a *App) openCoverOriginal(subject content.SubjectType, name string) (io.ReadCloser, error) {
	dir := filepath.Join(a.staticDir, "covers", string(subject))
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		f, err := os.Open(filepath.Join(dir, name+ext))
		if err == nil {
			return f, nil
		}
	}
	return nil, os.ErrNotExist
}

// resizeCover decodes an image, scales it down to maxCoverWidth if wider,
// and encodes it as JPEG.
func resizeCover(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxCoverWidth {
		newH := h * maxCoverWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

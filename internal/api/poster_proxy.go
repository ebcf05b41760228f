package api

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// handleProxyPoster proxies a poster image from the catalog's image CDN,
// optionally downscaled. Serving posters through the backend keeps the
// catalog API key and image host out of the client.
//
// Query parameters:
//   - path: (required) poster path as returned by the catalog, e.g. /abc.jpg
//   - w:    (optional) target width in pixels; the image is downscaled
//     server-side when smaller than the original
func (s *Server) handleProxyPoster(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	posterPath := query.Get("path")
	if posterPath == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing 'path' parameter")
		return
	}
	// Only same-CDN paths are proxied; this is not an open proxy.
	if !strings.HasPrefix(posterPath, "/") || strings.Contains(posterPath, "..") {
		RespondWithError(w, http.StatusBadRequest, "Invalid poster path")
		return
	}

	var width uint
	if raw := query.Get("w"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 || parsed > 2000 {
			RespondWithError(w, http.StatusBadRequest, "Invalid 'w' parameter")
			return
		}
		width = uint(parsed)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(strings.TrimRight(s.app.Config().Catalog.ImageBaseURL, "/") + posterPath)
	if err != nil {
		log.Printf("Error fetching poster %s: %v", posterPath, err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch poster")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Poster CDN returned status %d for %s", resp.StatusCode, posterPath)
		RespondWithError(w, http.StatusBadGateway, "Poster server returned error")
		return
	}

	// Posters are immutable per path; cache aggressively.
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if width == 0 {
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
		w.Header().Set("Content-Type", contentType)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Printf("Error copying poster data: %v", err)
		}
		return
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		log.Printf("Error decoding poster %s: %v", posterPath, err)
		RespondWithError(w, http.StatusBadGateway, "Failed to decode poster")
		return
	}
	if uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		log.Printf("Error encoding poster %s: %v", posterPath, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to encode poster")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(buf.Bytes())
}

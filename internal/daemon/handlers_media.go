package daemon

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"cutout/internal/api"
	"cutout/internal/logging"
	"cutout/internal/services"
	"cutout/internal/settings"
	"cutout/internal/textutil"
)

func (s *apiServer) handleRemoveBackground(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.RemoveBackgroundRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, contentType, err := s.resolveImage(r.Context(), req.Image)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	client := s.daemon.removal
	if client == nil || !client.Configured() {
		s.writeError(w, http.StatusNotImplemented, "background removal API key not configured")
		return
	}

	cutout, err := client.Remove(r.Context(), payload, contentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConfiguration):
			s.writeError(w, http.StatusNotImplemented, err.Error())
		case errors.Is(err, services.ErrTimeout):
			s.writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	width, height := req.Width, req.Height
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(cutout)); err == nil {
		width, height = cfg.Width, cfg.Height
	}
	resultType := http.DetectContentType(cutout)
	s.writeJSON(w, http.StatusOK, api.RemoveBackgroundResponse{
		Image:  fmt.Sprintf("data:%s;base64,%s", resultType, base64.StdEncoding.EncodeToString(cutout)),
		Width:  width,
		Height: height,
	})
}

func (s *apiServer) handleZip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var entries []api.ZipEntry
	if err := s.decodeBody(w, r, &entries); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(entries) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files provided")
		return
	}
	if limit := s.daemon.cfg.Server.MaxZipFiles; limit > 0 && len(entries) > limit {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("too many files: %d exceeds limit of %d", len(entries), limit))
		return
	}

	// Decode everything up front; once streaming starts the status code
	// cannot change.
	type decodedEntry struct {
		name string
		data []byte
	}
	decoded := make([]decodedEntry, 0, len(entries))
	for i, entry := range entries {
		data, _, err := decodeInlineImage(entry.Data)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("file %d (%s): %v", i+1, entry.Name, err))
			return
		}
		name := textutil.SanitizeFileName(entry.Name)
		if name == "" {
			name = fmt.Sprintf("file-%02d", i+1)
		}
		decoded = append(decoded, decodedEntry{name: name, data: data})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="cutouts.zip"`)
	w.WriteHeader(http.StatusOK)

	archive := zip.NewWriter(w)
	for _, entry := range decoded {
		entryWriter, err := archive.Create(entry.name)
		if err == nil {
			_, err = entryWriter.Write(entry.data)
		}
		if err != nil {
			// Mid-stream failure: abort the response body.
			s.log().Error("zip stream failed", logging.String("entry", entry.name), logging.Error(err))
			return
		}
	}
	if err := archive.Close(); err != nil {
		s.log().Error("zip stream failed", logging.Error(err))
	}
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	current, err := s.daemon.store.LoadSettings(r.Context(), settings.FromConfig(s.daemon.cfg))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload, err := s.daemon.exporter.Archive(r.Context(), current)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("cutouts-%s.zip", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		s.log().Error("export stream failed", logging.Error(err))
	}
}

// resolveImage accepts a data URL, bare base64 payload, or http(s) URL and
// returns the raw image bytes plus the declared content type.
func (s *apiServer) resolveImage(ctx context.Context, value string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return s.fetchRemoteImage(ctx, trimmed)
	}
	return decodeInlineImage(trimmed)
}

func (s *apiServer) fetchRemoteImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image URL: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image URL: status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody))
	if err != nil {
		return nil, "", fmt.Errorf("read image URL response: %w", err)
	}
	if len(payload) == 0 {
		return nil, "", errors.New("image URL returned an empty body")
	}
	return payload, resp.Header.Get("Content-Type"), nil
}

// decodeInlineImage accepts a data URL or bare base64 string and returns the
// raw bytes plus the declared content type (empty when unknown).
func decodeInlineImage(value string) ([]byte, string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, "", errors.New("missing image data")
	}

	contentType := ""
	encoded := trimmed
	if strings.HasPrefix(trimmed, "data:") {
		meta, payload, ok := strings.Cut(trimmed, ",")
		if !ok {
			return nil, "", errors.New("malformed data URL")
		}
		meta = strings.TrimPrefix(meta, "data:")
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", errors.New("data URL must be base64 encoded")
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		encoded = payload
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", err)
	}
	if len(decoded) == 0 {
		return nil, "", errors.New("empty image data")
	}
	return decoded, contentType, nil
}

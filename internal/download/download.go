package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"

// MaxSize caps a single download. Larger bodies fail rather than fill the disk.
const MaxSize = 256 << 20

// DefaultTimeout bounds a whole request when the caller's client has none.
const DefaultTimeout = 60 * time.Second

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads url into destDir and returns the saved path. The filename comes from
// Content-Disposition or the URL path; the extension from the URL or Content-Type, falling
// back to ".glb". client may be nil. destDir is created if needed.
func Fetch(ctx context.Context, client *http.Client, url, destDir string) (savedPath string, err error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	ext := extensionFromURL(url)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		ext = ".glb"
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	name = sanitizeFilename(name)
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name = name + ext
	}
	savedPath = filepath.Join(destDir, name)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	out, err := os.Create(savedPath)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer out.Close()
	n, err := io.Copy(out, io.LimitReader(resp.Body, MaxSize+1))
	if err == nil && n > MaxSize {
		err = fmt.Errorf("body exceeds %d bytes", MaxSize)
	}
	if err != nil {
		_ = os.Remove(savedPath)
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\"")
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\" ")
	}
	return ""
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch ct {
	case "model/gltf-binary":
		return ".glb"
	case "model/gltf+json":
		return ".gltf"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".glb" || ext == ".gltf" {
		return ext
	}
	return ""
}

func filenameFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
	}
	if !strings.Contains(path, "/") {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	if name == "" || name == "." || name == ".." {
		return "model"
	}
	name = safeNameRe.ReplaceAllString(name, "_")
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}

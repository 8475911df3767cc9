package geo

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultUpdateInterval is how old a geo database file may be before
// AutoLoader treats it as stale and re-downloads it.
const DefaultUpdateInterval = 7 * 24 * time.Hour

// AutoLoader wraps FileLoader with download-before-open behavior: if the
// configured file is missing, empty, or older than UpdateInterval, it is
// downloaded to a .tmp sibling, verified by a full decode, and atomically
// renamed into place. Downloads are serialized by a single mutex per
// loader, with a freshness re-check after the lock is acquired so a
// concurrent caller doesn't duplicate the download.
type AutoLoader struct {
	inner *FileLoader

	GeoIPPath, GeoIPURL     string
	GeoSitePath, GeoSiteURL string
	UpdateInterval          time.Duration
	Logger                  *zap.Logger

	download sync.Mutex
}

// NewAutoLoader builds an AutoLoader. Either GeoIPURL or GeoSiteURL may
// be empty, in which case that half behaves like a plain FileLoader
// (download-before-open is skipped, but format auto-detection and
// lazy/pre-loading still apply).
func NewAutoLoader(geoIPPath, geoIPURL, geoSitePath, geoSiteURL string) *AutoLoader {
	l := &AutoLoader{
		GeoIPPath:      geoIPPath,
		GeoIPURL:       geoIPURL,
		GeoSitePath:    geoSitePath,
		GeoSiteURL:     geoSiteURL,
		UpdateInterval: DefaultUpdateInterval,
		Logger:         zap.NewNop(),
	}
	l.inner = NewFileLoader(geoIPPath, geoSitePath)
	return l
}

func (l *AutoLoader) log() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func (l *AutoLoader) LoadGeoIP(code string) (GeoIPSource, error) {
	if l.GeoIPURL != "" && l.GeoIPPath != "" {
		if err := l.ensureDownloaded(&l.download, l.GeoIPPath, l.GeoIPURL, verifyGeoIPFile); err != nil {
			return GeoIPSource{}, newGeoIPError(DownloadFailed, "%v", err)
		}
	}
	return l.inner.LoadGeoIP(code)
}

func (l *AutoLoader) LoadGeoSite(code string) ([]DomainEntry, error) {
	if l.GeoSiteURL != "" && l.GeoSitePath != "" {
		if err := l.ensureDownloaded(&l.download, l.GeoSitePath, l.GeoSiteURL, verifyGeoSiteFile); err != nil {
			return nil, newGeoSiteError(DownloadFailed, "%v", err)
		}
	}
	return l.inner.LoadGeoSite(code)
}

func (l *AutoLoader) ensureDownloaded(mu *sync.Mutex, path, url string, verify func(string) error) error {
	if !shouldDownload(path, l.UpdateInterval) {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	// Freshness is re-checked after acquiring the lock so a concurrent
	// caller that just finished downloading doesn't trigger a second one.
	if !shouldDownload(path, l.UpdateInterval) {
		return nil
	}

	l.log().Info("downloading geo database", zap.String("path", path), zap.String("url", url))

	if err := downloadVerifyRename(path, url, verify); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			l.log().Warn("geo database download failed, using existing file", zap.String("path", path), zap.Error(err))
			return nil
		}
		l.log().Error("geo database download failed and no existing file to fall back to", zap.String("path", path), zap.Error(err))
		return err
	}

	l.log().Info("geo database downloaded successfully", zap.String("path", path))
	return nil
}

func shouldDownload(path string, interval time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	if info.Size() == 0 {
		return true
	}
	return time.Since(info.ModTime()) > interval
}

func downloadVerifyRename(path, url string, verify func(string) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpPath := path + ".tmp"
	if err := downloadTo(tmpPath, url); err != nil {
		return err
	}

	if err := verify(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

func downloadTo(tmpPath, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return newGeoIPError(DownloadFailed, "unexpected status %s downloading %s", resp.Status, url)
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return f.Sync()
}

package resources

import (
	"os"
	"path/filepath"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko"
)

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the configuration.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	appkey := settings(conf).GetString("app-key")
	tracer().Debugf("config[%s] = %s", "app-key", appkey)
	if appkey == "" {
		return "", core.Error(core.EMISSING, "application key is not set, cannot locate cache")
	}
	cachedir, err := os.UserCacheDir()
	if err != nil {
		return "", core.WrapError(err, core.EMISSING, "user cache directory not available")
	}
	cachedir = filepath.Join(append([]string{cachedir, appkey}, subfolders...)...)
	if _, err = os.Stat(cachedir); os.IsNotExist(err) {
		tracer().Infof("creating cache folder %s", cachedir)
		if err = os.MkdirAll(cachedir, 0755); err != nil {
			return "", core.WrapError(err, core.EINVALID, "cannot create cache folder %s", cachedir)
		}
	}
	return cachedir, nil
}

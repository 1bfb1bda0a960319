package resources

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/schuko"
)

// fontconfig support works by calling the 'fc-list' binary of
// https://www.freedesktop.org/wiki/Software/fontconfig/ once and caching its
// output in the user's config directory.
//
// We call the binary instead of using the C library because of possible
// version issues.

func findFontConfigBinary(conf schuko.Configuration) (string, error) {
	fcpath := conf.GetString("fontconfig")
	if fcpath == "" {
		tracer().Infof("fontconfig not configured: key 'fontconfig' should point location of 'fc-list' binary")
		return "", core.Error(core.EMISSING, "fontconfig not configured")
	}
	if !filepath.IsAbs(fcpath) {
		return "", core.Error(core.EINVALID, "fontconfig binary fc-list must point to absolute path: %s", fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
	}
	return fcpath, nil
}

// cacheFontConfigList returns the path of the cached output of fc-list,
// calling fc-list if the cache does not exist yet or update is set.
func cacheFontConfigList(conf schuko.Configuration, update bool) (string, error) {
	appkey := conf.GetString("app-key")
	uconfdir, err := os.UserConfigDir()
	if appkey == "" || err != nil {
		return "", core.Error(core.EMISSING, "user config directory not set")
	}
	dir := filepath.Join(uconfdir, appkey)
	fcListFilename := filepath.Join(dir, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil && !update {
		return fcListFilename, nil
	}
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return "", core.WrapError(err, core.EINVALID,
			"user configuration path cannot be created: %s", dir)
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		defer fontlistFile.Close()
		fccmd := exec.Command(fcpath)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
	}
	if err != nil {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
	}
	return fcListFilename, nil
}

// loadFontConfigList reads the font file paths from the output of fc-list.
// Lines look like
//
//	/usr/share/fonts/TTF/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold
//
// Font collections (.ttc) are skipped.
func loadFontConfigList(conf schuko.Configuration) ([]string, error) {
	fclist, err := cacheFontConfigList(conf, false)
	if err != nil {
		return nil, err
	}
	fc, err := os.Open(fclist)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID,
			"fontconfig font list cannot be opened: %s", fclist)
	}
	defer fc.Close()
	var fontfiles []string
	scanner := bufio.NewScanner(fc)
	ttc := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		fontpath := strings.TrimSpace(line[:colon])
		switch strings.ToLower(filepath.Ext(fontpath)) {
		case ".ttf", ".otf":
			fontfiles = append(fontfiles, fontpath)
		case ".ttc":
			ttc++
		}
	}
	if err = scanner.Err(); err != nil {
		return fontfiles, core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list: %s", fclist)
	}
	if ttc > 0 {
		tracer().Infof("skipping %d platform fonts: TTC not supported", ttc)
	}
	return fontfiles, nil
}

var loadFontConfigListTask sync.Once
var fontConfigFiles []string

// fontConfigFontFiles returns the font files known to fontconfig. The list is
// loaded once. If fontconfig is not configured, the list is empty.
func fontConfigFontFiles(conf schuko.Configuration) []string {
	loadFontConfigListTask.Do(func() {
		var err error
		if fontConfigFiles, err = loadFontConfigList(conf); err != nil {
			tracer().Infof("no fontconfig font list: %v", err)
			return
		}
		tracer().Infof("loaded fontconfig list with %d fonts", len(fontConfigFiles))
	})
	return fontConfigFiles
}

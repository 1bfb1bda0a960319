/*
Package atlascache keeps built atlases on disk.

An atlas is stored as two files in a cache folder: a PNG image and a JSON
file holding the atlas' dimensions, configuration and regions. Both files
are named after a key, which clients derive from whatever determines the
atlas' content (see Key).

	<key>.png
	<key>.json

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package atlascache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/npillmayer/glyphatlas/core"
	"github.com/npillmayer/glyphatlas/core/locate/resources"
	"github.com/npillmayer/glyphatlas/engine/atlas"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'glyphatlas.sdf'
func tracer() tracing.Trace {
	return tracing.Select("glyphatlas.sdf")
}

// Cache is a folder holding atlases.
type Cache struct {
	Dir string
}

// Open returns the atlas cache in the user's cache directory, as located by
// resources.CacheDirPath.
func Open(conf schuko.Configuration) (*Cache, error) {
	dir, err := resources.CacheDirPath(conf, "atlas")
	if err != nil {
		return nil, err
	}
	return &Cache{Dir: dir}, nil
}

// Key hashes a description of an atlas' content into a cache key. Clients
// pass everything the atlas depends on, e.g. the font's name, the
// characters, the size and the atlas configuration.
func Key(parts ...interface{}) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// metadata is the content of the JSON file
type metadata struct {
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	Config  atlas.Config   `json:"config"`
	Regions []atlas.Region `json:"regions"`
}

func (c *Cache) paths(key string) (string, string) {
	base := filepath.Join(c.Dir, key)
	return base + ".png", base + ".json"
}

// Store writes an atlas to the cache, replacing an atlas stored under the
// same key. Atlases without any texels, i.e. built from empty shapes only,
// cannot be stored and result in an error with code core.EINVALID.
func (c *Cache) Store(key string, a *atlas.Atlas) error {
	if a.Width == 0 || a.Height == 0 {
		tracer().Errorf("cannot store empty %v as %s", a, key)
		return core.Error(core.EINVALID, "cannot store atlas without texels (%d×%d)", a.Width, a.Height)
	}
	pngPath, jsonPath := c.paths(key)
	meta, err := json.MarshalIndent(metadata{
		Width:   a.Width,
		Height:  a.Height,
		Config:  a.Config,
		Regions: a.Regions,
	}, "", "  ")
	if err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode atlas metadata")
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create atlas image %s", pngPath)
	}
	if err = png.Encode(f, a.Image()); err != nil {
		f.Close()
		return core.WrapError(err, core.EINVALID, "cannot write atlas image %s", pngPath)
	}
	if err = f.Close(); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write atlas image %s", pngPath)
	}
	if err = os.WriteFile(jsonPath, meta, 0644); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot write atlas metadata %s", jsonPath)
	}
	tracer().Infof("stored %v as %s", a, key)
	return nil
}

// Load reads an atlas from the cache. If no atlas is stored under key, Load
// returns false. Damaged cache entries result in an error.
func (c *Cache) Load(key string) (*atlas.Atlas, bool, error) {
	pngPath, jsonPath := c.paths(key)
	meta, err := os.ReadFile(jsonPath)
	if errors.Is(err, fs.ErrNotExist) {
		tracer().Debugf("atlas %s not in cache", key)
		return nil, false, nil
	} else if err != nil {
		return nil, false, core.WrapError(err, core.EINVALID, "cannot read atlas metadata %s", jsonPath)
	}
	var m metadata
	if err = json.Unmarshal(meta, &m); err != nil {
		return nil, false, core.WrapError(err, core.EINVALID, "damaged atlas metadata %s", jsonPath)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		return nil, false, core.WrapError(err, core.EINVALID, "cannot read atlas image %s", pngPath)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, false, core.WrapError(err, core.EINVALID, "damaged atlas image %s", pngPath)
	}
	if img.Bounds() != image.Rect(0, 0, m.Width, m.Height) {
		return nil, false, core.Error(core.EINVALID, "atlas image %s has size %v, expected %d×%d",
			pngPath, img.Bounds().Size(), m.Width, m.Height)
	}
	gray, ok := img.(*image.Gray)
	if !ok || gray.Stride != m.Width {
		gray = image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Rect, img, image.Point{}, draw.Src)
	}
	tracer().Debugf("loaded atlas %s from cache", key)
	return &atlas.Atlas{
		Width:   m.Width,
		Height:  m.Height,
		Pix:     gray.Pix,
		Regions: m.Regions,
		Config:  m.Config,
	}, true, nil
}

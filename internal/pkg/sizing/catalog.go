package sizing

import "github.com/ds124wfegd/imagekit/internal/entity"

// CatalogEntry is a named target long-edge (or square side) in pixels.
type CatalogEntry struct {
	Name   string `json:"name"`
	Target int    `json:"target"`
}

// Catalog is an ordered list of entries. Catalogs below are never mutated.
type Catalog []CatalogEntry

var ResponsiveCatalog = Catalog{
	{Name: "mobile", Target: 320},
	{Name: "mobile-large", Target: 480},
	{Name: "tablet", Target: 768},
	{Name: "desktop", Target: 1024},
	{Name: "desktop-large", Target: 1440},
	{Name: "desktop-xl", Target: 1920},
}

var ThumbnailCatalog = Catalog{
	{Name: "tiny", Target: 64},
	{Name: "small", Target: 128},
	{Name: "medium", Target: 256},
	{Name: "large", Target: 384},
	{Name: "gallery", Target: 512},
	{Name: "xl", Target: 768},
}

var FaviconCatalog = Catalog{
	{Name: "favicon-16x16", Target: 16},
	{Name: "favicon-32x32", Target: 32},
	{Name: "favicon-48x48", Target: 48},
	{Name: "favicon-64x64", Target: 64},
	{Name: "favicon-128x128", Target: 128},
	{Name: "apple-touch-icon", Target: 180},
	{Name: "android-chrome-192x192", Target: 192},
	{Name: "android-chrome-512x512", Target: 512},
}

// FaviconICO is the favicon selection name of the multi-size favicon.ico.
const FaviconICO = "favicon.ico"

// ICOSizes are the squares packed into favicon.ico, smallest first.
var ICOSizes = []int{16, 32, 48}

// WantsICO reports whether a favicon selection includes favicon.ico. An empty
// selection means every favicon, the ico included.
func WantsICO(names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if n == FaviconICO {
			return true
		}
	}
	return false
}

var AndroidIconCatalog = Catalog{
	{Name: "mdpi", Target: 48},
	{Name: "hdpi", Target: 72},
	{Name: "xhdpi", Target: 96},
	{Name: "xxhdpi", Target: 144},
	{Name: "xxxhdpi", Target: 192},
	{Name: "play-store", Target: 512},
}

// Density is a named scale multiplier for multi-density exports.
type Density struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
}

var MobileDensities = []Density{
	{Name: "mdpi", Multiplier: 1.0},
	{Name: "hdpi", Multiplier: 1.5},
	{Name: "xhdpi", Multiplier: 2.0},
	{Name: "xxhdpi", Multiplier: 3.0},
	{Name: "xxxhdpi", Multiplier: 4.0},
}

// IOSIconBases are point sizes rendered at @1x, @2x and @3x.
var IOSIconBases = Catalog{
	{Name: "settings", Target: 29},
	{Name: "spotlight", Target: 40},
	{Name: "app", Target: 60},
	{Name: "ipad-app", Target: 76},
	{Name: "app-store", Target: 1024},
}

// Select keeps the entries whose names are listed, in catalog order.
// Unknown names are ignored and an empty selection returns the whole catalog.
func (c Catalog) Select(names []string) Catalog {
	if len(names) == 0 {
		return c
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out Catalog
	for _, e := range c {
		if want[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

// Lookup returns a catalog by its kind.
func Lookup(kind entity.JobKind) Catalog {
	switch kind {
	case entity.KindResponsive:
		return ResponsiveCatalog
	case entity.KindThumbnail:
		return ThumbnailCatalog
	case entity.KindFavicon:
		return FaviconCatalog
	}
	return nil
}

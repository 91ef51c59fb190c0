package jsgpu

import "github.com/hulkholden/canvasclear/client/gfx"

// canvasFormats are the formats a canvas context accepts for configure().
var canvasFormats = []gfx.TextureFormat{
	gfx.TextureFormatBGRA8Unorm,
	gfx.TextureFormatRGBA8Unorm,
	gfx.TextureFormatRGBA16Float,
}

// canvasCapabilities lists the browser's preferred canvas format first,
// followed by the other canvas formats. Browsers always present with vsync
// and support opaque and premultiplied alpha.
func canvasCapabilities(preferred gfx.TextureFormat) gfx.Capabilities {
	var formats []gfx.TextureFormat
	if preferred != "" {
		formats = append(formats, preferred)
	}
	for _, f := range canvasFormats {
		if f != preferred {
			formats = append(formats, f)
		}
	}
	return gfx.Capabilities{
		Formats:      formats,
		PresentModes: []gfx.PresentMode{gfx.PresentModeFifo},
		AlphaModes:   []gfx.AlphaMode{gfx.AlphaModeOpaque, gfx.AlphaModePremultiplied},
	}
}

// requiredLimits converts limits into a requestDevice requiredLimits record,
// keeping only names for which known returns true.
func requiredLimits(limits gfx.Limits, known func(name string) bool) map[string]any {
	out := map[string]any{}
	for _, l := range limits.Named() {
		if known(l.Name) {
			out[l.Name] = float64(l.Value)
		}
	}
	return out
}

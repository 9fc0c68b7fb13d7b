package pdf

import "github.com/mariaherliana/invoice-creation/internal/domain"

type rgb struct{ r, g, b int }

// palette holds the three fixed colors of a visual theme.
type palette struct {
	accent   rgb
	text     rgb
	headerBg rgb
}

var palettes = map[domain.Theme]palette{
	domain.ThemeCream: {
		accent:   rgb{154, 164, 148},
		text:     rgb{92, 74, 61},
		headerBg: rgb{246, 239, 232},
	},
	domain.ThemePastel: {
		accent:   rgb{242, 198, 210},
		text:     rgb{95, 77, 122},
		headerBg: rgb{247, 243, 255},
	},
	domain.ThemeMono: {
		accent:   rgb{43, 111, 119},
		text:     rgb{34, 34, 34},
		headerBg: rgb{247, 247, 247},
	},
}

// paletteFor returns the theme's palette, defaulting to cream.
func paletteFor(theme domain.Theme) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[domain.ThemeCream]
}

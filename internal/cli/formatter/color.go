package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttkit/internal/color"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// terminalBg is what translucent chart colors are blended against.
const terminalBg = "#282828"

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EntityStyle colors a row title by the kind of entity the row shows.
func EntityStyle(t domain.EntityType) lipgloss.Style {
	switch t {
	case domain.EntityCampaign:
		return StyleBold
	case domain.EntityBatch:
		return StylePurple
	case domain.EntityBranch, domain.EntitySection:
		return StyleBlue
	case domain.EntityEquipment:
		return StyleGreen
	case domain.EntityStaff:
		return StyleYellow
	default:
		return StyleFg
	}
}

// TerminalHex converts a css chart color to an opaque #rrggbb. Translucent
// colors are blended onto the terminal background; unparseable ones
// (including "transparent") come back empty.
func TerminalHex(css string) string {
	if strings.HasPrefix(css, "#") {
		if _, err := colorful.Hex(css); err == nil {
			return css
		}
		return ""
	}
	c, err := color.Parse(css)
	if err != nil {
		return ""
	}
	if c.A >= 1 {
		return c.Hex()
	}
	fg, _ := colorful.Hex(c.Hex())
	bg, _ := colorful.Hex(terminalBg)
	return bg.BlendRgb(fg, c.A).Clamped().Hex()
}

// Swatch renders a colored block for a css color, or a dim placeholder when
// the color has no terminal equivalent.
func Swatch(css string) string {
	hex := TerminalHex(css)
	if hex == "" {
		return StyleDim.Render("□")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// OnOff renders a boolean switch state.
func OnOff(on bool) string {
	if on {
		return StyleGreen.Render("on")
	}
	return StyleDim.Render("off")
}

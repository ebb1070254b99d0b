package config

import (
	"fmt"
	"os"

	"github.com/derailed/tcell/v2"
	"github.com/pelletier/go-toml/v2"
)

// Color is a named or hex terminal color.
type Color string

// Color returns the terminal color, or the default color when unset or unknown.
func (c Color) Color() tcell.Color {
	if c == "" || c == "default" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c))
}

// TableStyle colors the resource table.
type TableStyle struct {
	FgColor       Color `toml:"fg"`
	BgColor       Color `toml:"bg"`
	HeaderFgColor Color `toml:"header_fg"`
	CursorFgColor Color `toml:"cursor_fg"`
	CursorBgColor Color `toml:"cursor_bg"`
	BorderColor   Color `toml:"border"`
}

// MenuStyle colors the action menu overlay.
type MenuStyle struct {
	FgColor     Color `toml:"fg"`
	BgColor     Color `toml:"bg"`
	BorderColor Color `toml:"border"`
}

// FlashStyle colors flash messages by level.
type FlashStyle struct {
	InfoColor Color `toml:"info"`
	WarnColor Color `toml:"warn"`
	ErrColor  Color `toml:"error"`
}

// Style holds the UI colors read from style.toml.
type Style struct {
	Table TableStyle `toml:"table"`
	Menu  MenuStyle  `toml:"menu"`
	Flash FlashStyle `toml:"flash"`
}

// NewStyle returns the built-in style.
func NewStyle() *Style {
	return &Style{
		Table: TableStyle{
			FgColor:       "white",
			BgColor:       "default",
			HeaderFgColor: "aqua",
			CursorFgColor: "black",
			CursorBgColor: "aqua",
			BorderColor:   "dodgerblue",
		},
		Menu: MenuStyle{
			FgColor:     "white",
			BgColor:     "default",
			BorderColor: "aqua",
		},
		Flash: FlashStyle{
			InfoColor: "lawngreen",
			WarnColor: "orange",
			ErrColor:  "orangered",
		},
	}
}

// LoadStyle reads path over the built-in style. Keys absent from the file
// keep their defaults, so an empty or missing file yields the built-in style.
func LoadStyle(path string) (*Style, error) {
	s := NewStyle()
	bb, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read style %q: %w", path, err)
	}
	if err := toml.Unmarshal(bb, s); err != nil {
		return NewStyle(), fmt.Errorf("failed to parse style %q: %w", path, err)
	}

	return s, nil
}

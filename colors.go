// File: lixenwraith/chain/colors.go
package chain

import (
	"strings"

	"github.com/fatih/color"
)

// ColorAttr identifies the syntactic role of a rendered token
type ColorAttr int

const (
	CommentColor ColorAttr = iota
	KeyColor
	StringColor
	NumberColor
	LiteralColor // null, booleans, regular expressions, functions
	ExprColor
	SepColor
)

// Colors maps token roles to formatting functions
type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

// NewColors returns the terminal palette used by the chain CLI
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			CommentColor: color.BlueString,
			KeyColor:     color.RGB(128, 168, 196).SprintfFunc(),
			StringColor:  color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor:  color.RGB(128, 216, 236).SprintfFunc(),
			LiteralColor: color.CyanString,
			ExprColor:    color.RGB(198, 198, 46).SprintfFunc(),
			SepColor:     color.RGB(96, 96, 96).SprintfFunc(),
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

// Color formats s for the role a
func (c *Colors) Color(a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	return c.Get(a)(s)
}

// Get returns the formatting function for a, falling back to Default
func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	f := c.Map[a]
	if f == nil {
		if c.Default == nil {
			return colorDefault
		}
		return c.Default
	}
	return f
}

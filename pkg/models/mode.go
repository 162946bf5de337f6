package models

import "fmt"

// Mode is the theme polarity handed to the renderer.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeDark, ModeLight:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want auto, dark or light)", s)
	}
}

func (m Mode) String() string {
	return string(m)
}

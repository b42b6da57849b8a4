package enums

import "fmt"

// DisplayMode selects the light or dark branding variant.
type DisplayMode string

const (
	DisplayModeLight DisplayMode = "light"
	DisplayModeDark  DisplayMode = "dark"
)

var validDisplayModes = []DisplayMode{
	DisplayModeLight,
	DisplayModeDark,
}

// String implements fmt.Stringer.
func (m DisplayMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known DisplayMode.
func (m DisplayMode) IsValid() bool {
	for _, candidate := range validDisplayModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseDisplayMode converts raw input into a DisplayMode.
func ParseDisplayMode(value string) (DisplayMode, error) {
	for _, candidate := range validDisplayModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid display mode %q", value)
}

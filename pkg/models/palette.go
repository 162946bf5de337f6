package models

// Role names one slot of a palette as it appears in the model's JSON answer.
type Role string

// Palette roles, in canonical order.
const (
	RolePrimary   Role = "primary_hex"
	RoleSecondary Role = "secondary_hex"
	RoleTertiary  Role = "tertiary_hex"
	RoleAccent1   Role = "accent1_hex"
	RoleAccent2   Role = "accent2_hex"
	RoleNeutral1  Role = "neutral1_hex"
	RoleNeutral2  Role = "neutral2_hex"
)

// Roles lists every recognized role in canonical order.
var Roles = []Role{
	RolePrimary,
	RoleSecondary,
	RoleTertiary,
	RoleAccent1,
	RoleAccent2,
	RoleNeutral1,
	RoleNeutral2,
}

// Palette maps roles to "#RRGGBB" seed colors. A palette may be partial.
type Palette map[Role]string

// Values returns the present colors in canonical role order.
func (p Palette) Values() []string {
	out := make([]string, 0, len(p))
	for _, role := range Roles {
		if v, ok := p[role]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Empty reports whether the palette holds no colors.
func (p Palette) Empty() bool {
	return len(p) == 0
}

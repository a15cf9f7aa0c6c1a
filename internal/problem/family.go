package problem

import (
	"fmt"
	"strings"
)

// Family identifies which closed-form model a problem belongs to.
type Family string

const (
	Projectile Family = "PROJECTILE"
	FreeFall   Family = "FREE_FALL"
	Pendulum   Family = "PENDULUM"
	Collision  Family = "COLLISION"
)

var Families = []Family{Projectile, FreeFall, Pendulum, Collision}

var familyAliases = map[string]Family{
	"projectile":        Projectile,
	"projectile_motion": Projectile,
	"free_fall":         FreeFall,
	"freefall":          FreeFall,
	"pendulum":          Pendulum,
	"simple_pendulum":   Pendulum,
	"collision":         Collision,
	"elastic_collision": Collision,
}

// ParseFamily accepts the canonical names as well as the spellings emitted
// by text parsers ("PROJECTILE_MOTION", "free fall", ...).
func ParseFamily(s string) (Family, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if f, ok := familyAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProblemType, s)
}

func (f Family) Valid() bool {
	switch f {
	case Projectile, FreeFall, Pendulum, Collision:
		return true
	}
	return false
}

func (f Family) Slug() string {
	return strings.ToLower(string(f))
}

func (f Family) String() string {
	return string(f)
}

// UnmarshalText lets yaml and json decoders accept any alias.
func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Family) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

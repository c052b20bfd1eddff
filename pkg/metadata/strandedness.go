package metadata

import "strings"

// Strandedness is the library preparation strandedness of a sample.
type Strandedness string

const (
	Unstranded Strandedness = "unstranded"
	Forward    Strandedness = "forward"
	Reverse    Strandedness = "reverse"
)

// Strandednesses lists the accepted values, in the order shown to users.
var Strandednesses = []Strandedness{Unstranded, Forward, Reverse}

// ParseStrandedness accepts the three strandedness names, case insensitively.
func ParseStrandedness(s string) (Strandedness, error) {
	switch v := Strandedness(strings.ToLower(strings.TrimSpace(s))); v {
	case Unstranded, Forward, Reverse:
		return v, nil
	default:
		return "", parseErrorf("invalid strandedness %q, expected one of unstranded, forward, reverse", s)
	}
}

func (s Strandedness) String() string {
	return string(s)
}

package ai

import (
	"fmt"
	"strings"
)

// Difficulty selects the move policy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every supported difficulty, weakest first.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

func (d Difficulty) String() string {
	return string(d)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d), nil
}

// UnmarshalText rejects unknown names. An empty value is kept empty so that
// callers can fall back to their default difficulty.
func (d *Difficulty) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = ""
		return nil
	}
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

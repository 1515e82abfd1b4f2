package krd

import (
	"encoding/json"
	"fmt"
)

// Compounding defines how yields compound when discounting cash flows.
type Compounding int

const (
	// Discrete compounds PeriodsPerYear times a year: the discount factor is (1+y/n)^(-n·t).
	Discrete Compounding = iota
	// Continuous compounds continuously: the discount factor is exp(-y·t).
	Continuous
)

func (m Compounding) String() string {
	switch m {
	case Discrete:
		return "discrete"
	case Continuous:
		return "continuous"
	default:
		return "unknown"
	}
}

// ParseCompounding parses a string into a Compounding.
//
// Short forms "disc" and "cont" are accepted.
func ParseCompounding(s string) (Compounding, error) {
	switch s {
	case "discrete", "disc":
		return Discrete, nil
	case "continuous", "cont":
		return Continuous, nil
	default:
		return 0, fmt.Errorf("unknown compounding: %q", s)
	}
}

func (m Compounding) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Compounding) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	c, err := ParseCompounding(s)
	if err != nil {
		return err
	}
	*m = c
	return nil
}

package unitedlogs

import (
	"fmt"
	"strings"
)

// Level selects the endpoint path an event is posted to.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
)

// AllLevels returns every level known to the ingestion service.
func AllLevels() []Level {
	return []Level{LevelError, LevelWarning, LevelInfo, LevelSuccess}
}

// ParseLevel accepts level names case-insensitively. "warn" is an alias for warning.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

func (l Level) String() string {
	return string(l)
}

type levelSet map[Level]struct{}

func newLevelSet(names []string) (levelSet, error) {
	set := make(levelSet, len(AllLevels()))
	if len(names) == 0 {
		for _, l := range AllLevels() {
			set[l] = struct{}{}
		}
		return set, nil
	}
	for _, name := range names {
		l, err := ParseLevel(name)
		if err != nil {
			return nil, err
		}
		set[l] = struct{}{}
	}
	return set, nil
}

func (s levelSet) has(l Level) bool {
	_, ok := s[l]
	return ok
}

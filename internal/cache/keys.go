package cache

import "strings"

// Every key this service writes lives under GlobalKeyPrefix, one segment per
// level: exambyte:<area>:<kind>:<id>.
const (
	GlobalKeyPrefix = "exambyte"

	examArea   = "exam"
	resultKind = "result"
)

// ResultKey is where the scored result of a submitted session is kept.
func ResultKey(sessionID string) string {
	return join(examArea, resultKind, sessionID)
}

// join drops blank segments so a missing id never yields "a::b".
func join(segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, GlobalKeyPrefix)
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}

package risk

import (
	"fmt"
	"strconv"
	"strings"
)

// The generation model is asked, by convention only, to embed a
// self-reported emotion score marker in its reply:
//
//	[emotion_score: 7.5]
//
// The marker may be missing or malformed; callers fall back to
// DefaultEmotionScore and never surface the parse failure to the user.
const (
	markerPrefix = "[emotion_score:"
	markerSuffix = "]"

	// DefaultEmotionScore is the neutral fallback when the marker is
	// absent or unparseable, and when the generation service fails.
	DefaultEmotionScore = 5.0
)

// ParseEmotionScore extracts the emotion score marker from a model
// reply. The returned value is clamped to [0,10].
func ParseEmotionScore(reply string) (float64, error) {
	start := strings.Index(reply, markerPrefix)
	if start < 0 {
		return 0, fmt.Errorf("emotion score marker not found")
	}

	rest := reply[start+len(markerPrefix):]
	end := strings.Index(rest, markerSuffix)
	if end < 0 {
		return 0, fmt.Errorf("emotion score marker not terminated")
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(rest[:end]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid emotion score %q: %w", rest[:end], err)
	}

	return clamp(value, 0, 10), nil
}

// StripMarker removes the emotion score marker from a reply so the
// user never sees the bookkeeping.
func StripMarker(reply string) string {
	start := strings.Index(reply, markerPrefix)
	if start < 0 {
		return reply
	}

	rest := reply[start+len(markerPrefix):]
	end := strings.Index(rest, markerSuffix)
	if end < 0 {
		return reply
	}

	return strings.TrimSpace(reply[:start] + rest[end+len(markerSuffix):])
}

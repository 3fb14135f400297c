package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseRequirement converts a loosely typed "required" marker.
//
// Accepted: booleans, 0/1, and the strings yes/no, y/n, true/false,
// required/optional (case-insensitive). A missing marker (nil or "") is Optional.
func ParseRequirement(v any) (Requirement, error) {
	on, err := parseFlag(v, "required", "optional")
	if err != nil {
		return 0, fmt.Errorf("required marker: %w", err)
	}
	if on {
		return Required, nil
	}
	return Optional, nil
}

// ParseMode converts a loosely typed "multi select" marker.
//
// Accepted: booleans, 0/1, and the strings yes/no, y/n, true/false,
// multi/single, multiple (case-insensitive). A missing marker is Single.
func ParseMode(v any) (SelectionMode, error) {
	if s, ok := v.(string); ok && strings.EqualFold(strings.TrimSpace(s), "multiple") {
		return Multi, nil
	}
	on, err := parseFlag(v, "multi", "single")
	if err != nil {
		return 0, fmt.Errorf("multi-select marker: %w", err)
	}
	if on {
		return Multi, nil
	}
	return Single, nil
}

// parseFlag interprets v as a boolean. onWord and offWord are extra accepted
// spellings for true and false respectively.
func parseFlag(v any, onWord, offWord string) (bool, error) {
	switch val := v.(type) {
	case nil:
		return false, nil
	case bool:
		return val, nil
	case int:
		return intFlag(int64(val))
	case int64:
		return intFlag(val)
	case float64:
		if val != math.Trunc(val) {
			return false, fmt.Errorf("unrecognized value %v", val)
		}
		return intFlag(int64(val))
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "no", "n", "false", "0", offWord:
			return false, nil
		case "yes", "y", "true", "1", onWord:
			return true, nil
		}
		return false, fmt.Errorf("unrecognized value %q", val)
	default:
		return false, fmt.Errorf("unsupported type %T", v)
	}
}

func intFlag(n int64) (bool, error) {
	switch n {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("unrecognized value %d", n)
}

// ParseKind converts a product kind marker. Empty means KindItem.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "item", "menu_item":
		return KindItem, nil
	case "combo":
		return KindCombo, nil
	}
	return "", fmt.Errorf("unrecognized product kind %q", s)
}

// formatID renders a loosely typed product id as a string.
// Integral numbers render without a fractional part.
func formatID(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", fmt.Errorf("id is required")
	case string:
		return strings.TrimSpace(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return strconv.FormatInt(int64(val), 10), nil
		}
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported id type %T", v)
	}
}

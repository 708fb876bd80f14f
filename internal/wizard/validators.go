package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError carries the specific constraint a user's answer
// violated. It never reaches the user as anything but its reason text.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IntRange accepts an integer in [lo, hi].
func IntRange(lo, hi int64) Validator {
	return func(in Input) (any, *ValidationError) {
		n, err := strconv.ParseInt(strings.TrimSpace(in.Text), 10, 64)
		if err != nil || n < lo || n > hi {
			return nil, invalid("Enter a number from %d to %d.", lo, hi)
		}
		return n, nil
	}
}

// MinInt accepts an integer >= lo.
func MinInt(lo int64) Validator {
	return func(in Input) (any, *ValidationError) {
		n, err := strconv.ParseInt(strings.TrimSpace(in.Text), 10, 64)
		if err != nil || n < lo {
			return nil, invalid("Enter a number of at least %d.", lo)
		}
		return n, nil
	}
}

// TextRange accepts non-empty text with length in [minLen, maxLen].
func TextRange(minLen, maxLen int) Validator {
	return func(in Input) (any, *ValidationError) {
		text := strings.TrimSpace(in.Text)
		if len(text) < minLen || len(text) > maxLen {
			return nil, invalid("Enter text between %d and %d characters.", minLen, maxLen)
		}
		return text, nil
	}
}

// YesNo accepts yes/no and stores a bool.
func YesNo() Validator {
	return func(in Input) (any, *ValidationError) {
		switch strings.ToLower(strings.TrimSpace(in.Text)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		return nil, invalid("Answer Yes or No.")
	}
}

// Image requires an attached image and stores its reference.
func Image() Validator {
	return func(in Input) (any, *ValidationError) {
		if in.ImageRef == "" {
			return nil, invalid("Attach a single photo.")
		}
		return in.ImageRef, nil
	}
}

package services

import (
	"fmt"
	"strings"

	"github.com/kubev2v/xo-harness/internal/models"
)

// IsPresent accepts any existing object.
func IsPresent() Predicate {
	return func(obj models.Object) error {
		if obj == nil {
			return fmt.Errorf("object is absent")
		}
		return nil
	}
}

// IsAbsent accepts only a missing or removed object.
func IsAbsent() Predicate {
	return func(obj models.Object) error {
		if obj != nil {
			return fmt.Errorf("object is still present")
		}
		return nil
	}
}

// HasType accepts objects whose "type" property is t.
func HasType(t string) Predicate {
	return PropertyEquals("type", t)
}

// PropertyEquals accepts objects whose key property, formatted as a string, equals value.
func PropertyEquals(key, value string) Predicate {
	return func(obj models.Object) error {
		if obj == nil {
			return fmt.Errorf("object is absent")
		}
		if got := obj.String(key); got != value {
			return fmt.Errorf("%s is %q, want %q", key, got, value)
		}
		return nil
	}
}

// All accepts objects accepted by every predicate.
func All(predicates ...Predicate) Predicate {
	return func(obj models.Object) error {
		for _, p := range predicates {
			if err := p(obj); err != nil {
				return err
			}
		}
		return nil
	}
}

// ParsePredicate builds the predicate described by key=value conditions on string
// properties and an optional type. Without condition it accepts any existing object.
// absent asks for a missing object and cannot be combined with other conditions.
func ParsePredicate(conditions []string, objType string, absent bool) (Predicate, error) {
	if absent {
		if len(conditions) > 0 || objType != "" {
			return nil, fmt.Errorf("absence cannot be combined with other conditions")
		}
		return IsAbsent(), nil
	}

	predicates := []Predicate{IsPresent()}
	if objType != "" {
		predicates = append(predicates, HasType(objType))
	}
	for _, c := range conditions {
		key, value, ok := strings.Cut(c, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid condition %q: expected key=value", c)
		}
		predicates = append(predicates, PropertyEquals(key, value))
	}
	return All(predicates...), nil
}

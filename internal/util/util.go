package util

import (
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/kubev2v/xo-harness/internal/models"
)

// Contains checks if a slice contains a specific string
func Contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// RandomName returns prefix followed by a random suffix, for resources created by tests.
func RandomName(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// DeepCopy returns a copy of obj sharing no map or slice with it.
func DeepCopy(obj models.Object) models.Object {
	if obj == nil {
		return nil
	}
	return models.Object(deepCopyMap(obj))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case models.Object:
		return models.Object(deepCopyMap(t))
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DeepDelete removes the key at the dotted path ("a.b.c") from obj.
// Nothing happens if an intermediate value is missing or not an object.
func DeepDelete(obj map[string]any, path string) {
	keys := strings.Split(path, ".")
	last := len(keys) - 1
	for _, key := range keys[:last] {
		next, ok := asMap(obj[key])
		if !ok {
			return
		}
		obj = next
	}
	delete(obj, keys[last])
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case models.Object:
		return t, t != nil
	case map[string]any:
		return t, t != nil
	default:
		return nil, false
	}
}

// Omit returns a copy of obj without the dotted paths.
func Omit(obj models.Object, paths ...string) models.Object {
	out := DeepCopy(obj)
	if out == nil {
		return nil
	}
	for _, path := range paths {
		DeepDelete(out, path)
	}
	return out
}

// AlmostEqual reports whether actual and expected are equal once the dotted
// paths in ignored are removed from both. Neither argument is modified.
func AlmostEqual(actual, expected models.Object, ignored ...string) bool {
	return reflect.DeepEqual(Omit(actual, ignored...), Omit(expected, ignored...))
}

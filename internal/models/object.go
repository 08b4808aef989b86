package models

import "fmt"

// Object is the decoded payload of an xo object (VM, VBD, schedule...).
// The harness does not enforce any schema on it.
type Object map[string]any

// Type returns the "type" property of the object, or "" if absent.
func (o Object) Type() string {
	return o.String("type")
}

// ID returns the "id" property of the object, or "" if absent.
func (o Object) ID() string {
	return o.String("id")
}

func (o Object) String(key string) string {
	if o == nil {
		return ""
	}
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Snapshot is the state of one id at a given store revision.
// Object is nil when the id is absent or was just removed.
type Snapshot struct {
	ID       string
	Object   Object
	Revision uint64
	Removed  bool
}

// Present reports whether the snapshot holds an object.
func (s Snapshot) Present() bool {
	return s.Object != nil
}

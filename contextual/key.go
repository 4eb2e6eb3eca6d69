package contextual

import "fmt"

// Key identifies a kind of value that can be requested from an ancestor
// node. Matching is by identity: two keys created with the same label are
// still distinct and never answer for each other.
type Key[T any] struct {
	label string
}

// NewKey creates a fresh key. The label is only used for log correlation
// and diagnostics, it plays no part in matching.
func NewKey[T any](label string) *Key[T] {
	return &Key[T]{label: label}
}

// Label returns the diagnostic label supplied at creation.
func (k *Key[T]) Label() string {
	return k.label
}

func (k *Key[T]) String() string {
	return fmt.Sprintf("contextual/%s", k.label)
}

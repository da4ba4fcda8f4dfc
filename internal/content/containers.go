package content

import (
	"fmt"

	"github.com/automerge/automerge-go"
)

// Helpers for reading typed containers out of automerge maps. Automerge
// reads return a void value rather than an error for missing keys, so every
// lookup here normalizes "missing or wrong container kind" into ErrNotFound.

func childMap(parent *automerge.Map, key string) (*automerge.Map, error) {
	v, err := parent.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindMap {
		return nil, fmt.Errorf("%w: no map container at %q", ErrNotFound, key)
	}
	return v.Map(), nil
}

func childList(parent *automerge.Map, key string) (*automerge.List, error) {
	v, err := parent.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindList {
		return nil, fmt.Errorf("%w: no list container at %q", ErrNotFound, key)
	}
	return v.List(), nil
}

func childText(parent *automerge.Map, key string) (*automerge.Text, error) {
	v, err := parent.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindText {
		return nil, fmt.Errorf("%w: no text container at %q", ErrNotFound, key)
	}
	return v.Text(), nil
}

// ensureChildMap returns the map at key, creating it when absent.
func ensureChildMap(parent *automerge.Map, key string) (*automerge.Map, error) {
	v, err := parent.Get(key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() == automerge.KindMap {
		return v.Map(), nil
	}
	if err := parent.Set(key, automerge.NewMap()); err != nil {
		return nil, fmt.Errorf("creating map %q: %w", key, err)
	}
	return childMap(parent, key)
}

// stringAt returns the string stored at key, with ok=false when absent.
func stringAt(parent *automerge.Map, key string) (string, bool, error) {
	v, err := parent.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindStr {
		return "", false, nil
	}
	return v.Str(), true, nil
}

func boolAt(parent *automerge.Map, key string) (bool, error) {
	v, err := parent.Get(key)
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindBool {
		return false, nil
	}
	return v.Bool(), nil
}

func int64At(parent *automerge.Map, key string) (int64, error) {
	v, err := parent.Get(key)
	if err != nil {
		return 0, fmt.Errorf("reading %q: %w", key, err)
	}
	if v.Kind() != automerge.KindInt64 {
		return 0, nil
	}
	return v.Int64(), nil
}

// setText replaces the full contents of a text container.
func setText(t *automerge.Text, s string) error {
	if n := t.Len(); n > 0 {
		if err := t.Delete(0, n); err != nil {
			return err
		}
	}
	if s == "" {
		return nil
	}
	return t.Insert(0, s)
}

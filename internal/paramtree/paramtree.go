// Package paramtree implements the hierarchical parameter value store: a
// tree of maps whose leaves hold arbitrary values, with subtree semantics,
// a nearest-enclosing-namespace search, and a sorted, leaves-only key
// iterator.
//
// Tree is not internally synchronized. The original implementation this is
// grounded on (aioros_master's ParamCache) relies on a single-threaded
// event loop to serialize mutations; here internal/rpcmaster holds one
// master-wide lock around every call into Tree, for the same effect.
package paramtree

import (
	"sort"

	"github.com/nmxmxh/rosmaster/internal/names"
	"github.com/nmxmxh/rosmaster/pkg/errors"
)

// Value is any leaf or interior value stored in the tree: nil, bool,
// int64, float64, string, []byte, []Value, or map[string]Value.
type Value interface{}

// Tree is a hierarchical key/value store rooted at "/".
type Tree struct {
	root map[string]Value
}

// New returns an empty parameter tree.
func New() *Tree {
	return &Tree{root: make(map[string]Value)}
}

// Has reports whether Get(key) would succeed.
func (t *Tree) Has(key string) bool {
	_, err := t.Get(key)
	return err == nil
}

// Get traverses key segment by segment, returning the value found, or
// ErrNotFound if any intermediate segment is not a mapping or a segment is
// absent. The root key returns the whole tree.
func (t *Tree) Get(key string) (Value, error) {
	segments := names.Split(key)
	var cur Value = map[string]Value(t.root)
	for _, seg := range segments {
		m, ok := cur.(map[string]Value)
		if !ok {
			return nil, errors.ErrNotFound
		}
		v, ok := m[seg]
		if !ok {
			return nil, errors.ErrNotFound
		}
		cur = v
	}
	return cur, nil
}

// Set writes value at key. Setting the root requires value to be a mapping
// (ErrInvalidValue otherwise) and replaces the whole tree atomically. For
// any other key, every intermediate segment is forced to be a mapping
// (replacing non-mappings encountered along the way with a fresh mapping)
// before the leaf is assigned.
func (t *Tree) Set(key string, value Value) error {
	segments := names.Split(key)
	if len(segments) == 0 {
		m, ok := value.(map[string]Value)
		if !ok {
			return errors.ErrInvalidValue
		}
		t.root = m
		return nil
	}

	d := t.root
	for _, seg := range segments[:len(segments)-1] {
		next, ok := d[seg].(map[string]Value)
		if !ok {
			next = make(map[string]Value)
			d[seg] = next
		}
		d = next
	}
	d[segments[len(segments)-1]] = value
	return nil
}

// Delete removes the leaf at key. It does not prune now-empty intermediate
// mappings: a subtree subscriber watching an ancestor must still see that
// ancestor exist as an (empty) subtree after a leaf beneath it is removed.
func (t *Tree) Delete(key string) error {
	segments := names.Split(key)
	if len(segments) == 0 {
		return errors.ErrNotFound
	}

	d := t.root
	for _, seg := range segments[:len(segments)-1] {
		next, ok := d[seg].(map[string]Value)
		if !ok {
			return errors.ErrNotFound
		}
		d = next
	}
	leaf := segments[len(segments)-1]
	if _, ok := d[leaf]; !ok {
		return errors.ErrNotFound
	}
	delete(d, leaf)
	return nil
}

// Keys returns every leaf key in plain ("/a/b") form, traversed depth-first
// with each level's segments visited in sorted order. Interior mappings are
// never yielded themselves.
func (t *Tree) Keys() []string {
	var out []string
	walkKeys("", t.root, &out)
	return out
}

func walkKeys(prefix string, m map[string]Value, out *[]string) {
	segs := make([]string, 0, len(m))
	for k := range m {
		segs = append(segs, k)
	}
	sort.Strings(segs)
	for _, seg := range segs {
		key := prefix + "/" + seg
		if sub, ok := m[seg].(map[string]Value); ok {
			walkKeys(key, sub, out)
		} else {
			*out = append(*out, key)
		}
	}
}

// Search implements the nearest-enclosing-namespace resolution rule used by
// nodes to resolve private/relative names.
//
// If key begins with "/", Search returns key itself if present, else
// ErrNotFound. Otherwise, starting from callerNamespace and walking up one
// segment at a time toward the root, Search returns the first ancestor A
// such that A/head exists (head being key's first segment); the result is
// A/key resolved against that ancestor. ErrNotFound if no ancestor matches.
func (t *Tree) Search(key, callerNamespace string) (string, error) {
	if len(key) > 0 && key[0] == '/' {
		if t.Has(key) {
			return key, nil
		}
		return "", errors.ErrNotFound
	}

	keySegments := names.Split(key)
	if len(keySegments) == 0 {
		return "", errors.ErrNotFound
	}
	head := keySegments[0]

	ns := names.Split(callerNamespace)
	for i := len(ns); i >= 0; i-- {
		ancestor := "/" + joinSlash(ns[:i])
		probe := joinNonRoot(ancestor, head)
		if t.Has(probe) {
			return joinNonRoot(ancestor, key), nil
		}
	}
	return "", errors.ErrNotFound
}

func joinSlash(segments []string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}

// joinNonRoot appends rel to base, where base is an absolute namespace
// ("/" or "/a/b") and rel has no leading slash, without producing a
// double slash when base is the root.
func joinNonRoot(base, rel string) string {
	if base == "/" {
		return "/" + rel
	}
	return base + "/" + rel
}

// AllDescendantKeys returns the set of trailing-slash descendant keys
// K+p+"/" for every path p (interior or leaf) reachable from value, where value is
// the root of a just-written mapping subtree rooted at the canonical key K.
// Used by the registration manager to compute which subscriber keys still
// exist after a subtree rewrite (§4.4 on_param_update).
func AllDescendantKeys(canonicalKey string, value Value) map[string]struct{} {
	out := make(map[string]struct{})
	m, ok := value.(map[string]Value)
	if !ok {
		return out
	}
	collectDescendants(canonicalKey, m, out)
	return out
}

func collectDescendants(prefix string, m map[string]Value, out map[string]struct{}) {
	for k, v := range m {
		child := prefix + k + "/"
		out[child] = struct{}{}
		if sub, ok := v.(map[string]Value); ok {
			collectDescendants(child, sub, out)
		}
	}
}

// ValueAtRelativePath extracts the value at the relative path (split into
// segments) from value, which must be a chain of maps. Used to recover the
// payload for a descendant delivery in on_param_update. Panics are not
// possible: callers only invoke this for paths known to exist in value
// (computed via AllDescendantKeys from the same value).
func ValueAtRelativePath(value Value, relative []string) (Value, bool) {
	cur := value
	for _, seg := range relative {
		m, ok := cur.(map[string]Value)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

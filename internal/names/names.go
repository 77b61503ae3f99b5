// Package names canonicalizes the hierarchical, slash-separated key names
// used throughout the graph master: parameter keys, topic names, and
// service names.
package names

import "strings"

// Split normalizes key and yields each non-empty segment between slashes.
// The root "/" (and "") yields zero segments.
func Split(key string) []string {
	parts := strings.Split(key, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Canon renders key in trailing-slash subtree form: "/" + join(Split(key), "/") + "/".
// Canon("/") == "/".
func Canon(key string) string {
	segments := Split(key)
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}

// Plain renders key in scalar ("/a/b") form, with no trailing slash (except
// for the root itself).
func Plain(key string) string {
	segments := Split(key)
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

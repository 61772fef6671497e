package domain

import "fmt"

// Edge names a set-valued relationship attribute of a user.
type Edge string

const (
	EdgeLikes     Edge = "likes"
	EdgeFollowing Edge = "following"
	EdgeFollowers Edge = "followers"
	// EdgeTracks is an ordered sequence, not a set.
	EdgeTracks Edge = "tracks"
)

func ParseEdge(s string) (Edge, error) {
	switch e := Edge(s); e {
	case EdgeLikes, EdgeFollowing, EdgeFollowers, EdgeTracks:
		return e, nil
	}
	return "", fmt.Errorf("%w: unknown edge set %q", ErrValidation, s)
}

// IsSet reports whether duplicates are collapsed for this edge.
func (e Edge) IsSet() bool { return e != EdgeTracks }

// Contains is a membership test by id equality.
func Contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Dedupe keeps the first occurrence of every id, preserving order.
func Dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

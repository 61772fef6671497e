package service

import (
	"context"
	"fmt"

	"soundnest/internal/domain"
)

type edgeOp string

const (
	opAdd    edgeOp = "add"
	opRemove edgeOp = "remove"
)

// Graph is the relationship engine: idempotent toggles over a user's edge sets.
//
// The primitives touch exactly one user. following and followers are not kept
// symmetric by them; Follow and Unfollow update both sides together.
type Graph struct {
	users domain.UserRepository
}

func NewGraph(users domain.UserRepository) *Graph { return &Graph{users: users} }

func (g *Graph) AddLike(ctx context.Context, userID, trackID string) (*domain.User, error) {
	return g.mutateEdge(ctx, userID, domain.EdgeLikes, opAdd, trackID)
}

func (g *Graph) RemoveLike(ctx context.Context, userID, trackID string) (*domain.User, error) {
	return g.mutateEdge(ctx, userID, domain.EdgeLikes, opRemove, trackID)
}

// AddFollowing does not reject followerID == followedID.
func (g *Graph) AddFollowing(ctx context.Context, followerID, followedID string) (*domain.User, error) {
	return g.mutateEdge(ctx, followerID, domain.EdgeFollowing, opAdd, followedID)
}

func (g *Graph) RemoveFollowing(ctx context.Context, followerID, followedID string) (*domain.User, error) {
	return g.mutateEdge(ctx, followerID, domain.EdgeFollowing, opRemove, followedID)
}

func (g *Graph) AddFollower(ctx context.Context, followedID, followerID string) (*domain.User, error) {
	return g.mutateEdge(ctx, followedID, domain.EdgeFollowers, opAdd, followerID)
}

func (g *Graph) RemoveFollower(ctx context.Context, followedID, followerID string) (*domain.User, error) {
	return g.mutateEdge(ctx, followedID, domain.EdgeFollowers, opRemove, followerID)
}

// ReplaceTracks overwrites the ordered track list.
func (g *Graph) ReplaceTracks(ctx context.Context, userID string, trackIDs []string) (*domain.User, error) {
	if _, err := g.subject(ctx, userID); err != nil {
		return nil, err
	}
	if trackIDs == nil {
		trackIDs = []string{}
	}
	if err := g.users.ReplaceEdges(ctx, userID, domain.EdgeTracks, trackIDs); err != nil {
		return nil, internalize(err)
	}
	observeEdge(string(domain.EdgeTracks), "replace", true)
	return g.subject(ctx, userID)
}

// Follow records followerID -> followedID on both users at once and returns
// the follower.
func (g *Graph) Follow(ctx context.Context, followerID, followedID string) (*domain.User, error) {
	return g.link(ctx, followerID, followedID, opAdd)
}

// Unfollow removes followerID -> followedID from both users at once.
func (g *Graph) Unfollow(ctx context.Context, followerID, followedID string) (*domain.User, error) {
	return g.link(ctx, followerID, followedID, opRemove)
}

func (g *Graph) link(ctx context.Context, followerID, followedID string, op edgeOp) (*domain.User, error) {
	if _, err := g.subject(ctx, followerID); err != nil {
		return nil, err
	}
	if _, err := g.subject(ctx, followedID); err != nil {
		return nil, err
	}
	var (
		changed bool
		err     error
	)
	if op == opAdd {
		changed, err = g.users.Link(ctx, followerID, followedID)
	} else {
		changed, err = g.users.Unlink(ctx, followerID, followedID)
	}
	if err != nil {
		return nil, internalize(err)
	}
	observeEdge("follow", op, changed)
	return g.subject(ctx, followerID)
}

// mutateEdge is the only path that changes a set edge. It resolves the subject,
// then applies the store's conditional add/remove, which is a single atomic
// statement, and returns the state after the write.
func (g *Graph) mutateEdge(ctx context.Context, subjectID string, e domain.Edge, op edgeOp, value string) (*domain.User, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: %s value is required", domain.ErrValidation, e)
	}
	if _, err := g.subject(ctx, subjectID); err != nil {
		return nil, err
	}

	var (
		changed bool
		err     error
	)
	switch op {
	case opAdd:
		changed, err = g.users.AddEdge(ctx, subjectID, e, value)
	case opRemove:
		changed, err = g.users.RemoveEdge(ctx, subjectID, e, value)
	}
	if err != nil {
		return nil, internalize(err)
	}
	observeEdge(string(e), op, changed)
	return g.subject(ctx, subjectID)
}

func (g *Graph) subject(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	u, err := g.users.FindByID(ctx, id)
	return u, internalize(err)
}

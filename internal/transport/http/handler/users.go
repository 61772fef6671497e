package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soundnest/internal/domain"
	"soundnest/internal/service"
	"soundnest/internal/transport/http/ez"
)

type UserHandler struct {
	users *service.UserService
	graph *service.Graph
	feed  *service.Feed
}

func NewUserHandler(users *service.UserService, graph *service.Graph, feed *service.Feed) *UserHandler {
	return &UserHandler{users: users, graph: graph, feed: feed}
}

type slugQ struct {
	NameForURL string `form:"nameForUrl"`
}

type likeIn struct {
	TrackID string `json:"trackId" binding:"required"`
}

type followingIn struct {
	FollowedUserID string `json:"followedUserId" binding:"required"`
}

type followersIn struct {
	FollowingUserID string `json:"followingUserId" binding:"required"`
}

type tracksIn struct {
	Tracks *[]string `json:"tracks" binding:"required"`
}

// 单边原语：subject 为 :id（必须是调用者），value 来自请求体
type edgeFunc func(c *gin.Context, subject, value string) (*domain.User, error)

func (h *UserHandler) MountAPI(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[struct{}, []domain.ResolvedUser]{
		Method: http.MethodGet,
		Path:   "/users/all",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ResolvedUser, error) {
			return h.users.ListResolved(c.Request.Context())
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.ResolvedUser]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.ResolvedUser, error) {
			u, err := h.users.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return h.users.Resolve(c.Request.Context(), u)
		},
	})
	ez.RegisterAction(authed, ez.Action[slugQ, *domain.ResolvedUser]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *slugQ) (*domain.ResolvedUser, error) {
			u, err := h.users.FindBySlug(c.Request.Context(), in.NameForURL)
			if err != nil {
				return nil, err
			}
			return h.users.Resolve(c.Request.Context(), u)
		},
	})

	// likes
	mountEdge(authed, "/users/:id/likes", func(in *likeIn) string { return in.TrackID },
		func(c *gin.Context, uid, v string) (*domain.User, error) { return h.graph.AddLike(c.Request.Context(), uid, v) })
	mountEdge(authed, "/users/:id/likes/remove", func(in *likeIn) string { return in.TrackID },
		func(c *gin.Context, uid, v string) (*domain.User, error) { return h.graph.RemoveLike(c.Request.Context(), uid, v) })

	// following：调用者关注别人，不允许关注自己
	mountEdge(authed, "/users/:id/following", func(in *followingIn) string { return in.FollowedUserID },
		func(c *gin.Context, uid, v string) (*domain.User, error) {
			if v == uid {
				return nil, ez.BadRequest("cannot follow yourself")
			}
			return h.graph.AddFollowing(c.Request.Context(), uid, v)
		})
	mountEdge(authed, "/users/:id/following/delete", func(in *followingIn) string { return in.FollowedUserID },
		func(c *gin.Context, uid, v string) (*domain.User, error) {
			return h.graph.RemoveFollowing(c.Request.Context(), uid, v)
		})

	// followers：:id 是被关注者，请求体里的关注者必须是调用者本人
	mountFollowers(authed, "/users/:id/followers", func(c *gin.Context, followed, follower string) (*domain.User, error) {
		if followed == follower {
			return nil, ez.BadRequest("cannot follow yourself")
		}
		return h.graph.AddFollower(c.Request.Context(), followed, follower)
	})
	mountFollowers(authed, "/users/:id/followers/delete", func(c *gin.Context, followed, follower string) (*domain.User, error) {
		return h.graph.RemoveFollower(c.Request.Context(), followed, follower)
	})

	// 组合关注：同时更新双方，返回调用者
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users/:id/follow",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			target, me := c.Param("id"), callerID(c)
			if target == me {
				return nil, ez.BadRequest("cannot follow yourself")
			}
			return h.graph.Follow(c.Request.Context(), me, target)
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodDelete,
		Path:   "/users/:id/follow",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.graph.Unfollow(c.Request.Context(), callerID(c), c.Param("id"))
		},
	})

	ez.RegisterAction(authed, ez.Action[tracksIn, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id/tracks",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *tracksIn) (*domain.User, error) {
			uid, err := ownID(c)
			if err != nil {
				return nil, err
			}
			return h.graph.ReplaceTracks(c.Request.Context(), uid, *in.Tracks)
		},
	})

	// feeds
	ez.RegisterAction(authed, ez.Action[struct{}, []domain.Track]{
		Method: http.MethodGet,
		Path:   "/users/:id/tracks",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Track, error) {
			return h.feed.TracksByOwner(c.Request.Context(), c.Param("id"))
		},
	})
	ez.RegisterAction(authed, ez.Action[struct{}, []domain.Track]{
		Method: http.MethodGet,
		Path:   "/users/:id/following/tracks",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Track, error) {
			return h.feed.TracksByFollowedUsers(c.Request.Context(), c.Param("id"))
		},
	})
}

// mountEdge 注册一个 PATCH 边操作：subject 取自 :id 且必须是调用者
func mountEdge[I any](e ez.EZ, path string, value func(*I) string, fn edgeFunc) {
	ez.RegisterAction(e, ez.Action[I, *domain.User]{
		Method: http.MethodPatch,
		Path:   path,
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *I) (*domain.User, error) {
			uid, err := ownID(c)
			if err != nil {
				return nil, err
			}
			return fn(c, uid, value(in))
		},
	})
}

// mountFollowers 修改的是别人的 followers，所以校验请求体而不是 :id
func mountFollowers(e ez.EZ, path string, fn edgeFunc) {
	ez.RegisterAction(e, ez.Action[followersIn, *domain.User]{
		Method: http.MethodPatch,
		Path:   path,
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *followersIn) (*domain.User, error) {
			if in.FollowingUserID != callerID(c) {
				return nil, ez.Forbidden("cannot modify another user")
			}
			return fn(c, c.Param("id"), in.FollowingUserID)
		},
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soundnest/internal/domain"
	"soundnest/internal/service"
	"soundnest/internal/transport/http/ez"
)

type TrackHandler struct {
	tracks *service.TrackService
}

func NewTrackHandler(tracks *service.TrackService) *TrackHandler {
	return &TrackHandler{tracks: tracks}
}

type createTrackIn struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	TrackURL    string `json:"trackUrl"`
}

type createTrackOut struct {
	Track *domain.Track `json:"track"`
}

type commentIn struct {
	Text string `json:"text"`
}

func (h *TrackHandler) MountAPI(_, authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[struct{}, *domain.Track]{
		Method: http.MethodGet,
		Path:   "/tracks/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Track, error) {
			return h.tracks.Get(c.Request.Context(), c.Param("id"))
		},
	})

	// 曲目归属永远是调用者，忽略请求体里的 user
	ez.RegisterAction(authed, ez.Action[createTrackIn, createTrackOut]{
		Method: http.MethodPost,
		Path:   "/tracks",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *createTrackIn) (createTrackOut, error) {
			t, err := h.tracks.Create(c.Request.Context(), domain.NewTrack{
				Name:        in.Name,
				AudioURL:    in.TrackURL,
				OwnerID:     callerID(c),
				Tag:         in.Tag,
				Description: in.Description,
				ImageURL:    in.ImageURL,
			})
			if err != nil {
				return createTrackOut{}, err
			}
			return createTrackOut{Track: t}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[commentIn, *domain.Track]{
		Method: http.MethodPost,
		Path:   "/tracks/:id/comments",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *commentIn) (*domain.Track, error) {
			return h.tracks.AddComment(c.Request.Context(), c.Param("id"), callerID(c), in.Text)
		},
	})
}

package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"soundnest/internal/core/storage"
	"soundnest/internal/transport/http/ez"
)

type UploadHandler struct {
	up storage.Uploader
}

func NewUploadHandler(up storage.Uploader) *UploadHandler { return &UploadHandler{up: up} }

func (h *UploadHandler) MountAPI(public, authed ez.EZ) {
	// 注册页需要在登录前上传头像
	public.POSTFILE("/auth/imageUpload", "imageUrl", h.save(storage.KindImage, "imageUrl"))
	authed.POSTFILE("/imageUpload", "imageUrl", h.save(storage.KindImage, "imageUrl"))
	authed.POSTFILE("/trackUpload", "trackUrl", h.save(storage.KindAudio, "trackUrl"))
}

func (h *UploadHandler) save(kind storage.Kind, field string) func(*gin.Context, *multipart.FileHeader) (any, error) {
	return func(c *gin.Context, fh *multipart.FileHeader) (any, error) {
		ct := fh.Header.Get("Content-Type")
		if !storage.Accepts(kind, ct) {
			return nil, ez.BadRequest(storage.ErrUnsupportedType.Error() + ": " + ct)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, ez.BadRequest("cannot read upload")
		}
		defer f.Close()

		url, err := h.up.Save(c.Request.Context(), kind, fh.Filename, ct, f)
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, ez.BadRequest(err.Error())
		}
		if err != nil {
			return nil, ez.Internal("upload failed", err)
		}
		return gin.H{field: url}, nil
	}
}

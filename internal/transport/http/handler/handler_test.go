package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"soundnest/internal/core/auth"
	"soundnest/internal/core/storage"
	"soundnest/internal/domain"
	"soundnest/internal/repo"
	"soundnest/internal/service"
	"soundnest/internal/testutil"
	resp "soundnest/internal/transport/http/response"
	"soundnest/internal/transport/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	api   *gin.Engine
	admin *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	ur, tr := repo.NewUserRepo(db), repo.NewTrackRepo(db)
	users := service.NewUserService(ur, tr)
	tracks := service.NewTrackService(tr, ur)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "soundnest", TTL: time.Hour}
	dir := t.TempDir()

	reg := router.NewRegistry(
		NewAuthHandler(users, jwter, func(email string) bool { return email == "root@example.com" }),
		NewUploadHandler(storage.NewLocal(dir, "/uploads")),
		NewUserHandler(users, service.NewGraph(ur), service.NewFeed(ur, tr)),
		NewTrackHandler(tracks),
		NewAdminHandler(users),
	)
	l := zap.NewNop()
	opt := router.Options{UploadsPath: "/uploads", UploadsDir: dir}
	return &env{
		api:   router.NewAPIEngine(l, jwter, reg, opt),
		admin: router.NewAdminEngine(l, jwter, reg, opt),
	}
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) (int, resp.Resp) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var r resp.Resp
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	}
	return w.Code, r
}

// into 把 resp.Data 重新解到具体类型
func into[T any](t *testing.T, data any) T {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

type session struct {
	ID    string
	Token string
}

func (e *env) signup(t *testing.T, email, slug string) session {
	t.Helper()
	code, r := call(t, e.api, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"email": email, "password": "pass", "name": email, "nameForUrl": slug,
	})
	require.Equal(t, http.StatusCreated, code, r.Msg)
	u := into[signupOut](t, r.Data).User

	code, r = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "pass"})
	require.Equal(t, http.StatusOK, code, r.Msg)
	return session{ID: u.ID, Token: into[loginOut](t, r.Data).AuthToken}
}

func (e *env) createTrack(t *testing.T, s session, name string) domain.Track {
	t.Helper()
	code, r := call(t, e.api, http.MethodPost, "/api/v1/tracks", s.Token, gin.H{"name": name, "trackUrl": "https://cdn/" + name + ".mp3"})
	require.Equal(t, http.StatusCreated, code, r.Msg)
	return *into[createTrackOut](t, r.Data).Track
}

func TestSignupAndLogin(t *testing.T) {
	e := newEnv(t)

	code, r := call(t, e.api, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "a@example.com", "password": "pw", "name": "A"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, r.Msg, "4 chars")

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "", "password": "pass", "name": "A"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, r = call(t, e.api, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "a@example.com", "password": "pass", "name": "A"})
	require.Equal(t, http.StatusCreated, code)
	raw := r.Data.(map[string]any)["user"].(map[string]any)
	assert.NotEmpty(t, raw["_id"])
	assert.NotContains(t, raw, "PasswordHash")
	assert.Equal(t, domain.RoleUser, raw["role"])

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/signup", "", gin.H{"email": "A@example.com", "password": "pass", "name": "A"})
	assert.Equal(t, http.StatusConflict, code)

	code, r = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "pass"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user not found", r.Msg)

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, r = call(t, e.api, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "a@example.com", "password": "pass"})
	require.Equal(t, http.StatusOK, code)
	tok := into[loginOut](t, r.Data).AuthToken
	require.NotEmpty(t, tok)

	code, r = call(t, e.api, http.MethodGet, "/api/v1/auth/verify", tok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@example.com", r.Data.(map[string]any)["email"])

	code, _ = call(t, e.api, http.MethodGet, "/api/v1/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestGetUsers(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "alice")
	e.signup(t, "b@example.com", "")

	code, r := call(t, e.api, http.MethodGet, "/api/v1/users/all", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, into[[]domain.ResolvedUser](t, r.Data), 2)

	code, r = call(t, e.api, http.MethodGet, "/api/v1/users/"+a.ID, a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", into[domain.ResolvedUser](t, r.Data).Slug)

	code, r = call(t, e.api, http.MethodGet, "/api/v1/users?nameForUrl=alice", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, a.ID, into[domain.ResolvedUser](t, r.Data).ID)

	code, _ = call(t, e.api, http.MethodGet, "/api/v1/users?nameForUrl=nobody", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = call(t, e.api, http.MethodGet, "/api/v1/users", a.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, e.api, http.MethodGet, "/api/v1/users/missing", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLikes(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")
	b := e.signup(t, "b@example.com", "")
	tr := e.createTrack(t, b, "song")

	path := "/api/v1/users/" + a.ID + "/likes"
	for i := 0; i < 2; i++ {
		code, r := call(t, e.api, http.MethodPatch, path, a.Token, gin.H{"trackId": tr.ID})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []string{tr.ID}, into[domain.User](t, r.Data).Likes)
	}

	code, _ := call(t, e.api, http.MethodPatch, path, b.Token, gin.H{"trackId": tr.ID})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, e.api, http.MethodPatch, path, a.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, r := call(t, e.api, http.MethodPatch, path+"/remove", a.Token, gin.H{"trackId": tr.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, into[domain.User](t, r.Data).Likes)
}

func TestFollowingAndFollowers(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")
	b := e.signup(t, "b@example.com", "")

	code, _ := call(t, e.api, http.MethodPatch, "/api/v1/users/"+a.ID+"/following", a.Token, gin.H{"followedUserId": a.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, r := call(t, e.api, http.MethodPatch, "/api/v1/users/"+a.ID+"/following", a.Token, gin.H{"followedUserId": b.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{b.ID}, into[domain.User](t, r.Data).Following)

	// followers 的关注者必须是调用者
	code, _ = call(t, e.api, http.MethodPatch, "/api/v1/users/"+b.ID+"/followers", b.Token, gin.H{"followingUserId": a.ID})
	assert.Equal(t, http.StatusForbidden, code)

	code, r = call(t, e.api, http.MethodPatch, "/api/v1/users/"+b.ID+"/followers", a.Token, gin.H{"followingUserId": a.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{a.ID}, into[domain.User](t, r.Data).Followers)

	code, r = call(t, e.api, http.MethodPatch, "/api/v1/users/"+b.ID+"/followers/delete", a.Token, gin.H{"followingUserId": a.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, into[domain.User](t, r.Data).Followers)

	code, r = call(t, e.api, http.MethodPatch, "/api/v1/users/"+a.ID+"/following/delete", a.Token, gin.H{"followedUserId": b.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, into[domain.User](t, r.Data).Following)
}

func TestFollowEndpoint(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")
	b := e.signup(t, "b@example.com", "")

	code, _ := call(t, e.api, http.MethodPost, "/api/v1/users/"+a.ID+"/follow", a.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, e.api, http.MethodPost, "/api/v1/users/missing/follow", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, r := call(t, e.api, http.MethodPost, "/api/v1/users/"+b.ID+"/follow", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{b.ID}, into[domain.User](t, r.Data).Following)

	code, r = call(t, e.api, http.MethodGet, "/api/v1/users/"+b.ID, b.Token, nil)
	require.Equal(t, http.StatusOK, code)
	followers := into[domain.ResolvedUser](t, r.Data).Followers
	require.Len(t, followers, 1)
	assert.Equal(t, a.ID, followers[0].ID)

	code, r = call(t, e.api, http.MethodDelete, "/api/v1/users/"+b.ID+"/follow", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, into[domain.User](t, r.Data).Following)
}

func TestTracksAndFeeds(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")
	b := e.signup(t, "b@example.com", "")
	c := e.signup(t, "c@example.com", "")
	t1 := e.createTrack(t, b, "one")
	e.createTrack(t, c, "two")
	t3 := e.createTrack(t, b, "three")
	assert.Equal(t, b.ID, t1.OwnerID)

	code, _ := call(t, e.api, http.MethodPost, "/api/v1/tracks", a.Token, gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, r := call(t, e.api, http.MethodGet, "/api/v1/users/"+b.ID+"/tracks", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	own := into[[]domain.Track](t, r.Data)
	require.Len(t, own, 2)
	assert.Equal(t, []string{t1.ID, t3.ID}, []string{own[0].ID, own[1].ID})

	code, r = call(t, e.api, http.MethodGet, "/api/v1/users/"+a.ID+"/following/tracks", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, into[[]domain.Track](t, r.Data))

	code, _ = call(t, e.api, http.MethodPost, "/api/v1/users/"+b.ID+"/follow", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, r = call(t, e.api, http.MethodGet, "/api/v1/users/"+a.ID+"/following/tracks", a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, into[[]domain.Track](t, r.Data), 2)

	code, _ = call(t, e.api, http.MethodGet, "/api/v1/users/missing/following/tracks", a.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, r = call(t, e.api, http.MethodPatch, "/api/v1/users/"+b.ID+"/tracks", b.Token, gin.H{"tracks": []string{t3.ID, t1.ID}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{t3.ID, t1.ID}, into[domain.User](t, r.Data).Tracks)
	code, _ = call(t, e.api, http.MethodPatch, "/api/v1/users/"+b.ID+"/tracks", b.Token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestComments(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")
	tr := e.createTrack(t, a, "song")

	code, _ := call(t, e.api, http.MethodPost, "/api/v1/tracks/"+tr.ID+"/comments", a.Token, gin.H{"text": " "})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, e.api, http.MethodPost, "/api/v1/tracks/missing/comments", a.Token, gin.H{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, code)

	code, r := call(t, e.api, http.MethodPost, "/api/v1/tracks/"+tr.ID+"/comments", a.Token, gin.H{"text": "nice"})
	require.Equal(t, http.StatusCreated, code)
	got := into[domain.Track](t, r.Data)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, a.ID, got.Comments[0].UserID)

	code, r = call(t, e.api, http.MethodGet, "/api/v1/tracks/"+tr.ID, a.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "nice", into[domain.Track](t, r.Data).Comments[0].Text)
}

func upload(t *testing.T, h http.Handler, path, token, field, filename, contentType string) (int, resp.Resp) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	pw, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = pw.Write([]byte("data"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var r resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return w.Code, r
}

func TestUploads(t *testing.T) {
	e := newEnv(t)
	a := e.signup(t, "a@example.com", "")

	code, r := upload(t, e.api, "/api/v1/trackUpload", a.Token, "trackUrl", "song.mp3", "audio/mpeg")
	require.Equal(t, http.StatusOK, code, r.Msg)
	url := r.Data.(map[string]any)["trackUrl"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/tracks/"))
	assert.True(t, strings.HasSuffix(url, ".mp3"))

	// 本地驱动直接由静态路由回放
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data", w.Body.String())

	code, _ = upload(t, e.api, "/api/v1/trackUpload", a.Token, "trackUrl", "song.png", "image/png")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = upload(t, e.api, "/api/v1/imageUpload", "", "imageUrl", "me.png", "image/png")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, r = upload(t, e.api, "/api/v1/auth/imageUpload", "", "imageUrl", "me.png", "image/png")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(r.Data.(map[string]any)["imageUrl"].(string), "/uploads/images/"))
}

func TestAdmin(t *testing.T) {
	e := newEnv(t)
	root := e.signup(t, "root@example.com", "")
	a := e.signup(t, "a@example.com", "")

	code, _ := call(t, e.admin, http.MethodGet, "/admin/v1/users", a.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, r := call(t, e.admin, http.MethodGet, "/admin/v1/users", root.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, into[[]domain.ResolvedUser](t, r.Data), 2)

	code, r = call(t, e.admin, http.MethodPut, "/admin/v1/users/"+a.ID+"/edges/likes", root.Token, gin.H{"values": []string{"t1", "t2", "t1"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"t1", "t2"}, into[domain.User](t, r.Data).Likes)

	code, _ = call(t, e.admin, http.MethodPut, "/admin/v1/users/"+a.ID+"/edges/friends", root.Token, gin.H{"values": []string{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, r = call(t, e.admin, http.MethodGet, "/admin/v1/users/"+a.ID, root.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@example.com", into[domain.User](t, r.Data).Email)

	code, _ = call(t, e.admin, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

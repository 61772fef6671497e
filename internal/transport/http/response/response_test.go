package response

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	r := Error(CodeNotFound, "")
	assert.Equal(t, "Not Found", r.Msg)
	assert.Equal(t, struct{}{}, r.Data)

	r = Error(CodeConflict, "user already exists")
	assert.Equal(t, "user already exists", r.Msg)
}

func TestOKNeverNull(t *testing.T) {
	assert.Equal(t, struct{}{}, OK(nil).Data)
	assert.Equal(t, CodeOK, OK(1).Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, HTTPStatus(CodeOK))
	assert.Equal(t, 409, HTTPStatus(CodeConflict))
	assert.Equal(t, 500, HTTPStatus(7))
}

func TestAbortAndWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, CodeBusy, "")
	assert.True(t, c.IsAborted())
	assert.Equal(t, 503, w.Code)
	assert.JSONEq(t, `{"code":503,"msg":"Service Unavailable","data":{}}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Write(c, 0, nil)
	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, w.Body.String())
}

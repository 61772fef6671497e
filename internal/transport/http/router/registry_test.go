package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"soundnest/internal/core/auth"
	"soundnest/internal/transport/http/ez"
)

type mod struct {
	name  string
	prio  int
	order *[]string
}

func (m mod) Priority() int { return m.prio }
func (m mod) MountAPI(public, _ ez.EZ) {
	*m.order = append(*m.order, m.name)
}

type adminOnly struct{ mounted *bool }

func (a adminOnly) MountAdmin(ez.EZ) { *a.mounted = true }

func TestRegistryOrderAndDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var order []string
	var adminMounted bool
	reg := NewRegistry(
		mod{name: "late", prio: 200, order: &order},
		mod{name: "early", prio: 1, order: &order},
		adminOnly{mounted: &adminMounted},
	)
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "soundnest", TTL: time.Hour}

	api := NewAPIEngine(zap.NewNop(), j, reg, Options{})
	assert.Equal(t, []string{"early", "late"}, order)
	assert.False(t, adminMounted)

	NewAdminEngine(zap.NewNop(), j, reg, Options{})
	assert.True(t, adminMounted)

	for _, p := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
	}
}

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	params := Parse(contextWithQuery(""))
	require.Equal(t, DefaultPage, params.Page)
	require.Equal(t, DefaultLimit, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestParseComputesOffset(t *testing.T) {
	params := Parse(contextWithQuery("page=3&limit=10"))
	require.Equal(t, 3, params.Page)
	require.Equal(t, 10, params.Limit)
	require.Equal(t, 20, params.Offset)
}

func TestParseClampsOutOfRangeValues(t *testing.T) {
	params := Parse(contextWithQuery("page=-1&limit=9999"))
	require.Equal(t, DefaultPage, params.Page)
	require.Equal(t, MaxLimit, params.Limit)
}

package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", DefaultPageSize},
		{"abc", DefaultPageSize},
		{"0", 1},
		{"-4", 1},
		{"12", 12},
		{"50", 50},
		{"51", 50},
		{"1000", 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in), "limit %q", tt.in)
	}
}

func TestParseSort(t *testing.T) {
	col, desc := ParseSort("", "")
	assert.Equal(t, SortByStartAt, col)
	assert.False(t, desc)

	col, desc = ParseSort("createdAt", "DESC")
	assert.Equal(t, SortByCreatedAt, col)
	assert.True(t, desc)

	col, _ = ParseSort("title", "asc")
	assert.Equal(t, SortByStartAt, col)
}

func TestParseCursorParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/events?limit=80&cursor=%20abc%20&sortBy=createdAt&order=desc", nil)

	params := ParseCursorParams(c)
	assert.Equal(t, CursorParams{Limit: 50, Cursor: "abc", SortBy: SortByCreatedAt, Desc: true}, params)
}

func TestNullIfBlank(t *testing.T) {
	blank, value := "  ", " x "
	assert.Nil(t, NullIfBlank(nil))
	assert.Nil(t, NullIfBlank(&blank))
	assert.Equal(t, "x", *NullIfBlank(&value))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseDuration("30s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, ParseDuration(" 2s ", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("0s", time.Minute))
}

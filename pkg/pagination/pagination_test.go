package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", DefaultPage, DefaultLimit},
		{"explicit values", "page=3&limit=50", 3, 50},
		{"zero page falls back", "page=0", DefaultPage, DefaultLimit},
		{"negative limit falls back", "limit=-5", DefaultPage, DefaultLimit},
		{"limit capped", "limit=5000", DefaultPage, MaxLimit},
		{"non-numeric falls back", "page=abc&limit=xyz", DefaultPage, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paramsFor(t, tt.query)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Parse(%q) = %+v, want page=%d limit=%d", tt.query, got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestConstants(t *testing.T) {
	if DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", DefaultLimit)
	}
	if MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want 100", MaxLimit)
	}
	if DefaultOffset != 0 {
		t.Errorf("DefaultOffset = %d, want 0", DefaultOffset)
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name           string
		queryString    string
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "no params uses defaults",
			queryString:    "",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "valid limit and offset",
			queryString:    "limit=10&offset=20",
			expectedLimit:  10,
			expectedOffset: 20,
		},
		{
			name:           "zero limit uses default",
			queryString:    "limit=0",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative limit uses default",
			queryString:    "limit=-10",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "limit exceeds max",
			queryString:    "limit=200",
			expectedLimit:  MaxLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative offset uses default",
			queryString:    "offset=-5",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "non-numeric params use defaults",
			queryString:    "limit=abc&offset=xyz",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.queryString, nil)

			params := ParseParams(c)

			if params.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, tt.expectedLimit)
			}
			if params.Offset != tt.expectedOffset {
				t.Errorf("Offset = %d, want %d", params.Offset, tt.expectedOffset)
			}
		})
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(20, 40, 123)

	if meta.Limit != 20 {
		t.Errorf("Limit = %d, want 20", meta.Limit)
	}
	if meta.Offset != 40 {
		t.Errorf("Offset = %d, want 40", meta.Offset)
	}
	if meta.Total != 123 {
		t.Errorf("Total = %d, want 123", meta.Total)
	}
}

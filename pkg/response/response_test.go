package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestContentDisposition(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"pauta_PRG1_1.xlsx", `attachment; filename="pauta_PRG1_1.xlsx"; filename*=UTF-8''pauta_PRG1_1.xlsx`},
		{"calendário 2025.ics", `attachment; filename="calend_rio 2025.ics"; filename*=UTF-8''calend%C3%A1rio%202025.ics`},
		{`a"b.xlsx`, `attachment; filename="a_b.xlsx"; filename*=UTF-8''a%22b.xlsx`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, contentDisposition(tt.filename), tt.filename)
	}
}

func TestOKPage_TotalPages(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		pageSize  int
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{"exact", 40, 2, 20, 2, 20, 2},
		{"remainder", 41, 1, 20, 1, 20, 3},
		{"empty", 0, 1, 20, 1, 20, 0},
		{"defaults", 5, 0, 0, 1, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			OKPage(c, []int{}, tt.total, tt.page, tt.pageSize)

			var resp struct {
				Data struct {
					Pagination Pagination `json:"pagination"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			p := resp.Data.Pagination
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

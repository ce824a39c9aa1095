package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racegap-go/pkg/config"
	"github.com/mpapenbr/racegap-go/pkg/provider/ergast"
	"github.com/mpapenbr/racegap-go/pkg/storage"
)

func TestCheckConfig(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		pageLimit int
		want      storage.Format
		wantErr   bool
	}{
		{"defaults", "xlsx", ergast.DefaultPageLimit, storage.FormatXLSX, false},
		{"csv", "csv", 30, storage.FormatCSV, false},
		{"zero page limit", "csv", 0, "", true},
		{"negative page limit", "csv", -1, "", true},
		{"unknown format", "json", 100, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.Format = tt.format
			config.PageLimit = tt.pageLimit
			got, err := checkConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

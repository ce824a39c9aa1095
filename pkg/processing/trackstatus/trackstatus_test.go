package trackstatus

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		codes string
		want  string
	}{
		{codes: "", want: ""},
		{codes: "1", want: "C"},
		{codes: "56", want: "RF VSC"},
		{codes: "65", want: "VSC RF"},
		{codes: "2467", want: "YF SC VSC VSC end"},
		{codes: "3", want: "unknown"},
		{codes: "9x0", want: ""},
		{codes: "1a2", want: "C YF"},
	}
	for _, tt := range tests {
		t.Run(tt.codes, func(t *testing.T) {
			assert.Equal(t, Decode(tt.codes), tt.want)
		})
	}
}

func TestDecodeEmptyIsIdempotent(t *testing.T) {
	assert.Equal(t, Decode(Decode("")), "")
}

package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRefresh(t *testing.T) {
	tests := []struct {
		param   string
		want    bool
		wantErr bool
	}{
		{param: "", want: false},
		{param: "true", want: true},
		{param: "1", want: true},
		{param: " false ", want: false},
		{param: "yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			got, err := ParseRefresh(tt.param)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

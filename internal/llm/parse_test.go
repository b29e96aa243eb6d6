package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]any
		wantErr bool
	}{
		{name: "strict", text: `{"supplierName":"ACME"}`, want: map[string]any{"supplierName": "ACME"}},
		{name: "wrapped in prose", text: "Sure! Here it is:\n```json\n{\"totalAmount\": 12.5}\n```", want: map[string]any{"totalAmount": 12.5}},
		{name: "no braces", text: "I cannot help with that", wantErr: true},
		{name: "array is not an object", text: `[1,2]`, wantErr: true},
		{name: "broken substring", text: `{"a": }`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompletion(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnparsable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

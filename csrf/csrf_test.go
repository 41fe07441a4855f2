package csrf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, tok, EncodedLength)
	assert.True(t, wellFormed(tok))

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestValidate(t *testing.T) {
	tok, err := GenerateToken()
	require.NoError(t, err)

	other, err := GenerateToken()
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantValid  bool
		wantReason string
	}{
		{"matching pair", tok, tok, true, ""},
		{"missing header", "", tok, false, ReasonMissingHeader},
		{"missing cookie", tok, "", false, ReasonMissingCookie},
		{"short header", tok[:10], tok, false, ReasonBadFormat},
		{"non-hex header", strings.Repeat("z", EncodedLength), tok, false, ReasonBadFormat},
		{"short cookie", tok, tok[:10], false, ReasonBadFormat},
		{"mismatch", tok, other, false, ReasonMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.header, tt.cookie)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}

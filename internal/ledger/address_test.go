package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletFromUserID(t *testing.T) {
	valid := "r" + strings.Repeat("N", 30)

	tests := []struct {
		name    string
		userID  string
		want    string
		wantErr bool
	}{
		{
			name:   "classic address localpart",
			userID: "@" + valid + ":matrix.example.org",
			want:   valid,
		},
		{
			name:   "domain with port",
			userID: "@" + valid + ":matrix.example.org:8448",
			want:   valid,
		},
		{
			name:   "shortest classic address",
			userID: "@r" + strings.Repeat("1", 24) + ":x",
			want:   "r" + strings.Repeat("1", 24),
		},
		{
			name:    "missing leading at",
			userID:  valid + ":x",
			wantErr: true,
		},
		{
			name:    "missing domain",
			userID:  "@" + valid,
			wantErr: true,
		},
		{
			name:    "plain username localpart",
			userID:  "@alice:x",
			wantErr: true,
		},
		{
			name:    "wrong address prefix",
			userID:  "@x" + strings.Repeat("N", 30) + ":x",
			wantErr: true,
		},
		{
			name:    "excluded base58 characters",
			userID:  "@r0OIl" + strings.Repeat("N", 26) + ":x",
			wantErr: true,
		},
		{
			name:    "localpart too short",
			userID:  "@r" + strings.Repeat("1", 23) + ":x",
			wantErr: true,
		},
		{
			name:    "localpart too long",
			userID:  "@r" + strings.Repeat("1", 35) + ":x",
			wantErr: true,
		},
		{
			name:    "empty user id",
			userID:  "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WalletFromUserID(tc.userID)
			if tc.wantErr {
				require.Error(t, err)
				var badAddr *ErrBadWalletAddress
				require.ErrorAs(t, err, &badAddr)
				assert.Equal(t, tc.userID, badAddr.UserID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

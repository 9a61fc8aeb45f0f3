package totp_test

import (
	"testing"

	"github.com/sitetrack/authkit/pkg/totp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioningURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.URIParams
		want    string
		wantErr error
	}{
		{
			name: "basic URI",
			params: totp.URIParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "foreman@example.com",
				Issuer:      "SiteTrack",
			},
			want: "otpauth://totp/SiteTrack:foreman@example.com?algorithm=SHA1&digits=6&issuer=SiteTrack&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "URI with special characters",
			params: totp.URIParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test+user@example.com",
				Issuer:      "Site & Track",
			},
			want: "otpauth://totp/Site%20&%20Track:test+user@example.com?algorithm=SHA1&digits=6&issuer=Site+%26+Track&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "explicit eight digits",
			params: totp.URIParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "foreman@example.com",
				Issuer:      "SiteTrack",
				Params:      totp.Params{Digits: 8, Period: 60},
			},
			want: "otpauth://totp/SiteTrack:foreman@example.com?algorithm=SHA1&digits=8&issuer=SiteTrack&period=60&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "missing secret",
			params: totp.URIParams{
				AccountName: "foreman@example.com",
				Issuer:      "SiteTrack",
			},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name: "invalid secret encoding",
			params: totp.URIParams{
				Secret:      "not-base32!",
				AccountName: "foreman@example.com",
				Issuer:      "SiteTrack",
			},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name: "missing account name",
			params: totp.URIParams{
				Secret: "ABCDEFGHIJKLMNOP",
				Issuer: "SiteTrack",
			},
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name: "missing issuer",
			params: totp.URIParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "foreman@example.com",
			},
			wantErr: totp.ErrMissingIssuer,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.ProvisioningURI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

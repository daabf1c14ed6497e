package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLockfile(t *testing.T) {
	cases := []struct {
		name     string
		contents string
		want     Credentials
		wantErr  bool
	}{
		{
			name:     "well formed",
			contents: "LeagueClient:12345:54321:sekret:https",
			want:     Credentials{Port: 54321, Password: "sekret"},
		},
		{
			name:     "trailing newline",
			contents: "LeagueClient:12345:54321:sekret:https\n",
			want:     Credentials{Port: 54321, Password: "sekret"},
		},
		{
			name:     "password containing colons",
			contents: "LeagueClient:12345:54321:se:kr:et:https",
			want:     Credentials{Port: 54321, Password: "se:kr:et"},
		},
		{
			name:     "too few fields",
			contents: "LeagueClient:12345:54321",
			wantErr:  true,
		},
		{
			name:     "missing protocol",
			contents: "LeagueClient:12345:54321:sekret",
			wantErr:  true,
		},
		{
			name:     "non-numeric port",
			contents: "LeagueClient:12345:nope:sekret:https",
			wantErr:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseLockfile(tc.contents)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestReadLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1:2999:pw:https"), 0o600))

	got, err := ReadLockfile(path)
	require.NoError(t, err)
	require.Equal(t, Credentials{Port: 2999, Password: "pw"}, got)

	_, err = ReadLockfile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestReadLockfile_EnvOverride(t *testing.T) {
	t.Setenv(envPort, "4001")
	t.Setenv(envPassword, "override")

	got, err := ReadLockfile(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Equal(t, Credentials{Port: 4001, Password: "override"}, got)
}

func TestReadLockfile_PartialEnvIgnored(t *testing.T) {
	t.Setenv(envPort, "4001")

	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1:2999:pw:https"), 0o600))

	got, err := ReadLockfile(path)
	require.NoError(t, err)
	require.Equal(t, Credentials{Port: 2999, Password: "pw"}, got)
}

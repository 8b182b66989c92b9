package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/members/internal/store"
	"github.com/roach88/members/internal/testutil"
)

const testCredentials = `[{"帳號":"admin","密碼":"1234"}]`

// sessionEnv is a set of files for one session run.
type sessionEnv struct {
	db          string
	credentials string
	importFile  string
}

func newSessionEnv(t *testing.T) sessionEnv {
	t.Helper()
	return sessionEnv{
		db:          filepath.Join(t.TempDir(), "members.db"),
		credentials: testutil.WriteFile(t, "pass.json", testCredentials),
		importFile:  testutil.WriteFile(t, "members.txt", "Amy,F,0911000111\nBob,M,0922333444\n"),
	}
}

func (e sessionEnv) args(extra ...string) []string {
	return append([]string{
		"--db", e.db,
		"--credentials", e.credentials,
		"--import-file", e.importFile,
	}, extra...)
}

func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSession_ImportAndList(t *testing.T) {
	env := newSessionEnv(t)

	out, err := runRoot(t, "admin\n1234\n2\n3\n0\n", env.args()...)
	require.NoError(t, err)

	assert.Contains(t, out, "=>登入成功")
	assert.Contains(t, out, "=> 異動 2 筆記錄")
	assert.Contains(t, out, "Amy")
	assert.Contains(t, out, "0922333444")

	records, err := store.NewSQLiteStore(env.db, nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Amy", records[0].Name)
}

func TestSession_LoginFailureExitsCleanly(t *testing.T) {
	env := newSessionEnv(t)

	out, err := runRoot(t, "admin\nwrong\n3\n", env.args()...)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, GetExitCode(err))

	assert.Contains(t, out, "=>帳密錯誤，程式結束")
	assert.NotContains(t, out, "選單")
}

func TestSession_MissingCredentialsFile(t *testing.T) {
	env := newSessionEnv(t)
	env.credentials = filepath.Join(t.TempDir(), "missing.json")

	out, err := runRoot(t, "admin\n1234\n", env.args()...)
	require.NoError(t, err)

	assert.Contains(t, out, "=>找不到檔案 "+env.credentials)
	assert.Contains(t, out, "=>帳密錯誤，程式結束")
}

func TestSession_MD5Override(t *testing.T) {
	env := newSessionEnv(t)
	env.credentials = testutil.WriteFile(t, "pass.json",
		`[{"帳號":"admin","密碼":"81dc9bdb52d04dc20036dbd8313ed055"}]`)

	out, err := runRoot(t, "admin\n1234\n0\n", env.args("--password-hash", "md5")...)
	require.NoError(t, err)
	assert.Contains(t, out, "=>登入成功")
}

func TestSession_InvalidPasswordHashFlag(t *testing.T) {
	env := newSessionEnv(t)

	_, err := runRoot(t, "", env.args("--password-hash", "sha1")...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestSession_BadConfigFile(t *testing.T) {
	path := testutil.WriteFile(t, "members.yaml", "databse: typo.db\n")

	_, err := runRoot(t, "", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestSession_ConfigFileWithFlagOverride(t *testing.T) {
	env := newSessionEnv(t)
	configPath := testutil.WriteFile(t, "members.yaml", fmt.Sprintf(
		"database: %s\ncredentials: %s\nimport_file: %s\n",
		filepath.Join(t.TempDir(), "ignored.db"), env.credentials, env.importFile,
	))

	_, err := runRoot(t, "admin\n1234\n2\n0\n", "--config", configPath, "--db", env.db)
	require.NoError(t, err)

	count, err := store.NewSQLiteStore(env.db, nil).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSession_ResetOnStart(t *testing.T) {
	tests := []struct {
		name      string
		extra     []string
		wantCount int
	}{
		{"default_clears", nil, 0},
		{"disabled_keeps", []string{"--reset-on-start=false"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newSessionEnv(t)
			st := store.NewSQLiteStore(env.db, nil)
			require.NoError(t, st.EnsureTable(ctx))
			_, err := st.Insert(ctx, "Amy", "F", "0911000111")
			require.NoError(t, err)

			_, err = runRoot(t, "admin\n1234\n0\n", env.args(tt.extra...)...)
			require.NoError(t, err)

			count, err := st.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestSession_EndOfInputExits(t *testing.T) {
	env := newSessionEnv(t)

	out, err := runRoot(t, "admin\n1234\n", env.args()...)
	require.NoError(t, err)
	assert.Contains(t, out, "請輸入您的選擇 [0-7]: ")
}

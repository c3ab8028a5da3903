package app

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/specialistvlad/objectmomma/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulesPath = "../../modules"

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{ModulesPath: "modules"}},
		{name: "full", cfg: Config{ModulesPath: "modules", LogFormat: "json", LogLevel: "debug", Calls: []Invocation{{Call: "user", Identifier: "x"}}}},
		{name: "no modules path", cfg: Config{}, wantErr: "ModulesPath"},
		{name: "bad format", cfg: Config{ModulesPath: "m", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad level", cfg: Config{ModulesPath: "m", LogLevel: "loud"}, wantErr: "invalid log level"},
		{name: "empty call", cfg: Config{ModulesPath: "m", Calls: []Invocation{{Identifier: "x"}}}, wantErr: "call #1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	buf := &testutil.SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	logger = newLogger("bogus", "text", buf)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

// results decodes the JSON result lines in out, skipping log lines.
func results(t *testing.T, out string) []map[string]any {
	t.Helper()
	var all []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var r map[string]any
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			continue
		}
		if _, ok := r["call"]; ok {
			all = append(all, r)
		}
	}
	return all
}

func newTestApp(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()
	if cfg.ModulesPath == "" {
		cfg.ModulesPath = modulesPath
	}
	cfg.LogFormat = "json"
	config, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	a, err := NewApp(context.Background(), out, config)
	require.NoError(t, err)
	return a, out
}

func TestRun(t *testing.T) {
	a, out := newTestApp(t, Config{})
	assert.Equal(t, []string{"comment", "post", "upvote", "user", "vote"}, a.Registry().Types())

	err := a.Run(context.Background(), []Invocation{
		{Call: "spawn_vote", Identifier: "Billy Pilgrim's Upvote for Scott Pilgrim's Comment on Post about Comic Books"},
		{Call: "find_post", Identifier: "Post about Comic Books"},
	})
	require.NoError(t, err)

	got := results(t, out.String())
	require.Len(t, got, 2)

	vote := got[0]["value"].(map[string]any)
	assert.Equal(t, "upvote", vote["Type"])
	comment := vote["Comment"].(map[string]any)
	assert.Equal(t, "Batman", comment["Post"].(map[string]any)["Title"])

	post := got[1]["value"].(map[string]any)
	assert.Equal(t, "Batman", post["Title"])
	assert.Equal(t, "find_post", got[1]["call"])
}

func TestRun_StopsAtFirstError(t *testing.T) {
	a, out := newTestApp(t, Config{})
	err := a.Run(context.Background(), []Invocation{
		{Call: "create_user", Identifier: "Scott Pilgrim"},
		{Call: "create_user", Identifier: "Scott Pilgrim"},
		{Call: "create_user", Identifier: "Ramona Flowers"},
	})
	require.ErrorIs(t, err, fault.ErrObjectExists)
	assert.Contains(t, err.Error(), `create_user "Scott Pilgrim"`)
	assert.Len(t, results(t, out.String()), 1)
}

func TestRun_AttributesAndSpawnFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"attributes/users.yml": "Ramona Flowers:\n  email: ramona@amazon.ca\n",
		"spawn.yml": `
users:
  - Ramona Flowers
comments:
  - author: Scott Pilgrim
    post: Post about Comic Books
`,
	})
	a, out := newTestApp(t, Config{
		AttributesPath: dir + "/attributes",
		SpawnPath:      dir + "/spawn.yml",
	})

	err := a.Run(context.Background(), []Invocation{
		{Call: "find_user", Identifier: "Ramona Flowers"},
		{Call: "find_comment", Identifier: "Scott Pilgrim's Comment on Post about Comic Books"},
		{Call: "user_attributes", Identifier: "Ramona Flowers"},
	})
	require.NoError(t, err)

	got := results(t, out.String())
	require.Len(t, got, 3)
	assert.Equal(t, "ramona@amazon.ca", got[0]["value"].(map[string]any)["Email"])
	assert.Equal(t, map[string]any{"email": "ramona@amazon.ca"}, got[2]["value"])
	assert.Contains(t, out.String(), "Spawn file processed.")
}

func TestNewApp_Errors(t *testing.T) {
	broken := testutil.WriteFiles(t, map[string]string{"bad.hcl": `builder "user" {`})
	cfg, err := NewConfig(Config{ModulesPath: broken})
	require.NoError(t, err)
	_, err = NewApp(context.Background(), &testutil.SafeBuffer{}, cfg)
	assert.ErrorContains(t, err, "failed to load builders")

	cfg, err = NewConfig(Config{ModulesPath: modulesPath, AttributesPath: broken + "/bad.hcl"})
	require.NoError(t, err)
	_, err = NewApp(context.Background(), &testutil.SafeBuffer{}, cfg)
	assert.ErrorContains(t, err, "failed to open attributes path")
}

func TestRun_BadSpawnFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"spawn.yml": "spaceships:\n  - Enterprise\n"})
	a, _ := newTestApp(t, Config{SpawnPath: dir + "/spawn.yml"})
	err := a.Run(context.Background(), nil)
	assert.ErrorIs(t, err, fault.ErrBuilderNotFound)

	a, _ = newTestApp(t, Config{SpawnPath: dir + "/missing.yml"})
	assert.ErrorContains(t, a.Run(context.Background(), nil), "failed to read spawn file")
}

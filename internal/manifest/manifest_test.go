package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/identifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const voteSource = `
builder "vote" {
  description = "A vote cast on a comment"
  identifier  = "${voter}'s ${vote_type} for ${comment}"

  sibling "comment" {}
  sibling "voter" {
    type = "user"
  }
}

builder "ballot" {
  handler = "vote"
  extends = "vote"
}
`

func TestParseSource(t *testing.T) {
	manifests, diags := ParseSource(context.Background(), []byte(voteSource), "vote.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, manifests, 2)

	vote := manifests[0]
	assert.Equal(t, "vote", vote.Type)
	assert.Equal(t, "vote", vote.Handler)
	assert.Equal(t, "A vote cast on a comment", vote.Description)
	assert.Empty(t, vote.Extends)
	assert.Equal(t, "vote.hcl", vote.FSInformation.FilePath)
	if diff := cmp.Diff([]builder.Sibling{
		{Slot: "comment", Type: "comment"},
		{Slot: "voter", Type: "user"},
	}, vote.Siblings); diff != "" {
		t.Errorf("siblings mismatch (-want +got):\n%s", diff)
	}

	tmpl, err := vote.Template()
	require.NoError(t, err)
	codec, err := identifier.Compile("vote", tmpl)
	require.NoError(t, err)
	assert.Equal(t, []string{"voter", "vote_type", "comment"}, codec.Names())

	ballot := manifests[1]
	assert.Equal(t, "vote", ballot.Handler)
	assert.Equal(t, "vote", ballot.Extends)
	assert.Nil(t, ballot.Identifier)
	tmpl, err = ballot.Template()
	require.NoError(t, err)
	assert.Nil(t, tmpl)
}

func TestParseSource_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: `builder "a" {`},
		{name: "missing label", src: `builder { }`},
		{name: "unknown attribute", src: `builder "a" { colour = "red" }`},
		{name: "traversal slot", src: `builder "a" { identifier = "${user.name}" }`},
		{name: "duplicate sibling", src: `builder "a" {
  identifier = "${b}"
  sibling "b" {}
  sibling "b" {}
}`},
		{name: "non-string handler", src: `builder "a" { handler = [1] }`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			manifests, diags := ParseSource(context.Background(), []byte(tc.src), "bad.hcl")
			assert.True(t, diags.HasErrors())
			assert.Nil(t, manifests)
		})
	}
}

func TestParseFile_Nil(t *testing.T) {
	_, diags := ParseFile(context.Background(), nil, "nil.hcl")
	assert.True(t, diags.HasErrors())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blog/vote.hcl", voteSource)
	writeFile(t, dir, "blog/user.hcl", `builder "user" { description = "A user" }`)

	loader := NewDirLoader(dir)
	ctx := context.Background()

	m, err := loader.Load(ctx, "user")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "A user", m.Description)
	assert.Equal(t, filepath.Join(dir, "blog", "user.hcl"), m.FSInformation.FilePath)

	m, err = loader.Load(ctx, "post")
	require.NoError(t, err)
	assert.Nil(t, m)

	all, err := loader.All(ctx)
	require.NoError(t, err)
	var types []string
	for _, m := range all {
		types = append(types, m.Type)
	}
	assert.Equal(t, []string{"ballot", "user", "vote"}, types)
}

func TestDirLoader_DuplicateType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `builder "user" {}`)
	writeFile(t, dir, "b.hcl", `builder "user" {}`)

	_, err := NewDirLoader(dir).Load(context.Background(), "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder 'user' declared in both")
}

func TestDirLoader_BadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `builder "user" {`)

	_, err := NewDirLoader(dir).Load(context.Background(), "user")
	assert.Error(t, err)
}

func TestDirLoader_MissingOrEmptyPath(t *testing.T) {
	for name, path := range map[string]string{
		"missing": filepath.Join(t.TempDir(), "nope"),
		"empty":   "",
		"no hcl":  t.TempDir(),
	} {
		t.Run(name, func(t *testing.T) {
			m, err := NewDirLoader(path).Load(context.Background(), "user")
			require.NoError(t, err)
			assert.Nil(t, m)
		})
	}
}

package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/objectmomma/internal/builder"
	"github.com/specialistvlad/objectmomma/internal/fault"
	"github.com/specialistvlad/objectmomma/internal/identifier"
	"github.com/specialistvlad/objectmomma/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sourceLoader serves manifests parsed from in-memory HCL and counts loads.
type sourceLoader struct {
	mu    sync.Mutex
	index map[string]*manifest.Manifest
	loads map[string]int
}

func newSourceLoader(t *testing.T, src string) *sourceLoader {
	t.Helper()
	manifests, diags := manifest.ParseSource(context.Background(), []byte(src), "test.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	l := &sourceLoader{index: map[string]*manifest.Manifest{}, loads: map[string]int{}}
	for _, m := range manifests {
		l.index[m.Type] = m
	}
	return l
}

func (l *sourceLoader) Load(_ context.Context, objectType string) (*manifest.Manifest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads[objectType]++
	return l.index[objectType], nil
}

func (l *sourceLoader) All(_ context.Context) ([]*manifest.Manifest, error) {
	var all []*manifest.Manifest
	for _, m := range l.index {
		all = append(all, m)
	}
	return all, nil
}

const blogSource = `
builder "user" {}

builder "comment" {
  identifier = "${author}'s Comment on ${post}"
  sibling "author" { type = "user" }
  sibling "post" {}
}

builder "post" {
  identifier = "Post about ${subject}"
}

builder "admin" {
  extends = "user"
  description = "A user with every permission"
}
`

func locateReturning(v string) builder.LocateFunc {
	return func(context.Context, *builder.Child) (any, error) { return v, nil }
}

func TestLookup_JoinsManifestAndHandler(t *testing.T) {
	r := New(nil, newSourceLoader(t, blogSource))
	r.RegisterHandler("comment", builder.Hooks{Locate: locateReturning("comment")})

	b, err := r.Lookup(context.Background(), "comment")
	require.NoError(t, err)
	assert.Equal(t, "comment", b.Type)
	assert.Equal(t, []builder.Sibling{{Slot: "author", Type: "user"}, {Slot: "post", Type: "post"}}, b.Siblings)
	require.NotNil(t, b.Locate)

	codec, err := b.Codec()
	require.NoError(t, err)
	slots, err := codec.Decode("Scott's Comment on Post about Comic Books")
	require.NoError(t, err)
	assert.Equal(t, identifier.Slots{"author": "Scott", "post": "Post about Comic Books"}, slots)
}

func TestLookup_ManifestWithoutHandler(t *testing.T) {
	r := New(nil, newSourceLoader(t, blogSource))

	b, err := r.Lookup(context.Background(), "post")
	require.NoError(t, err)
	assert.Nil(t, b.Locate)
	assert.Nil(t, b.Build)
}

func TestLookup_HandlerWithoutManifestIsOpaque(t *testing.T) {
	r := New(nil, nil)
	r.RegisterHandler("tag", builder.Hooks{Locate: locateReturning("tag")})

	b, err := r.Lookup(context.Background(), "tag")
	require.NoError(t, err)
	codec, err := b.Codec()
	require.NoError(t, err)
	assert.True(t, codec.Opaque())
}

func TestLookup_NotFound(t *testing.T) {
	loader := newSourceLoader(t, blogSource)
	r := New(nil, loader)

	_, err := r.Lookup(context.Background(), "spaceship")
	require.ErrorIs(t, err, fault.ErrBuilderNotFound)
	assert.Equal(t, fault.BuilderNotFound, fault.KindOf(err))

	// Misses are not cached: a later registration is still picked up.
	r.RegisterHandler("spaceship", builder.Hooks{})
	_, err = r.Lookup(context.Background(), "spaceship")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.loads["spaceship"])
}

func TestLookup_Extends(t *testing.T) {
	r := New(nil, newSourceLoader(t, blogSource))
	r.RegisterHandler("user", builder.Hooks{Locate: locateReturning("user")})

	b, err := r.Lookup(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", b.Type)
	assert.Equal(t, "A user with every permission", b.Description)

	got, err := b.Locate(context.Background(), &builder.Child{})
	require.NoError(t, err)
	assert.Equal(t, "user", got)

	// The parent is cached along the way.
	assert.Equal(t, []string{"admin", "user"}, r.Types())
}

func TestLookup_ExtendsCycle(t *testing.T) {
	r := New(nil, newSourceLoader(t, `
builder "a" { extends = "b" }
builder "b" { extends = "c" }
builder "c" { extends = "a" }
`))

	_, err := r.Lookup(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
	assert.Empty(t, r.Types())
}

func TestLookup_ExtendsMissingParent(t *testing.T) {
	r := New(nil, newSourceLoader(t, `builder "a" { extends = "ghost" }`))

	_, err := r.Lookup(context.Background(), "a")
	assert.ErrorIs(t, err, fault.ErrBuilderNotFound)
}

func TestLookup_InvalidManifest(t *testing.T) {
	r := New(nil, newSourceLoader(t, `
builder "comment" {
  identifier = "${author}"
  sibling "post" {}
}
`))

	_, err := r.Lookup(context.Background(), "comment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the identifier template")
}

func TestLookup_CachesAndIsConcurrencySafe(t *testing.T) {
	loader := newSourceLoader(t, blogSource)
	r := New(nil, loader)

	var wg sync.WaitGroup
	results := make([]*builder.Builder, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := r.Lookup(context.Background(), "post")
			assert.NoError(t, err)
			results[i] = b
		}(i)
	}
	wg.Wait()

	for _, b := range results {
		assert.Same(t, results[0], b)
	}
	assert.Equal(t, 1, loader.loads["post"])
}

func TestRegister(t *testing.T) {
	r := New(nil, nil)
	b := &builder.Builder{Type: "post", Template: identifier.MustParseExpr("Post about ${subject}")}
	require.NoError(t, r.Register(b))

	got, err := r.Lookup(context.Background(), "post")
	require.NoError(t, err)
	assert.Same(t, b, got)

	assert.Error(t, r.Register(&builder.Builder{Type: "post"}))
	assert.Error(t, r.Register(&builder.Builder{}))
}

func TestPreload(t *testing.T) {
	r := New(nil, newSourceLoader(t, blogSource))
	require.NoError(t, r.Preload(context.Background()))
	assert.Equal(t, []string{"admin", "comment", "post", "user"}, r.Types())

	bad := New(nil, newSourceLoader(t, `builder "a" { extends = "a" }`))
	assert.Error(t, bad.Preload(context.Background()))

	assert.NoError(t, New(nil, nil).Preload(context.Background()))
}

func TestRegisterHandler_DuplicatePanics(t *testing.T) {
	r := New(nil, nil)
	r.RegisterHandler("user", builder.Hooks{})
	assert.Panics(t, func() { r.RegisterHandler("user", builder.Hooks{}) })
}

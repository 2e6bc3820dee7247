package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelift/notelift-cli/internal/core/domain"
)

// fakeFetcher implements driven.ContentFetcher for routing tests.
type fakeFetcher struct {
	name  string
	kinds []domain.LinkKind
}

func (f *fakeFetcher) Kinds() []domain.LinkKind         { return f.kinds }
func (f *fakeFetcher) Validate(_ context.Context) error { return nil }

func (f *fakeFetcher) Fetch(_ context.Context, _ domain.ResolvedLink) (*domain.FetchOutcome, error) {
	return &domain.FetchOutcome{Succeeded: true, DisplayName: f.name}, nil
}

func TestRouter_RoutesByKind(t *testing.T) {
	local := &fakeFetcher{name: "local", kinds: []domain.LinkKind{domain.LinkLocalPath}}
	cloud := &fakeFetcher{name: "cloud", kinds: []domain.LinkKind{domain.LinkCloudShare, domain.LinkProtocol}}

	r := NewRouter()
	r.Register(local)
	r.Register(cloud)

	got, err := r.FetcherFor(domain.LinkLocalPath)
	require.NoError(t, err)
	assert.Same(t, local, got)

	got, err = r.FetcherFor(domain.LinkCloudShare)
	require.NoError(t, err)
	assert.Same(t, cloud, got)

	got, err = r.FetcherFor(domain.LinkProtocol)
	require.NoError(t, err)
	assert.Same(t, cloud, got)
}

func TestRouter_UnregisteredKind(t *testing.T) {
	r := NewRouter()
	r.Register(&fakeFetcher{name: "local", kinds: []domain.LinkKind{domain.LinkLocalPath}})

	_, err := r.FetcherFor(domain.LinkCloudShare)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRouter_LaterRegistrationWins(t *testing.T) {
	first := &fakeFetcher{name: "first", kinds: []domain.LinkKind{domain.LinkLocalPath}}
	second := &fakeFetcher{name: "second", kinds: []domain.LinkKind{domain.LinkLocalPath}}

	r := NewRouter()
	r.Register(first)
	r.Register(second)

	got, err := r.FetcherFor(domain.LinkLocalPath)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	path, err := Reverse(RouteIndex)
	require.NoError(t, err)
	assert.Equal(t, "/polls/", path)

	path, err = Reverse(RouteResults, "abc")
	require.NoError(t, err)
	assert.Equal(t, "/polls/abc/results/", path)

	_, err = Reverse("polls:missing")
	assert.Error(t, err)

	_, err = Reverse(RouteDetail)
	assert.Error(t, err)

	_, err = Reverse(RouteIndex, "extra")
	assert.Error(t, err)
}

func TestMustReversePanics(t *testing.T) {
	assert.Panics(t, func() { MustReverse("nope") })
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/polls/1/", safeRedirect("/polls/1/"))
	assert.Equal(t, "/polls/", safeRedirect(""))
	assert.Equal(t, "/polls/", safeRedirect("https://evil.example.com"))
	assert.Equal(t, "/polls/", safeRedirect("//evil.example.com"))
	assert.Equal(t, "/polls/", safeRedirect(`/\evil.example.com`))
}

package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PushReplaceBack(t *testing.T) {
	h := NewHistory(RouteWelcome)
	require.Equal(t, "/", h.Location().Path)

	h.Push(RouteSignIn)
	h.Push(RouteVerifyEmail)
	require.Equal(t, 3, h.Depth())
	require.Equal(t, "/verify-email", h.Location().Path)

	h.Replace(RouteTabs)
	require.Equal(t, 3, h.Depth())
	require.Equal(t, "/wallet", h.Location().Path)

	require.True(t, h.Back())
	require.Equal(t, "/sign-in", h.Location().Path)
	require.True(t, h.Back())
	require.False(t, h.Back())
	require.Equal(t, "/", h.Location().Path)
}

func TestHistory_Subscribe(t *testing.T) {
	h := NewHistory(RouteWelcome)

	var seen []string
	cancel := h.Subscribe(func(l Location) { seen = append(seen, l.Path) })

	h.Push(RouteSignUp)
	h.Replace(RouteSignIn)
	h.Back()
	h.Back()

	cancel()
	h.Push(RouteTabs)

	assert.Equal(t, []string{"/sign-up", "/sign-in", "/"}, seen)
}

func TestHistory_SubscriberMayNavigate(t *testing.T) {
	h := NewHistory(RouteWelcome)
	h.Subscribe(func(l Location) {
		if l.Path == "/sign-up" {
			h.Replace(RouteSignIn)
		}
	})

	h.Push(RouteSignUp)
	assert.Equal(t, "/sign-in", h.Location().Path)
}

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUser_DerivesIsAuthenticated(t *testing.T) {
	s := NewStore()

	st := s.State()
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthenticated)

	s.SetUser(&User{Name: "olanordmann", Email: "ola@stud.noroff.no", AccessToken: "tok"})
	st = s.State()
	require.NotNil(t, st.User)
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "olanordmann", st.User.Name)

	s.SetUser(nil)
	st = s.State()
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthenticated)
}

func TestLogout(t *testing.T) {
	s := NewStore()
	s.SetUser(&User{Name: "kari", Email: "kari@stud.noroff.no"})

	s.Logout()

	st := s.State()
	assert.Nil(t, st.User)
	assert.False(t, st.IsAuthenticated)
}

func TestToken(t *testing.T) {
	s := NewStore()
	assert.Empty(t, s.Token())

	s.SetUser(&User{Name: "kari", Email: "kari@stud.noroff.no", AccessToken: "bearer-token"})
	assert.Equal(t, "bearer-token", s.Token())

	s.Logout()
	assert.Empty(t, s.Token())
}

func TestSubscribe(t *testing.T) {
	s := NewStore()

	var got []State
	unsub := s.Subscribe(func(st State) { got = append(got, st) })

	s.SetUser(&User{Name: "kari", Email: "kari@stud.noroff.no"})
	s.Logout()

	require.Len(t, got, 2)
	assert.True(t, got[0].IsAuthenticated)
	assert.False(t, got[1].IsAuthenticated)

	unsub()
	s.SetUser(&User{Name: "ola", Email: "ola@stud.noroff.no"})
	assert.Len(t, got, 2)
}

func TestHydrate_RederivesFlagAndSkipsNotify(t *testing.T) {
	s := NewStore()
	var notified bool
	s.Subscribe(func(State) { notified = true })

	s.Hydrate(&User{Name: "kari", Email: "kari@stud.noroff.no"})

	st := s.State()
	assert.True(t, st.IsAuthenticated)
	assert.False(t, notified)

	s.Hydrate(nil)
	assert.False(t, s.State().IsAuthenticated)
}

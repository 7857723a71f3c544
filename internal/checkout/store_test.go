package checkout_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brotinhos/api/internal/catalog"
	"github.com/brotinhos/api/internal/checkout"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreRejectsZeroCapacity(t *testing.T) {
	_, err := checkout.NewStore(0)
	assert.ErrorIs(t, err, checkout.ErrInvalidCapacity)
}

func TestStoreIssuesIDForUnknownSession(t *testing.T) {
	st, err := checkout.NewStore(8)
	require.NoError(t, err)

	id, err := st.With("", i18n.Spanish, func(s *checkout.Session) error {
		assert.Equal(t, i18n.Spanish, s.Language)
		return nil
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	other, err := st.With("forged-id", i18n.Default, func(*checkout.Session) error { return nil })
	require.NoError(t, err)
	assert.NotEqual(t, "forged-id", other)
	assert.Equal(t, 2, st.Len())
}

func TestStoreKeepsSessionsApart(t *testing.T) {
	st, err := checkout.NewStore(8)
	require.NoError(t, err)
	pizza, err := catalog.Default().Product("pizza-milho")
	require.NoError(t, err)

	a, _ := st.With("", i18n.Default, func(s *checkout.Session) error {
		s.AddItem(pizza)
		return nil
	})
	b, _ := st.With("", i18n.Default, func(*checkout.Session) error { return nil })

	_, _ = st.With(a, i18n.Default, func(s *checkout.Session) error {
		assert.Equal(t, 1, s.Cart().ItemCount())
		return nil
	})
	_, _ = st.With(b, i18n.Default, func(s *checkout.Session) error {
		assert.True(t, s.Cart().IsEmpty())
		return nil
	})
}

func TestStorePropagatesCallbackError(t *testing.T) {
	st, err := checkout.NewStore(1)
	require.NoError(t, err)
	boom := errors.New("boom")

	_, err = st.With("", i18n.Default, func(*checkout.Session) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	st, err := checkout.NewStore(2)
	require.NoError(t, err)
	noop := func(*checkout.Session) error { return nil }

	first, _ := st.With("", i18n.Default, noop)
	second, _ := st.With("", i18n.Default, noop)
	_, _ = st.With(first, i18n.Default, noop)
	_, _ = st.With("", i18n.Default, noop)

	assert.Equal(t, 2, st.Len())
	got, _ := st.With(first, i18n.Default, noop)
	assert.Equal(t, first, got)
	got, _ = st.With(second, i18n.Default, noop)
	assert.NotEqual(t, second, got)
}

func TestStoreSerializesSameSession(t *testing.T) {
	st, err := checkout.NewStore(8)
	require.NoError(t, err)
	pizza, err := catalog.Default().Product("pizza-mussarela")
	require.NoError(t, err)

	id, _ := st.With("", i18n.Default, func(*checkout.Session) error { return nil })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.With(id, i18n.Default, func(s *checkout.Session) error {
				s.AddItem(pizza)
				return nil
			})
		}()
	}
	wg.Wait()

	_, _ = st.With(id, i18n.Default, func(s *checkout.Session) error {
		require.Equal(t, 1, s.Cart().Len())
		assert.Equal(t, 50, s.Cart().ItemCount())
		return nil
	})
}

func TestStoreRemove(t *testing.T) {
	st, err := checkout.NewStore(4)
	require.NoError(t, err)
	id, _ := st.With("", i18n.Default, func(*checkout.Session) error { return nil })

	st.Remove(id)
	assert.Equal(t, 0, st.Len())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStoreExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
	st, err := checkout.NewStore(8, checkout.WithTTL(time.Hour), checkout.WithClock(clock.Now))
	require.NoError(t, err)
	pizza, err := catalog.Default().Product("pizza-mussarela")
	require.NoError(t, err)

	id, _ := st.With("", i18n.Default, func(s *checkout.Session) error {
		s.AddItem(pizza)
		return nil
	})

	clock.Advance(50 * time.Minute)
	got, _ := st.With(id, i18n.Default, func(s *checkout.Session) error {
		assert.Equal(t, 1, s.Cart().ItemCount())
		return nil
	})
	require.Equal(t, id, got, "activity within the TTL keeps the session")

	clock.Advance(50 * time.Minute)
	got, _ = st.With(id, i18n.Default, func(s *checkout.Session) error {
		assert.Equal(t, 1, s.Cart().ItemCount(), "each request extends the TTL")
		return nil
	})
	require.Equal(t, id, got)

	clock.Advance(61 * time.Minute)
	got, _ = st.With(id, i18n.English, func(s *checkout.Session) error {
		assert.True(t, s.Cart().IsEmpty())
		assert.Equal(t, checkout.StateBrowsing, s.State())
		assert.Equal(t, i18n.English, s.Language)
		return nil
	})
	assert.NotEqual(t, id, got)
	assert.Equal(t, 1, st.Len())
}

func TestStorePurgesIdleSessionsOnNewSession(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
	st, err := checkout.NewStore(4, checkout.WithTTL(time.Hour), checkout.WithClock(clock.Now))
	require.NoError(t, err)
	noop := func(*checkout.Session) error { return nil }

	_, _ = st.With("", i18n.Default, noop)
	_, _ = st.With("", i18n.Default, noop)
	clock.Advance(30 * time.Minute)
	live, _ := st.With("", i18n.Default, noop)
	require.Equal(t, 3, st.Len())

	clock.Advance(45 * time.Minute)
	_, _ = st.With("", i18n.Default, noop)
	assert.Equal(t, 2, st.Len())

	got, _ := st.With(live, i18n.Default, noop)
	assert.Equal(t, live, got)
}

func TestStoreWithoutTTLKeepsSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)}
	st, err := checkout.NewStore(4, checkout.WithTTL(0), checkout.WithClock(clock.Now))
	require.NoError(t, err)
	noop := func(*checkout.Session) error { return nil }

	id, _ := st.With("", i18n.Default, noop)
	clock.Advance(90 * 24 * time.Hour)
	got, _ := st.With(id, i18n.Default, noop)
	assert.Equal(t, id, got)
}

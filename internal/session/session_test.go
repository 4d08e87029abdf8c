package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelcm/ads-insights-go/internal/models"
)

func TestStoreLifecycle(t *testing.T) {
	st := NewStore(time.Hour)

	sess := st.Create()
	require.NotEmpty(t, sess.ID)

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = st.Get("missing")
	assert.False(t, ok)

	st.Delete(sess.ID)
	_, ok = st.Get(sess.ID)
	assert.False(t, ok)
}

func TestStoreIsolation(t *testing.T) {
	st := NewStore(time.Hour)
	a := st.Create()
	b := st.Create()

	a.Data = &models.Dataset{Records: []models.CampaignRecord{{CampaignID: "c1"}}}

	gotB, _ := st.Get(b.ID)
	assert.Nil(t, gotB.Data, "sessions must not share results")
}

func TestStoreExpiry(t *testing.T) {
	st := NewStore(10 * time.Minute)
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	sess := st.Create()

	now = now.Add(5 * time.Minute)
	_, ok := st.Get(sess.ID)
	require.True(t, ok)

	// la actividad renueva el TTL
	st.Touch(sess.ID)
	now = now.Add(9 * time.Minute)
	_, ok = st.Get(sess.ID)
	require.True(t, ok)

	now = now.Add(11 * time.Minute)
	_, ok = st.Get(sess.ID)
	assert.False(t, ok, "stale session must expire")
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	st := NewStore(0)
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	sess := st.Create()
	now = now.Add(1000 * time.Hour)
	_, ok := st.Get(sess.ID)
	assert.True(t, ok)
}

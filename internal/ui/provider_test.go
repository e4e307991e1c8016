package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/casts/internal/dataview"
	"github.com/runger/casts/internal/library"
)

func TestCmdQueue_Drain(t *testing.T) {
	q := &cmdQueue{}
	assert.Nil(t, q.drain())

	q.push(func() tea.Msg { return "a" })
	q.push(func() tea.Msg { return "b" })
	msgs := collect(q.drain())
	assert.ElementsMatch(t, []tea.Msg{"a", "b"}, msgs)
	assert.Nil(t, q.drain(), "drain empties the queue")
}

func TestFeedsProvider_FullLoad(t *testing.T) {
	store := newTestStore(t)
	seedFeed(t, store, "alpha", 2)

	q := &cmdQueue{}
	p := newFeedsProvider(store, q, 0, nil)
	p.Request(dataview.Versioned[dataview.Request]{Version: 7, Data: dataview.FullLoadRequest()})

	msgs := collect(q.drain())
	require.Len(t, msgs, 1)
	msg, ok := msgs[0].(feedsDataMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, uint64(7), msg.resp.Version)
	assert.Equal(t, dataview.MessageFullLoad, msg.resp.Data.Kind)
	require.Len(t, msg.resp.Data.Items, 1)
	assert.Equal(t, 2, msg.resp.Data.Items[0].EpisodeCount)
}

func TestFeedsProvider_RejectsPaging(t *testing.T) {
	store := newTestStore(t)
	q := &cmdQueue{}
	p := newFeedsProvider(store, q, 0, nil)
	p.Request(dataview.Versioned[dataview.Request]{Version: 1, Data: dataview.SizeRequest()})

	msgs := collect(q.drain())
	require.Len(t, msgs, 1)
	assert.Error(t, msgs[0].(feedsDataMsg).err)
}

func TestEpisodesProvider_SizeAndPage(t *testing.T) {
	store := newTestStore(t)
	alpha := seedFeed(t, store, "alpha", 5)
	seedFeed(t, store, "beta", 3)

	q := &cmdQueue{}
	p := newEpisodesProvider(store, library.ForFeed(alpha), q, 0, nil)
	assert.Equal(t, alpha, *p.Query().FeedID)

	p.Request(dataview.Versioned[dataview.Request]{Version: 2, Data: dataview.SizeRequest()})
	p.Request(dataview.Versioned[dataview.Request]{Version: 2, Data: dataview.PageRequest(1, 2)})
	p.Request(dataview.Versioned[dataview.Request]{Version: 2, Data: dataview.FullLoadRequest()})

	msgs := collect(q.drain())
	require.Len(t, msgs, 3)

	size := msgs[0].(episodesDataMsg)
	require.NoError(t, size.err)
	assert.Equal(t, dataview.MessageSize, size.resp.Data.Kind)
	assert.Equal(t, 5, size.resp.Data.Total)

	page := msgs[1].(episodesDataMsg)
	require.NoError(t, page.err)
	assert.Equal(t, 1, page.resp.Data.Index)
	require.Len(t, page.resp.Data.Items, 2)
	assert.Equal(t, "alpha 002", page.resp.Data.Items[0].Title)
	assert.Equal(t, uint64(2), page.resp.Version)

	assert.Error(t, msgs[2].(episodesDataMsg).err)
}

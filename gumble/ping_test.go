package gumble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachFakeData(c *Client, data *fakeDataChannel) {
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
}

func TestSendPing_FirstPingOmitsRTTStats(t *testing.T) {
	c, _ := newTestClient(t)
	data := newFakeDataChannel()
	attachFakeData(c, data)

	c.sendPing()

	sent := data.Sent()
	require.Len(t, sent, 1)
	ping, ok := sent[0].(*PingMessage)
	require.True(t, ok)
	assert.Nil(t, ping.DataRTTCount)
	assert.Nil(t, ping.VoiceRTTCount)
}

func TestSendPing_IncludesRTTStatsOnceSampled(t *testing.T) {
	c, _ := newTestClient(t)
	data := newFakeDataChannel()
	attachFakeData(c, data)
	c.mu.Lock()
	c.dataRTT.Add(42)
	c.mu.Unlock()

	c.sendPing()

	sent := data.Sent()
	require.Len(t, sent, 1)
	ping := sent[0].(*PingMessage)
	require.NotNil(t, ping.DataRTTCount)
	assert.Equal(t, uint32(1), *ping.DataRTTCount)
	require.NotNil(t, ping.DataRTTMean)
	assert.InDelta(t, 42.0, float64(*ping.DataRTTMean), 1e-6)
}

func TestSendPing_ExceedingInFlightCapDisconnects(t *testing.T) {
	c, listener := newTestClient(t)
	data := newFakeDataChannel()
	attachFakeData(c, data)
	c.config.MaxInFlightDataPings = 2

	c.sendPing()
	c.sendPing()
	c.sendPing()

	require.Len(t, listener.errors, 1)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, listener.errors[0].Err, &timeoutErr)
	assert.Equal(t, uint32(2), timeoutErr.InFlight)
	require.Len(t, listener.disconnects, 1)

	sent := data.Sent()
	assert.Len(t, sent, 2)
}

func TestHandlePing_FeedsRTTAndEmitsDataPing(t *testing.T) {
	c, listener := newTestClient(t)
	data := newFakeDataChannel()
	attachFakeData(c, data)
	c.sendPing()

	c.dispatch(&PingMessage{Timestamp: nowMillis()})

	require.Len(t, listener.dataPings, 1)
	assert.GreaterOrEqual(t, listener.dataPings[0].RTTMillis, 0.0)
	assert.Equal(t, 1, c.DataRTT().Count())
}

func TestHandlePing_NoPingsInFlightIsIgnored(t *testing.T) {
	c, listener := newTestClient(t)

	c.dispatch(&PingMessage{Timestamp: nowMillis()})

	assert.Empty(t, listener.dataPings)
	assert.Equal(t, 0, c.DataRTT().Count())
}

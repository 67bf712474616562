package gumble

import (
	"time"

	"github.com/go-co-op/gocron/v2"
)

// nowMillis returns the current wall-clock time as milliseconds since the
// Unix epoch, for use as an outgoing Ping timestamp (§4.5).
func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// timestampToTime recovers a time.Time from a millisecond Unix timestamp,
// for computing RTT against an echoed Ping timestamp.
func timestampToTime(ms uint64) time.Time {
	return time.UnixMilli(int64(ms))
}

// startPingScheduler starts the periodic liveness ping (§4.5), to be
// called once ServerSync has transitioned the client to connected.
func (c *Client) startPingScheduler() {
	interval := c.config.DataPingInterval
	if interval <= 0 {
		interval = defaultDataPingInterval
	}
	job, err := c.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			c.mbox.post(c.sendPing)
		}),
	)
	if err != nil {
		c.logger.Warn("failed to schedule ping job", "error", err)
		return
	}
	c.mu.Lock()
	c.pingJob = job
	c.mu.Unlock()
}

// sendPing builds and sends one outgoing Ping, enforcing the in-flight cap
// before doing so (§4.5). It always runs on the mailbox goroutine.
func (c *Client) sendPing() {
	c.mu.Lock()
	maxInFlight := c.config.MaxInFlightDataPings
	if maxInFlight == 0 {
		maxInFlight = defaultMaxInFlightDataPings
	}
	if c.inFlightPings >= maxInFlight {
		inFlight := c.inFlightPings
		c.mu.Unlock()
		c.emitError(&TimeoutError{InFlight: inFlight})
		c.disconnect(DisconnectError, &TimeoutError{InFlight: inFlight})
		return
	}
	c.inFlightPings++
	dataRTT := c.dataRTT
	voiceRTT := c.voiceRTT
	c.mu.Unlock()
	c.metrics.setPingsInFlight(c.inFlightPings)

	msg := &PingMessage{Timestamp: nowMillis()}
	if dataRTT.Count() > 0 {
		count := uint32(dataRTT.Count())
		mean := float32(dataRTT.Mean())
		variance := float32(dataRTT.Variance())
		msg.DataRTTCount, msg.DataRTTMean, msg.DataRTTVar = &count, &mean, &variance
	}
	if voiceRTT.Count() > 0 {
		count := uint32(voiceRTT.Count())
		mean := float32(voiceRTT.Mean())
		variance := float32(voiceRTT.Variance())
		msg.VoiceRTTCount, msg.VoiceRTTMean, msg.VoiceRTTVar = &count, &mean, &variance
	}

	if err := c.Send(msg); err != nil {
		c.emitError(&TransportError{Err: err})
		c.disconnect(DisconnectError, &TransportError{Err: err})
	}
}

// Package analytics tracks per-speaker activity during live meetings.
//
// The tracker keeps an ephemeral speaker -> start-instant map per meeting in
// process memory and flushes elapsed intervals into the counter store as
// atomic floating-point increments. Process restart loses only running
// timers, never flushed totals.
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	cacheport "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/cache/port"
)

// mergedTTL is how long a speak-time hash survives after the worker merged it
// into the meeting record. Expiring instead of deleting means a late flush
// from a still-open socket cannot resurrect a partial hash forever.
const mergedTTL = 24 * time.Hour

// SpeakerTracker owns the speaker timer state machine for every live meeting
// this process serves. It is constructed once and injected where needed.
type SpeakerTracker struct {
	counters cacheport.Cache
	now      func() time.Time

	// FlushOnDisconnect controls whether a disconnecting active speaker has
	// their running interval flushed immediately. The default (false) matches
	// the historical behavior where only the next speaker change stops the
	// timer.
	FlushOnDisconnect bool

	mu     sync.Mutex
	timers map[string]map[string]time.Time // meetingID -> speakerID -> start instant
}

// Option customizes a SpeakerTracker.
type Option func(*SpeakerTracker)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(t *SpeakerTracker) { t.now = now }
}

// WithFlushOnDisconnect enables flushing the active speaker's interval when
// their connection drops.
func WithFlushOnDisconnect() Option {
	return func(t *SpeakerTracker) { t.FlushOnDisconnect = true }
}

// NewSpeakerTracker constructs a tracker backed by the given counter store.
func NewSpeakerTracker(counters cacheport.Cache, opts ...Option) *SpeakerTracker {
	t := &SpeakerTracker{
		counters: counters,
		now:      time.Now,
		timers:   make(map[string]map[string]time.Time),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SpeakerChange records that speakerID became the active speaker.
//
// Every other speaker with a running timer has their elapsed interval flushed
// to the counter store and their timer cleared. If the new speaker already
// has a running timer (the same speaker re-announced), it is left untouched
// so an in-progress interval is never reset.
func (t *SpeakerTracker) SpeakerChange(ctx context.Context, meetingID, speakerID string) error {
	if meetingID == "" || speakerID == "" {
		return fmt.Errorf("analytics: meeting id and speaker id are required")
	}
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	timers := t.timers[meetingID]
	if timers == nil {
		timers = make(map[string]time.Time)
		t.timers[meetingID] = timers
	}

	for sid, start := range timers {
		if sid == speakerID {
			continue
		}
		if err := t.flushLocked(ctx, meetingID, sid, start, now); err != nil {
			return err
		}
		delete(timers, sid)
	}

	if _, running := timers[speakerID]; !running {
		timers[speakerID] = now
	}
	return nil
}

// StopSpeaker flushes and clears the running timer of one speaker, if any.
// Called on disconnect when FlushOnDisconnect is enabled, and on meeting end.
func (t *SpeakerTracker) StopSpeaker(ctx context.Context, meetingID, speakerID string) error {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	timers := t.timers[meetingID]
	start, running := timers[speakerID]
	if !running {
		return nil
	}
	if err := t.flushLocked(ctx, meetingID, speakerID, start, now); err != nil {
		return err
	}
	delete(timers, speakerID)
	if len(timers) == 0 {
		delete(t.timers, meetingID)
	}
	return nil
}

// HandleDisconnect applies the disconnect policy for a speaker who dropped.
// A no-op unless FlushOnDisconnect is set.
func (t *SpeakerTracker) HandleDisconnect(ctx context.Context, meetingID, speakerID string) error {
	if !t.FlushOnDisconnect {
		return nil
	}
	return t.StopSpeaker(ctx, meetingID, speakerID)
}

// Totals reads the accumulated seconds per speaker for the meeting.
func (t *SpeakerTracker) Totals(ctx context.Context, meetingID string) (map[string]float64, error) {
	return t.counters.HGetAllFloat(ctx, speakTimeKey(meetingID))
}

// Release ages out the meeting's counter hash after its totals were merged
// into the durable record.
func (t *SpeakerTracker) Release(ctx context.Context, meetingID string) error {
	t.mu.Lock()
	delete(t.timers, meetingID)
	t.mu.Unlock()
	return t.counters.Expire(ctx, speakTimeKey(meetingID), mergedTTL)
}

func (t *SpeakerTracker) flushLocked(ctx context.Context, meetingID, speakerID string, start, now time.Time) error {
	elapsed := now.Sub(start).Seconds()
	if elapsed <= 0 {
		return nil
	}
	_, err := t.counters.HIncrByFloat(ctx, speakTimeKey(meetingID), speakerID, elapsed)
	if err != nil {
		return fmt.Errorf("analytics: flush speak time: %w", err)
	}
	return nil
}

func speakTimeKey(meetingID string) string {
	return "meeting:" + meetingID + ":speakTime"
}

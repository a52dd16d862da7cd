package meeting

import "time"

// Status is the lifecycle state of a meeting. Transitions only move forward:
// SCHEDULED -> LIVE -> PROCESSING -> COMPLETED | ERROR.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusLive       Status = "LIVE"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusError      Status = "ERROR"
)

// forward lists the legal next states for each status.
var forward = map[Status][]Status{
	StatusScheduled:  {StatusLive},
	StatusLive:       {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusError},
	StatusCompleted:  {},
	StatusError:      {},
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range forward[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further automatic transition happens from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// TranscriptEntry is one line of the meeting transcript. SpeakerID carries
// the external meeting-platform identity of the speaker when known.
type TranscriptEntry struct {
	SpeakerName string    `json:"speakerName"`
	SpeakerID   string    `json:"speakerId,omitempty"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

// SpeakerStat is the accumulated speaking time of one participant.
type SpeakerStat struct {
	SpeakerID string  `json:"speakerId"`
	SpeakTime float64 `json:"speakTime"` // seconds, fractional
}

// Analytics holds the derived numbers merged into the record when
// processing completes. Sentiment stays nil unless a later enrichment sets it.
type Analytics struct {
	SpeakerStats []SpeakerStat  `json:"speakerStats,omitempty"`
	WordCloud    map[string]int `json:"wordCloud,omitempty"`
	Sentiment    *string        `json:"sentiment,omitempty"`
}

// Meeting is the durable record of one meeting and the single source of
// truth for its lifecycle status. The producer mutates it when the meeting
// ends; the worker writes the terminal fields.
type Meeting struct {
	ID                string
	PlatformMeetingID string
	Title             string
	HostID            string
	ParticipantIDs    []string
	Status            Status
	StartTime         time.Time
	EndTime           *time.Time
	Transcript        []TranscriptEntry
	Summary           *string
	KeyDecisions      []string
	Analytics         *Analytics
	CreatedAt         time.Time
}

// IsMember reports whether userID is the host or a participant.
func (m *Meeting) IsMember(userID string) bool {
	if m.HostID == userID {
		return true
	}
	for _, id := range m.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Overview is the list projection of a meeting.
type Overview struct {
	ID        string
	Title     string
	Status    Status
	StartTime time.Time
	EndTime   *time.Time
}

// CompletionRecord carries the terminal fields the worker writes in one
// atomic update when analysis succeeds. The write is absolute, never
// incremental, so a redelivered job lands on the same end state.
type CompletionRecord struct {
	Summary      string
	KeyDecisions []string
	Analytics    Analytics
}

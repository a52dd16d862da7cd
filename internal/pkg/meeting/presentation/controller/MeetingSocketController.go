package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/realtime"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	user "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/domain"
	userAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/adapter"
	userrepo "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/user/repository/port"
)

// MeetingSocketController handles the websocket endpoint for live meeting
// traffic: room membership, transcript relay and active-speaker tracking.
type MeetingSocketController struct {
	hub     *realtime.Hub
	tracker *analytics.SpeakerTracker
	users   userrepo.UserRepository
	log     zerolog.Logger

	inflightTimeout time.Duration
}

func NewMeetingSocketController(pool *pgxpool.Pool, hub *realtime.Hub, tracker *analytics.SpeakerTracker, log zerolog.Logger) *MeetingSocketController {
	return &MeetingSocketController{
		hub:             hub,
		tracker:         tracker,
		users:           userAdapter.NewPgUserRepository(pool),
		log:             log,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth hardens.
		return true
	},
}

type inboundFrame struct {
	Event       string                  `json:"event"`
	MeetingID   string                  `json:"meeting_id,omitempty"`
	Entry       *transcriptEntryPayload `json:"entry,omitempty"`
	SpeakerID   string                  `json:"speaker_id,omitempty"`
	SpeakerName string                  `json:"speaker_name,omitempty"`
}

type transcriptEntryPayload struct {
	SpeakerName string    `json:"speaker_name"`
	SpeakerID   string    `json:"speaker_id,omitempty"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

type outboundFrame struct {
	Event       string                  `json:"event"`
	MeetingID   string                  `json:"meeting_id,omitempty"`
	Entry       *transcriptEntryPayload `json:"entry,omitempty"`
	SpeakerID   string                  `json:"speaker_id,omitempty"`
	SpeakerName string                  `json:"speaker_name,omitempty"`
}

type errorFrame struct {
	Event string `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects. The handshake requires a user_id identifying a
// known participant; anonymous sockets are rejected before any event is
// accepted.
func (ctl *MeetingSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user_id is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		u, err := ctl.users.FindByID(ctx, userID)
		cancel()
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(u.ID, ws)
		ctl.hub.Attach(conn)

		session := &socketSession{announced: make(map[string]string)}
		defer func() {
			ctl.handleDisconnect(conn, session)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ctl.reply(conn, outboundFrame{Event: "connected"})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Event {
			case "meeting:join":
				ctl.handleJoin(conn, frame)
			case "meeting:leave":
				ctl.handleLeave(conn, frame)
			case "meeting:transcript_update":
				ctl.handleTranscriptUpdate(conn, frame)
			case "meeting:speaker_change":
				ctl.handleSpeakerChange(c.Request.Context(), conn, session, frame)
			default:
				ctl.replyError(conn, "unsupported_event", "unknown event")
			}
		}
	}
}

// socketSession remembers, per meeting, the last speaker this connection
// announced, so the disconnect policy knows whose timer to stop.
type socketSession struct {
	mu        sync.Mutex
	announced map[string]string // meetingID -> speakerID
}

func (s *socketSession) remember(meetingID, speakerID string) {
	s.mu.Lock()
	s.announced[meetingID] = speakerID
	s.mu.Unlock()
}

func (s *socketSession) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.announced))
	for k, v := range s.announced {
		out[k] = v
	}
	return out
}

func (ctl *MeetingSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	if frame.MeetingID == "" {
		ctl.replyError(conn, "bad_request", "meeting_id is required")
		return
	}
	ctl.hub.Join(frame.MeetingID, conn)
	ctl.reply(conn, outboundFrame{Event: "meeting:joined", MeetingID: frame.MeetingID})
}

func (ctl *MeetingSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.MeetingID == "" {
		ctl.replyError(conn, "bad_request", "meeting_id is required")
		return
	}
	ctl.hub.Leave(frame.MeetingID, conn)
	ctl.reply(conn, outboundFrame{Event: "meeting:left", MeetingID: frame.MeetingID})
}

// handleTranscriptUpdate relays the line to everyone else in the room. This
// layer persists nothing; the durable transcript arrives with the end-meeting
// submission.
func (ctl *MeetingSocketController) handleTranscriptUpdate(conn *realtime.Connection, frame inboundFrame) {
	if frame.MeetingID == "" || frame.Entry == nil {
		ctl.replyError(conn, "bad_request", "meeting_id and entry are required")
		return
	}
	if frame.Entry.Timestamp.IsZero() {
		frame.Entry.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(outboundFrame{
		Event:     "meeting:transcript_received",
		MeetingID: frame.MeetingID,
		Entry:     frame.Entry,
	})
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode entry")
		return
	}
	ctl.hub.Broadcast(frame.MeetingID, payload, conn.UserID)
}

// handleSpeakerChange announces the active speaker to the whole room (sender
// included) and advances the speaker timers.
func (ctl *MeetingSocketController) handleSpeakerChange(ctx context.Context, conn *realtime.Connection, session *socketSession, frame inboundFrame) {
	if frame.MeetingID == "" || frame.SpeakerID == "" {
		ctl.replyError(conn, "bad_request", "meeting_id and speaker_id are required")
		return
	}

	payload, err := json.Marshal(outboundFrame{
		Event:       "meeting:active_speaker",
		MeetingID:   frame.MeetingID,
		SpeakerID:   frame.SpeakerID,
		SpeakerName: frame.SpeakerName,
	})
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode event")
		return
	}
	ctl.hub.Broadcast(frame.MeetingID, payload, "")

	flushCtx, cancel := context.WithTimeout(ctx, ctl.inflightTimeout)
	defer cancel()
	if err := ctl.tracker.SpeakerChange(flushCtx, frame.MeetingID, frame.SpeakerID); err != nil {
		ctl.log.Warn().
			Str("meeting_id", frame.MeetingID).
			Str("speaker_id", frame.SpeakerID).
			Err(err).
			Msg("failed to record speaker change")
	}
	session.remember(frame.MeetingID, frame.SpeakerID)
}

func (ctl *MeetingSocketController) handleDisconnect(conn *realtime.Connection, session *socketSession) {
	ctl.hub.Detach(conn)

	ctx, cancel := context.WithTimeout(context.Background(), ctl.inflightTimeout)
	defer cancel()
	for meetingID, speakerID := range session.snapshot() {
		if err := ctl.tracker.HandleDisconnect(ctx, meetingID, speakerID); err != nil {
			ctl.log.Warn().
				Str("meeting_id", meetingID).
				Str("speaker_id", speakerID).
				Err(err).
				Msg("failed to apply disconnect policy")
		}
	}
}

func (ctl *MeetingSocketController) reply(conn *realtime.Connection, frame outboundFrame) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *MeetingSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Event: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

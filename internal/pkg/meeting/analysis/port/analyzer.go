package port

import (
	"context"
	"errors"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
)

// Analyzer turns an ordered transcript into structured meeting intelligence.
// It is an opaque capability that may fail; callers decide whether a failure
// is worth retrying.
type Analyzer interface {
	Analyze(ctx context.Context, transcript []meeting.TranscriptEntry) (*meeting.AnalysisResult, error)
}

// ErrMalformedOutput is returned when the model responds with something that
// is not the expected JSON object. It is deliberately distinct from transport
// errors so operators can tell a flaky upstream from a misbehaving model.
var ErrMalformedOutput = errors.New("analysis: malformed model output")

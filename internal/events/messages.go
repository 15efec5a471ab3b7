package events

// Event types dispatched over a session's lifetime.
const (
	TypeSessionStarted   = "session:started"
	TypeMatchStarted     = "match:started"
	TypeMatchCompleted   = "match:completed"
	TypeSessionCompleted = "session:completed"
	TypeSessionAborted   = "session:aborted"
	TypeReportWritten    = "report:written"
	TypeWatchTriggered   = "watch:triggered"
)

// SessionStartedEvent is the payload for session:started.
type SessionStartedEvent struct {
	SessionID string `json:"sessionId"`
	BaseSeed  int64  `json:"baseSeed"`
	Matches   int    `json:"matches"`
}

// MatchStartedEvent is the payload for match:started.
type MatchStartedEvent struct {
	Index   int      `json:"index"` // zero-based match index
	Total   int      `json:"total"`
	RosterA []string `json:"rosterA"`
	RosterB []string `json:"rosterB"`
	Seed    int64    `json:"seed"`
}

// MatchCompletedEvent is the payload for match:completed.
type MatchCompletedEvent struct {
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Winner    int    `json:"winner"` // 0 = draw
	WinReason string `json:"winReason,omitempty"`
	Rounds    int    `json:"rounds"`
	Failed    bool   `json:"failed"`
	Error     string `json:"error,omitempty"`
}

// SessionCompletedEvent is the payload for session:completed.
type SessionCompletedEvent struct {
	SessionID string  `json:"sessionId"`
	Completed int     `json:"completed"`
	Errors    int     `json:"errors"`
	Draws     int     `json:"draws"`
	Duration  float64 `json:"duration"` // seconds, reporting only
}

// SessionAbortedEvent is the payload for session:aborted. Sent when
// cancellation lands between matches; completed matches stay valid.
type SessionAbortedEvent struct {
	SessionID string `json:"sessionId"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// ReportWrittenEvent is the payload for report:written.
type ReportWrittenEvent struct {
	Path   string `json:"path"`
	Format string `json:"format"` // "json", "text", or "html"
}

// WatchTriggeredEvent is the payload for watch:triggered. Sent when a
// card data change passes the debounce window and a re-run begins.
type WatchTriggeredEvent struct {
	Path string `json:"path"`
}

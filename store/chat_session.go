package store

// TurnRole is the author of a chat turn.
type TurnRole string

const (
	TurnRoleUser      TurnRole = "user"
	TurnRoleAssistant TurnRole = "assistant"
)

// ChatSession is one conversation thread. UID is the caller-supplied session
// id; a session is created lazily on the first message of a thread.
type ChatSession struct {
	ID        int32
	UID       string
	UserID    string
	IsActive  bool
	CreatedTs int64
	UpdatedTs int64
}

// TurnInvocation records one operation executed during a turn, for audit.
// Arguments is the raw JSON payload the model produced; OutcomeSummary is a
// short serialized success/failure description.
type TurnInvocation struct {
	Name           string `json:"name"`
	Arguments      string `json:"arguments"`
	OutcomeSummary string `json:"outcomeSummary"`
}

// ChatTurn is one persisted message in a session. Turns are append-only:
// there is no update or delete in the store contract, corrections happen by
// appending new turns.
type ChatTurn struct {
	ID          int64
	SessionID   int32
	Role        TurnRole
	Content     string
	Invocations []*TurnInvocation
	CreatedTs   int64
}

type UpsertChatSession struct {
	UID    string
	UserID string
}

type FindChatSession struct {
	ID       *int32
	UID      *string
	UserID   *string
	IsActive *bool
	Limit    *int
}

type CreateChatTurn struct {
	SessionID   int32
	Role        TurnRole
	Content     string
	Invocations []*TurnInvocation
}

// ChatSessionSummary is the recent-sessions listing shape: the session plus a
// preview of its latest turn.
type ChatSessionSummary struct {
	SessionUID  string `json:"sessionId"`
	LastMessage string `json:"lastMessage"`
	UpdatedTs   int64  `json:"timestamp"`
}

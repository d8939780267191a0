package model

// SessionRecord is the durable state owned by one session entity. Timestamps
// are milliseconds since epoch, matching the wire format under the durable
// key "session:<id>".
type SessionRecord struct {
	UserID       string `json:"userId"`
	User         *User  `json:"user"`
	CreatedAt    int64  `json:"createdAt"`
	LastAccessed int64  `json:"lastAccessed"`
}

// SessionInfo is a read-only snapshot for diagnostics. Producing it must not
// touch LastAccessed.
type SessionInfo struct {
	Exists       bool   `json:"exists"`
	UserID       string `json:"userId,omitempty"`
	HasUser      bool   `json:"hasUser,omitempty"`
	CreatedAt    int64  `json:"createdAt,omitempty"`
	LastAccessed int64  `json:"lastAccessed,omitempty"`
}

// SessionData carries a partial session write through the store façade.
type SessionData struct {
	UserID string `json:"userId,omitempty"`
	User   *User  `json:"user,omitempty"`
}

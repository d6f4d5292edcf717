package store

import (
	"time"

	"github.com/google/uuid"
)

// Identity represents the resolved caller identity for the current session.
type Identity struct {
	IsLoggedIn bool     `json:"is_logged_in"`
	Email      string   `json:"email,omitempty"`
	UserName   string   `json:"user_name,omitempty"`
	Group      string   `json:"group,omitempty"`  // primary group (first returned by the provider)
	Groups     []string `json:"groups,omitempty"` // all group memberships, provider order
}

// Citation points at a source passage that grounded an assistant answer.
type Citation struct {
	SourceURI string `json:"document"`
	Page      int    `json:"page,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
}

// ChatTurn is a single entry in the conversation history.
type ChatTurn struct {
	Role      string     `json:"role"` // "user" | "assistant"
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// RetrievalSettings are the four runtime-settable knowledge store parameters.
// They are seeded from environment defaults when the session is created and
// can be edited per session through the settings endpoint.
type RetrievalSettings struct {
	KnowledgeBaseID string `json:"knowledge_base_id"`
	DataSourceID    string `json:"data_source_id"`
	BucketName      string `json:"bucket_name"`
	ModelID         string `json:"model_id"`
}

// SessionContext is the explicit per-visit session state. Every service call
// that needs identity, settings, or conversation state receives it; there is
// no ambient global state.
type SessionContext struct {
	ID       string            `json:"id"`
	Identity Identity          `json:"identity"`
	Settings RetrievalSettings `json:"settings"`

	// SessionToken is the opaque conversation token issued by the knowledge
	// store. TokenOwner records which user name the token was created under;
	// a token is never reused across identities.
	SessionToken string `json:"session_token,omitempty"`
	TokenOwner   string `json:"token_owner,omitempty"`

	Turns     []ChatTurn `json:"turns"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewSessionContext creates a fresh session for a just-resolved identity.
func NewSessionContext(identity Identity, settings RetrievalSettings) *SessionContext {
	return &SessionContext{
		ID:        uuid.New().String(),
		Identity:  identity,
		Settings:  settings,
		Turns:     []ChatTurn{},
		CreatedAt: time.Now(),
	}
}

// ClearConversation drops the provider conversation token and its owner
// binding. Called when the retrieval configuration (index or model) changes,
// since the old token pairs with a now-inconsistent retrieval scope.
func (s *SessionContext) ClearConversation() {
	s.SessionToken = ""
	s.TokenOwner = ""
}

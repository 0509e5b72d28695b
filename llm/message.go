package llm

// Well-known role tags. Any string is accepted as a role; these are the
// ones the hub itself produces.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single entry in a conversation context.
type Message struct {
	Role    string
	Content string
}

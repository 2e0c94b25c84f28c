package core

// Client is a connected chat participant as seen by the core layer. The
// transport writes commands into Commands and drains Events; the hub is the
// only sender on Events and closes it once the client is unregistered.
type Client struct {
	ID       string
	Username string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id, username string) *Client {
	if username == "" {
		username = id
	}
	return &Client{
		ID:       id,
		Username: username,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 32),
	}
}

package chat

// Frame is the wire format of the chat protocol. A frame carrying a
// name identifies the client; a frame carrying sender, recipient and
// message relays a chat message.
type Frame struct {
	Name      string `json:"name,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Message   string `json:"message,omitempty"`
}

// IsIdentify reports whether the frame binds a client name.
func (f *Frame) IsIdentify() bool {
	return f.Name != ""
}

// IsChat reports whether the frame relays a chat message.
func (f *Frame) IsChat() bool {
	return f.Sender != "" && f.Recipient != "" && f.Message != ""
}

// OfflineNotice is sent to the sender when the recipient has no live
// connection.
const OfflineNotice = "Recipient is not online! He will get the message when he comes back."

// HistoryPrefix heads every history reply.
const HistoryPrefix = "History:"

// errorFrame is the JSON error body sent back on a bad frame.
type errorFrame struct {
	Error string `json:"error"`
}

package rp

// StartLaunchResponse is returned by StartLaunch. ID is the launch UUID.
type StartLaunchResponse struct {
	ID     string `json:"id,omitempty"`
	Number int64  `json:"number,omitempty"`
}

// FinishLaunchResponse is returned by FinishLaunch.
type FinishLaunchResponse struct {
	ID     string `json:"id,omitempty"`
	Number int64  `json:"number,omitempty"`
	Link   string `json:"link,omitempty"`
}

// EntryCreatedResponse is returned when an item or log entry is created or
// finished. ID is the UUID of the entry.
type EntryCreatedResponse struct {
	ID string `json:"id,omitempty"`
}

// OperationCompletionResponse is returned by operations that only report an
// outcome message.
type OperationCompletionResponse struct {
	Message string `json:"message,omitempty"`
}

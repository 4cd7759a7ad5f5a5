package pdfchat

import "time"

// Turn is one persisted question/answer exchange tied to an uploaded
// document. file_name is the logical identity of the document as the user
// sees it, not a storage path.
type Turn struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	FileName    string    `json:"file_name"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileActivity summarizes one conversation for the file list.
type FileActivity struct {
	FileName      string    `json:"file_name"`
	LastMessageAt time.Time `json:"last_message_at"`
	Turns         int       `json:"turns"`
}

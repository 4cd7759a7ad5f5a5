package pdfchat

import (
	"context"
	"fmt"
	"strings"

	"quickai-backend/internal/extract"
	"quickai-backend/internal/llm"
)

// DefaultMaxDocumentChars bounds how much extracted document text is embedded
// in the prompt, to respect downstream prompt-size limits. Long documents are
// cut at this bound and marked with TruncationNotice.
const DefaultMaxDocumentChars = 30000

// TruncationNotice marks a document that was cut at the bound.
const TruncationNotice = "\n\n[Content truncated due to length]"

const systemPromptFormat = `You are a helpful assistant that answers questions about the provided PDF document.

Document content:

%s

Answer the user's questions based only on the document above. If the answer is not in the document, say so.`

// Service maintains the append-only per-file conversation log and drives
// single chat exchanges.
type Service struct {
	Repo Repo
	LLM  llm.Client

	// ExtractText overrides PDF extraction; defaults to extract.PDFText.
	ExtractText func(data []byte) (string, error)
	// MaxDocumentChars overrides the prompt-size bound; defaults to
	// DefaultMaxDocumentChars.
	MaxDocumentChars int
}

// Files lists the user's conversations, most recently active first.
func (s *Service) Files(ctx context.Context, userID string) ([]FileActivity, error) {
	files, err := s.Repo.ListFiles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []FileActivity{}
	}
	return files, nil
}

// Conversation reconstructs the ordered history for one file, each stored
// turn expanded into a user message followed by an assistant message.
func (s *Service) Conversation(ctx context.Context, userID, fileName string) ([]llm.Message, error) {
	turns, err := s.Repo.ListTurns(ctx, userID, fileName)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	history := make([]llm.Message, 0, len(turns)*2)
	for _, t := range turns {
		history = append(history,
			llm.Message{Role: llm.RoleUser, Content: t.UserMessage},
			llm.Message{Role: llm.RoleAssistant, Content: t.AIResponse},
		)
	}
	return history, nil
}

// Chat runs one exchange: extract the document text, assemble the prompt from
// the truncated document, the prior history and the new message, call the
// generation capability, and append the turn only after a confirmed response.
// It returns the reply and the history extended with both new messages.
func (s *Service) Chat(ctx context.Context, userID, fileName string, pdfData []byte, message string, history []llm.Message) (string, []llm.Message, error) {
	if len(pdfData) == 0 || strings.TrimSpace(message) == "" {
		return "", nil, ErrEmptyInput
	}

	extractText := s.ExtractText
	if extractText == nil {
		extractText = extract.PDFText
	}
	docText, err := extractText(pdfData)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	docText, _ = truncateDocument(docText, s.maxDocumentChars())

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(systemPromptFormat, docText),
	})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	reply, err := s.LLM.Complete(ctx, llm.Request{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if _, err := s.Repo.Append(ctx, Turn{
		UserID:      userID,
		FileName:    fileName,
		UserMessage: message,
		AIResponse:  reply,
	}); err != nil {
		return "", nil, fmt.Errorf("append turn: %w", err)
	}

	updated := append(append([]llm.Message(nil), history...),
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	return reply, updated, nil
}

func (s *Service) maxDocumentChars() int {
	if s.MaxDocumentChars > 0 {
		return s.MaxDocumentChars
	}
	return DefaultMaxDocumentChars
}

// truncateDocument cuts text at the bound and appends the truncation notice.
// The returned string never exceeds max plus the notice length.
func truncateDocument(text string, max int) (string, bool) {
	if len(text) <= max {
		return text, false
	}
	return text[:max] + TruncationNotice, true
}

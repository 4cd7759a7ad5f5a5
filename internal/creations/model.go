package creations

import "time"

// Creation type discriminators. The set is closed; a creation's type never
// changes after insert.
const (
	TypeArticle      = "article"
	TypeBlogTitle    = "blog-title"
	TypeHumanizer    = "text-humanizer"
	TypeImage        = "image"
	TypeResumeReview = "resume-review"
	TypeATSScore     = "ats-score"
)

// Creation is a persisted record of one generated artifact tied to a user.
// Content holds generated text, or a durable URL for generated media.
type Creation struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Publish   bool      `json:"publish"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikedBy reports whether userID is in the likes set.
func (cr Creation) LikedBy(userID string) bool {
	for _, id := range cr.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

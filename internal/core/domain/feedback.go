package domain

import "time"

// Feedback is a user rating of a conversation.
type Feedback struct {
	// FeedbackID is assigned by the feedback store on save.
	FeedbackID int64

	// ChatID is the conversation the feedback refers to.
	ChatID string

	// UserName identifies who submitted the feedback.
	UserName string

	// Rating is a 1-5 score.
	Rating int

	// Comment is optional free text.
	Comment string

	// CreatedAt is when the feedback was persisted.
	CreatedAt time.Time
}

// Validate checks the feedback fields.
func (f Feedback) Validate() error {
	if f.ChatID == "" {
		return ErrInvalidInput
	}
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidInput
	}
	return nil
}

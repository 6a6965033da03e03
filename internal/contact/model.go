package contact

import "time"

// Message status values.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Message is a visitor submission from the contact form. Sending the
// notification email is a separate concern; the record here is the source
// of truth for the admin inbox.
type Message struct {
	MessageID    string    `gorm:"column:message_id;primaryKey;size:190;not null" json:"message_id"`
	Name         string    `gorm:"column:name;size:120;not null" json:"name"`
	Email        string    `gorm:"column:email;size:320;not null" json:"email"`
	Subject      string    `gorm:"column:subject;size:320;not null" json:"subject"`
	Body         string    `gorm:"column:body;type:text;not null" json:"body"`
	Status       string    `gorm:"column:status;size:16;not null;default:unread;index" json:"status"`
	Replied      bool      `gorm:"column:replied;not null;default:false" json:"replied"`
	ReplyMessage string    `gorm:"column:reply_message;type:text" json:"reply_message,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Message) TableName() string {
	return "contact_messages"
}

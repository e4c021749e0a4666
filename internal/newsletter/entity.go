package newsletter

import (
	"strings"
	"time"
)

// Section is the digest of one subscribed category.
type Section struct {
	CategoryID   int64  `json:"category_id" yaml:"category_id"`
	CategoryName string `json:"category_name" yaml:"category_name"`
	Summary      string `json:"summary" yaml:"summary"`
}

type Preview struct {
	UserEmail string    `json:"user_email" yaml:"user_email"`
	Sections  []Section `json:"newsletter_preview" yaml:"newsletter_preview"`
}

// Markdown renders the preview as one document.
func (p *Preview) Markdown() string {
	var b strings.Builder
	b.WriteString("# Weekly newsletter for ")
	b.WriteString(p.UserEmail)
	b.WriteString("\n")
	for _, s := range p.Sections {
		b.WriteString("\n")
		b.WriteString(s.Summary)
		b.WriteString("\n")
	}
	return b.String()
}

// Issue is a saved newsletter. ID is a ULID, so ids sort by creation time.
type Issue struct {
	ID        string    `json:"id" yaml:"id"`
	UserEmail string    `json:"user_email" yaml:"user_email"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Body      string    `json:"body" yaml:"body"`
	// Path is the storage key the issue was written to.
	Path string `json:"path" yaml:"path"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatResponse struct {
	Id        uuid.UUID `json:"id"`
	Preview   string    `json:"preview,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessageResponse struct {
	Id      uuid.UUID `json:"id"`
	Role    string    `json:"role"`
	Content string    `json:"content"`

	// AnnotatedContent is the content with citation footnotes rendered in;
	// equal to Content when the message has no citations.
	AnnotatedContent string `json:"annotated_content"`

	CreatedAt time.Time `json:"created_at"`
}

type CitationResponse struct {
	TextInAnswer string `json:"text_in_answer"`
	TextInSource string `json:"text_in_source"`
	Reference    string `json:"reference"`
	Index        int    `json:"index"`
}

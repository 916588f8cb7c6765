package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID           string                `json:"id"`
	OwnerID      string                `json:"owner_id"`
	AssigneeID   *string               `json:"assignee_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	UrgencyScore int                   `json:"urgency_score"`
	SLADueAt     time.Time             `json:"sla_due_at"`
	ResolvedAt   *time.Time            `json:"resolved_at"`
	Rating       *int                  `json:"rating"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketPageResponse wraps a search result page.
type TicketPageResponse struct {
	Items    []TicketResponse `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// RatingResponse represents a stored rating.
type RatingResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Score     int       `json:"score"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentRequest payload.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	UploadedByID string    `json:"uploaded_by_id"`
	FileName     string    `json:"file_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketFromDomain maps a domain ticket to its response shape.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		OwnerID:      ticket.OwnerID,
		AssigneeID:   ticket.AssigneeID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		UrgencyScore: ticket.UrgencyScore,
		SLADueAt:     ticket.SLADueAt,
		ResolvedAt:   ticket.ResolvedAt,
		Rating:       ticket.Rating,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// RatingFromDomain maps a domain rating to its response shape.
func RatingFromDomain(rating *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        rating.ID,
		TicketID:  rating.TicketID,
		Score:     rating.Score,
		Feedback:  rating.Feedback,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// CommentFromDomain maps a domain comment to its response shape.
func CommentFromDomain(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// AttachmentFromDomain maps attachment metadata to its response shape.
func AttachmentFromDomain(attachment *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:           attachment.ID,
		TicketID:     attachment.TicketID,
		UploadedByID: attachment.UploadedByID,
		FileName:     attachment.FileName,
		MimeType:     attachment.MimeType,
		SizeBytes:    attachment.SizeBytes,
		CreatedAt:    attachment.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Report target types
const (
	ReportTargetQuestion = "question"
	ReportTargetAnswer   = "answer"
)

// Report reasons
const (
	ReportReasonSpam       = "spam"
	ReportReasonOffensive  = "offensive"
	ReportReasonIrrelevant = "irrelevant"
	ReportReasonOther      = "other"
)

// Report statuses
const (
	ReportStatusOpen     = "open"
	ReportStatusReviewed = "reviewed"
	ReportStatusActioned = "actioned"
)

// ValidReportTarget reports whether t names a reportable content type.
func ValidReportTarget(t string) bool {
	return t == ReportTargetQuestion || t == ReportTargetAnswer
}

// ValidReportReason reports whether r is a known report reason.
func ValidReportReason(r string) bool {
	switch r {
	case ReportReasonSpam, ReportReasonOffensive, ReportReasonIrrelevant, ReportReasonOther:
		return true
	}
	return false
}

// Report flags a question or answer for moderator review.
type Report struct {
	ID         uuid.UUID `json:"id"`
	TargetType string    `json:"target_type"`
	TargetID   uuid.UUID `json:"target_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details"`
	ReportedBy uuid.UUID `json:"reported_by"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

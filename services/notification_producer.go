package services

import (
	"encoding/json"
	"fmt"

	"github.com/plateforme-rh/absences-app/queue"
	"github.com/plateforme-rh/absences-app/utils"
)

// NotificationEvent is the transient payload carried on the queue between
// producer and worker. It is never persisted as-is.
type NotificationEvent struct {
	RecipientID   uint    `json:"recipient_id"`
	SenderID      *uint   `json:"sender_id,omitempty"`
	Type          string  `json:"type"`
	Subject       string  `json:"subject"`
	Body          string  `json:"body"`
	ReferenceID   *uint   `json:"reference_id,omitempty"`
	ReferenceType *string `json:"reference_type,omitempty"`
}

func draftFromEvent(event NotificationEvent) NotificationDraft {
	return NotificationDraft{
		RecipientID:   event.RecipientID,
		SenderID:      event.SenderID,
		Type:          event.Type,
		Subject:       event.Subject,
		Body:          event.Body,
		ReferenceID:   event.ReferenceID,
		ReferenceType: event.ReferenceType,
	}
}

// NotificationProducer publishes notification events onto the queue.
// Delivery is best effort: any failure is logged and swallowed so the domain
// write that triggered the notification never fails or rolls back because of it.
type NotificationProducer struct {
	publisher queue.Publisher
}

func NewNotificationProducer(publisher queue.Publisher) *NotificationProducer {
	return &NotificationProducer{publisher: publisher}
}

// Publish serializes the event and sends it to the notification queue.
func (p *NotificationProducer) Publish(event NotificationEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to serialize notification event (type=%s recipient=%d): %v",
			event.Type, event.RecipientID, err)
		return
	}

	if err := p.publisher.Publish(queue.NotificationQueue, body); err != nil {
		cerr := &ChannelError{Op: "publish", Err: err}
		utils.ErrorLogger.Printf("Failed to queue notification event (type=%s recipient=%d): %v",
			event.Type, event.RecipientID, cerr)
		return
	}

	utils.InfoLogger.Printf("Notification event queued: type=%s recipient=%d", event.Type, event.RecipientID)
}

// PublishAbsenceRecorded queues the "absence enregistrée" notification.
func (p *NotificationProducer) PublishAbsenceRecorded(employeeID uint, recordedBy *uint, absenceID uint, typeName, date string) {
	p.Publish(AbsenceRecordedEvent(employeeID, recordedBy, absenceID, typeName, date))
}

// PublishLeaveApproved queues the "congé approuvé" notification.
func (p *NotificationProducer) PublishLeaveApproved(employeeID uint, decidedBy *uint, requestID uint, period string) {
	p.Publish(LeaveApprovedEvent(employeeID, decidedBy, requestID, period))
}

// PublishLeaveRejected queues the "congé rejeté" notification.
func (p *NotificationProducer) PublishLeaveRejected(employeeID uint, decidedBy *uint, requestID uint, period, reason string) {
	p.Publish(LeaveRejectedEvent(employeeID, decidedBy, requestID, period, reason))
}

// Event builders are pure: they only assemble the event, nothing is sent.

func AbsenceRecordedEvent(employeeID uint, recordedBy *uint, absenceID uint, typeName, date string) NotificationEvent {
	refType := "ABSENCE"
	return NotificationEvent{
		RecipientID:   employeeID,
		SenderID:      recordedBy,
		Type:          "ABSENCE",
		Subject:       "Absence enregistrée",
		Body:          fmt.Sprintf("Votre absence (%s) du %s a été enregistrée.", typeName, date),
		ReferenceID:   &absenceID,
		ReferenceType: &refType,
	}
}

func LeaveApprovedEvent(employeeID uint, decidedBy *uint, requestID uint, period string) NotificationEvent {
	refType := "DEMANDE_CONGE"
	return NotificationEvent{
		RecipientID:   employeeID,
		SenderID:      decidedBy,
		Type:          "CONGE_APPROUVE",
		Subject:       "Demande de congé approuvée",
		Body:          fmt.Sprintf("Votre demande de congé du %s a été approuvée.", period),
		ReferenceID:   &requestID,
		ReferenceType: &refType,
	}
}

func LeaveRejectedEvent(employeeID uint, decidedBy *uint, requestID uint, period, reason string) NotificationEvent {
	if reason == "" {
		reason = "Non précisée"
	}
	refType := "DEMANDE_CONGE"
	return NotificationEvent{
		RecipientID:   employeeID,
		SenderID:      decidedBy,
		Type:          "CONGE_REJETE",
		Subject:       "Demande de congé rejetée",
		Body:          fmt.Sprintf("Votre demande de congé du %s a été rejetée. Raison : %s", period, reason),
		ReferenceID:   &requestID,
		ReferenceType: &refType,
	}
}

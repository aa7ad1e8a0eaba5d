package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// EventMetadata - типизированная полезная нагрузка события. Конкретный тип
// определяется EventType; поле Extra сохраняет произвольные дополнительные ключи.
type EventMetadata interface {
	Kind() EventType
}

// AdminAttributed реализуют метаданные событий, инициированных админом.
type AdminAttributed interface {
	ActingAdminID() string
}

type Extra map[string]any

type LinkOpenedMeta struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Extra     Extra  `json:"extra,omitempty"`
}

func (LinkOpenedMeta) Kind() EventType { return EventLinkOpened }

type RSVPSubmittedMeta struct {
	MemberCount       int   `json:"member_count"`
	AttendingCount    int   `json:"attending_count"`
	NotAttendingCount int   `json:"not_attending_count"`
	Extra             Extra `json:"extra,omitempty"`
}

func (RSVPSubmittedMeta) Kind() EventType { return EventRSVPSubmitted }

type RSVPUpdatedMeta struct {
	RSVPSubmittedMeta
}

func (RSVPUpdatedMeta) Kind() EventType { return EventRSVPUpdated }

type GuestAddedMeta struct {
	AdminID string `json:"admin_id,omitempty"`
	Source  string `json:"source,omitempty"`
	Extra   Extra  `json:"extra,omitempty"`
}

func (GuestAddedMeta) Kind() EventType         { return EventGuestAdded }
func (m GuestAddedMeta) ActingAdminID() string { return m.AdminID }

// SendMeta - общие поля отправленных приглашений, save-the-date и напоминаний.
type SendMeta struct {
	TemplateID string   `json:"template_id"`
	Language   Language `json:"language"`
	Channel    Channel  `json:"channel"`
	Contact    string   `json:"contact"`
	AdminID    string   `json:"admin_id,omitempty"`
	MessageSID string   `json:"message_sid,omitempty"`
	WaLink     string   `json:"wa_link,omitempty"`
	Extra      Extra    `json:"extra,omitempty"`
}

func (m SendMeta) ActingAdminID() string { return m.AdminID }

type InvitationSentMeta struct{ SendMeta }
type SaveTheDateSentMeta struct{ SendMeta }
type ReminderSentMeta struct{ SendMeta }

func (InvitationSentMeta) Kind() EventType  { return EventInvitationSent }
func (SaveTheDateSentMeta) Kind() EventType { return EventSaveTheDateSent }
func (ReminderSentMeta) Kind() EventType    { return EventReminderSent }

type PaymentReceivedMeta struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Method   string  `json:"method,omitempty"`
	Note     string  `json:"note,omitempty"`
	AdminID  string  `json:"admin_id,omitempty"`
	Extra    Extra   `json:"extra,omitempty"`
}

func (PaymentReceivedMeta) Kind() EventType         { return EventPaymentReceived }
func (m PaymentReceivedMeta) ActingAdminID() string { return m.AdminID }

type MessageReceivedMeta struct {
	From       string `json:"from"`
	Body       string `json:"body"`
	MessageSID string `json:"message_sid,omitempty"`
	NumMedia   int    `json:"num_media"`
	AIReply    string `json:"ai_reply,omitempty"`
	AIProvider string `json:"ai_provider,omitempty"`
	Extra      Extra  `json:"extra,omitempty"`
}

func (MessageReceivedMeta) Kind() EventType { return EventMessageReceived }

type AIReplySentMeta struct {
	InReplyTo    string `json:"in_reply_to,omitempty"`
	MessageSID   string `json:"message_sid,omitempty"`
	ReplyPreview string `json:"reply_preview"`
	Provider     string `json:"provider,omitempty"`
	Extra        Extra  `json:"extra,omitempty"`
}

func (AIReplySentMeta) Kind() EventType { return EventAIReplySent }

type PhotoReceivedMeta struct {
	PhotoID     string `json:"photo_id"`
	MessageSID  string `json:"message_sid,omitempty"`
	ContentType string `json:"content_type"`
	Extra       Extra  `json:"extra,omitempty"`
}

func (PhotoReceivedMeta) Kind() EventType { return EventPhotoReceived }

// GenericMeta - для типов без собственной схемы (TASK_*, GUEST_CREATED и будущие).
type GenericMeta struct {
	Type  EventType
	Extra Extra
}

func (m GenericMeta) Kind() EventType { return m.Type }

func (m GenericMeta) ActingAdminID() string {
	if id, ok := m.Extra["admin_id"].(string); ok {
		return id
	}
	return ""
}

func (m GenericMeta) MarshalJSON() ([]byte, error) {
	if m.Extra == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(m.Extra))
}

// EncodeMetadata сериализует метаданные для колонки tracking_events.metadata.
func EncodeMetadata(m EventMetadata) (datatypes.JSON, error) {
	if m == nil {
		return datatypes.JSON("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s metadata: %w", m.Kind(), err)
	}
	return datatypes.JSON(b), nil
}

// DecodeMetadata восстанавливает конкретный тип метаданных по типу события.
func DecodeMetadata(eventType EventType, raw datatypes.JSON) (EventMetadata, error) {
	var target EventMetadata
	switch eventType {
	case EventLinkOpened:
		target = &LinkOpenedMeta{}
	case EventRSVPSubmitted:
		target = &RSVPSubmittedMeta{}
	case EventRSVPUpdated:
		target = &RSVPUpdatedMeta{}
	case EventGuestAdded:
		target = &GuestAddedMeta{}
	case EventInvitationSent:
		target = &InvitationSentMeta{}
	case EventSaveTheDateSent:
		target = &SaveTheDateSentMeta{}
	case EventReminderSent:
		target = &ReminderSentMeta{}
	case EventPaymentReceived:
		target = &PaymentReceivedMeta{}
	case EventMessageReceived:
		target = &MessageReceivedMeta{}
	case EventAIReplySent:
		target = &AIReplySentMeta{}
	case EventPhotoReceived:
		target = &PhotoReceivedMeta{}
	default:
		extra := Extra{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &extra); err != nil {
				return nil, fmt.Errorf("failed to decode %s metadata: %w", eventType, err)
			}
		}
		return GenericMeta{Type: eventType, Extra: extra}, nil
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("failed to decode %s metadata: %w", eventType, err)
		}
	}
	return target, nil
}

// AdminIDOf возвращает ID админа из метаданных, если событие им инициировано.
func AdminIDOf(m EventMetadata) string {
	if a, ok := m.(AdminAttributed); ok {
		return a.ActingAdminID()
	}
	return ""
}

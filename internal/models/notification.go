package models

import "time"

type Audience string

const (
	AudienceKitchen  Audience = "kitchen"
	AudienceCounter  Audience = "counter"
	AudienceDelivery Audience = "delivery"
	AudienceAdmin    Audience = "admin"
)

type NotificationKind string

const (
	NotifStatusChange NotificationKind = "status_change"
	NotifAssignment   NotificationKind = "assignment"
	NotifIncident     NotificationKind = "incident"
	NotifShift        NotificationKind = "shift"
)

// NotificationEvent is published to the notification topic on every
// transition and high-priority incident. Delivery is best effort: a failed
// publish never fails the operation that produced it.
type NotificationEvent struct {
	Kind         NotificationKind `json:"kind"`
	OrderID      string           `json:"order_id,omitempty"`
	OrderNumber  string           `json:"order_number,omitempty"`
	ShiftID      string           `json:"shift_id,omitempty"`
	OldStatus    OrderStatus      `json:"old_status,omitempty"`
	NewStatus    OrderStatus      `json:"new_status,omitempty"`
	Audiences    []Audience       `json:"audiences"`
	Message      string           `json:"message"`
	HighPriority bool             `json:"high_priority,omitempty"`
	At           time.Time        `json:"at"`
}

package models

// MethodAll is the notification method carrying object changes.
const MethodAll = "all"

type NotificationType string

const (
	NotificationTypeEnter  NotificationType = "enter"
	NotificationTypeUpdate NotificationType = "update"
	NotificationTypeExit   NotificationType = "exit"
)

// Notification is one server push event.
type Notification struct {
	Method string
	Params NotificationParams
}

// NotificationParams is a whole batch of object changes, keyed by object id.
type NotificationParams struct {
	Type  NotificationType  `json:"type"`
	Items map[string]Object `json:"items"`
}

// IsRemoval reports whether the batch removes its items from the store.
func (n Notification) IsRemoval() bool {
	return n.Params.Type == NotificationTypeExit
}

package toast

// EventName is the browser event name toasts are dispatched under.
const EventName = "imaginify:toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Toast is a single notification.
type Toast struct {
	Level       Type   `json:"level"`
	Title       string `json:"title,omitempty"`
	Message     string `json:"message"`
	ActionLabel string `json:"actionLabel,omitempty"`
	ActionID    string `json:"actionID,omitempty"`
}

// Notifier delivers toasts.
type Notifier interface {
	Notify(t Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Toast)

// Notify calls f(t).
func (f NotifierFunc) Notify(t Toast) { f(t) }

// Show sends a toast with the given level.
func Show(n Notifier, level Type, message string) {
	n.Notify(Toast{Level: level, Message: message})
}

// Success shows a success toast.
//
//	toast.Success(n, "Image saved!")
func Success(n Notifier, message string) {
	Show(n, TypeSuccess, message)
}

// Error shows an error toast.
func Error(n Notifier, message string) {
	Show(n, TypeError, message)
}

// Warning shows a warning toast.
func Warning(n Notifier, message string) {
	Show(n, TypeWarning, message)
}

// Info shows an info toast.
func Info(n Notifier, message string) {
	Show(n, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
//
//	toast.WithTitle(n, toast.TypeSuccess, "Image added", "Your transformation is in the library.")
func WithTitle(n Notifier, level Type, title, message string) {
	n.Notify(Toast{Level: level, Title: title, Message: message})
}

// WithAction shows a toast with an action button.
//
//	toast.WithAction(n, toast.TypeInfo, "Image deleted", "Undo", "undo-delete")
func WithAction(n Notifier, level Type, message, actionLabel, actionID string) {
	n.Notify(Toast{Level: level, Message: message, ActionLabel: actionLabel, ActionID: actionID})
}

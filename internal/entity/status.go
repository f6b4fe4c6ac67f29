package entity

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderAction is an admin command against an order.
type OrderAction string

const (
	ActionProcess OrderAction = "process"
	ActionContact OrderAction = "contact"
	ActionCancel  OrderAction = "cancel"
)

// Target returns the status the action moves an order into.
func (a OrderAction) Target() (OrderStatus, bool) {
	switch a {
	case ActionProcess:
		return StatusCompleted, true
	case ActionContact:
		return StatusProcessing, true
	case ActionCancel:
		return StatusCancelled, true
	}
	return "", false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition enforces the order lifecycle:
// pending -> processing|completed|cancelled, processing -> completed|cancelled.
// Completed and cancelled are terminal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusCompleted || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// DisplayText maps a status to the user-facing wording used in customer
// notifications.
func (s OrderStatus) DisplayText() string {
	switch s {
	case StatusPending:
		return "Your order has been received and is awaiting confirmation."
	case StatusProcessing:
		return "We are preparing your order and will contact you shortly."
	case StatusCompleted:
		return "Your order is complete. Thank you for your purchase!"
	case StatusCancelled:
		return "Your order has been cancelled. Contact us if this is unexpected."
	}
	return string(s)
}

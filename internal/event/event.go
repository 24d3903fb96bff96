package event

type Type string

const (
	TypeProductCreated Type = "product.created"
	TypeProductUpdated Type = "product.updated"
	TypeProductDeleted Type = "product.deleted"
)

// Action is the wire-level verb a product event carries; clients receive
// it inside the productsUpdated frame.
func (t Type) Action() string {
	switch t {
	case TypeProductCreated:
		return "create"
	case TypeProductUpdated:
		return "update"
	case TypeProductDeleted:
		return "delete"
	default:
		return ""
	}
}

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	ActorID   string `json:"actor_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}

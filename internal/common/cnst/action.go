package cnst

// ActionType represents the kind of change a row operation applies to a list
type ActionType string

const (
	// ActionAdd represents an add action
	ActionAdd ActionType = "Add"
	// ActionUpdate represents an update action
	ActionUpdate ActionType = "Update"
	// ActionRemove represents a remove action
	ActionRemove ActionType = "Remove"
)

func (a ActionType) String() string {
	return string(a)
}

package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionType_Constants(t *testing.T) {
	assert.Equal(t, ActionType("Add"), ActionAdd)
	assert.Equal(t, ActionType("Update"), ActionUpdate)
	assert.Equal(t, ActionType("Remove"), ActionRemove)
}

func TestActionType_String(t *testing.T) {
	assert.Equal(t, "Add", ActionAdd.String())
	assert.Equal(t, "Update", ActionUpdate.String())
	assert.Equal(t, "Remove", ActionRemove.String())
}

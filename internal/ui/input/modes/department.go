package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"yacs/internal/ui/input/types"
)

// DepartmentMode is the department search bar. Tab completes from the known departments.
type DepartmentMode struct {
	TextInputMode
}

func NewDepartmentMode(ti *textinput.Model) *DepartmentMode {
	return &DepartmentMode{
		TextInputMode: NewTextInputMode(types.ModeDepartment, "department", "Department: ", ti),
	}
}

func (m *DepartmentMode) Enter(ctx types.Context) []types.Action {
	m.TextInputMode.Enter(ctx)
	if m.textInput != nil {
		m.textInput.ShowSuggestions = true
	}
	return nil
}

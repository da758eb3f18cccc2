package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"yacs/internal/ui/input/types"
)

// FilterMode narrows the course list as the user types
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

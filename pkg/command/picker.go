package command

import (
	"errors"
	"fmt"

	"github.com/chazu/insulator/pkg/model"
)

// ErrNoUpper is returned when no upper curve is available for a detail
// curve.
var ErrNoUpper = errors.New("no upper curve picked")

// PairPicker answers picks from the pairs recorded in a document.
type PairPicker struct {
	Doc *model.Document
}

// PickUpper returns the detail curve paired with lower.
func (p PairPicker) PickUpper(lower *model.DetailCurve) (*model.DetailCurve, error) {
	upper, ok := p.Doc.Upper(lower.ID)
	if !ok {
		return nil, fmt.Errorf("select upper: %w", ErrNoUpper)
	}
	return upper, nil
}

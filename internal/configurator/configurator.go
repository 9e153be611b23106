// Package configurator is the configuration state machine: every edit a
// customer makes is an Action applied to the current Configuration, producing
// the next one. Transition is pure, so the caller owns the state and decides
// when (and whether) to persist it.
package configurator

import (
	"fmt"

	"github.com/fleveque/print-quote-service/internal/model"
)

// ActionType names a transition.
type ActionType string

const (
	SetProductType      ActionType = "SET_PRODUCT_TYPE"
	SetPaperType        ActionType = "SET_PAPER_TYPE"
	SetDimensions       ActionType = "SET_DIMENSIONS"
	SetBorderSize       ActionType = "SET_BORDER_SIZE"
	SetPassepartoutSize ActionType = "SET_PASSEPARTOUT_SIZE"
	SetQuantity         ActionType = "SET_QUANTITY"
	SetRushOrder        ActionType = "SET_RUSH_ORDER"
	SetExpandedSection  ActionType = "SET_EXPANDED_SECTION"
	RotateDimensions    ActionType = "ROTATE_DIMENSIONS"
	ResetConfiguration  ActionType = "RESET_CONFIGURATION"
	LoadConfiguration   ActionType = "LOAD_CONFIGURATION"
	SetUploadedFile     ActionType = "SET_UPLOADED_FILE"
)

// Action is a tagged union: Type selects which payload field is read.
// Fields irrelevant to the type are ignored.
type Action struct {
	Type             ActionType             `json:"type"`
	ProductType      model.ProductType      `json:"product_type,omitempty"`
	PaperType        model.PaperType        `json:"paper_type,omitempty"`
	Width            float64                `json:"width,omitempty"`
	Height           float64                `json:"height,omitempty"`
	BorderSize       model.BorderSize       `json:"border_size,omitempty"`
	PassepartoutSize model.PassepartoutSize `json:"passepartout_size,omitempty"`
	Quantity         int                    `json:"quantity,omitempty"`
	RushOrder        model.RushOrder        `json:"rush_order,omitempty"`
	Section          *string                `json:"section,omitempty"`
	Configuration    *model.Configuration   `json:"configuration,omitempty"`
	File             *model.UploadedFile    `json:"file,omitempty"`
}

// Constructors keep call sites short and make the payload field obvious.

func ProductTypeAction(t model.ProductType) Action {
	return Action{Type: SetProductType, ProductType: t}
}

func PaperTypeAction(p model.PaperType) Action {
	return Action{Type: SetPaperType, PaperType: p}
}

func DimensionsAction(width, height float64) Action {
	return Action{Type: SetDimensions, Width: width, Height: height}
}

func BorderSizeAction(b model.BorderSize) Action {
	return Action{Type: SetBorderSize, BorderSize: b}
}

func PassepartoutSizeAction(p model.PassepartoutSize) Action {
	return Action{Type: SetPassepartoutSize, PassepartoutSize: p}
}

func QuantityAction(q int) Action {
	return Action{Type: SetQuantity, Quantity: q}
}

func RushOrderAction(r model.RushOrder) Action {
	return Action{Type: SetRushOrder, RushOrder: r}
}

// ExpandedSectionAction opens section; nil collapses every section.
func ExpandedSectionAction(section *string) Action {
	return Action{Type: SetExpandedSection, Section: section}
}

func RotateAction() Action {
	return Action{Type: RotateDimensions}
}

func ResetAction() Action {
	return Action{Type: ResetConfiguration}
}

func LoadAction(cfg model.Configuration) Action {
	return Action{Type: LoadConfiguration, Configuration: &cfg}
}

// UploadedFileAction attaches artwork; nil detaches it.
func UploadedFileAction(file *model.UploadedFile) Action {
	return Action{Type: SetUploadedFile, File: file}
}

// Check verifies that the payload the action's type reads holds a known
// value. Boundaries call it before Transition, which assumes well-formed input.
// Sizes below 1 pass since Transition clamps them; sizes above
// model.MaxDimension do not. Unknown action types pass: Transition ignores them.
func (a Action) Check() error {
	switch a.Type {
	case SetDimensions:
		if !(a.Width <= model.MaxDimension) || !(a.Height <= model.MaxDimension) {
			return fmt.Errorf("%s: dimensions must be at most %gcm, got %gx%g",
				a.Type, model.MaxDimension, a.Width, a.Height)
		}
	case SetProductType:
		if !a.ProductType.Valid() {
			return fmt.Errorf("%s: invalid product type %q", a.Type, a.ProductType)
		}
	case SetPaperType:
		if !a.PaperType.Valid() {
			return fmt.Errorf("%s: invalid paper type %q", a.Type, a.PaperType)
		}
	case SetBorderSize:
		if !a.BorderSize.Valid() {
			return fmt.Errorf("%s: invalid border size %d", a.Type, a.BorderSize)
		}
	case SetPassepartoutSize:
		if !a.PassepartoutSize.Valid() {
			return fmt.Errorf("%s: invalid passe-partout size %d", a.Type, a.PassepartoutSize)
		}
	case SetRushOrder:
		if !a.RushOrder.Valid() {
			return fmt.Errorf("%s: invalid rush order %q", a.Type, a.RushOrder)
		}
	case LoadConfiguration:
		if a.Configuration == nil {
			return fmt.Errorf("%s: missing configuration", a.Type)
		}
		if err := a.Configuration.CheckEnums(); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
		if err := Normalize(*a.Configuration).Check(); err != nil {
			return fmt.Errorf("%s: %w", a.Type, err)
		}
	}
	return nil
}

// Transition applies action to state and returns the next configuration.
// It never fails: sizes and quantities are clamped, incompatible selections
// are corrected, and unknown action types leave the state unchanged.
func Transition(state model.Configuration, action Action) model.Configuration {
	next := state

	switch action.Type {
	case SetProductType:
		t := action.ProductType
		if t == model.ProductPrintFrameGlass && state.PaperType == model.PaperCanvas {
			t = model.ProductPrintFrame
		}
		next.ProductType = t
		if t == model.ProductPrintOnly {
			next.PassepartoutSize = model.PassepartoutNone
		}
		if state.ProductType == model.ProductPrintOnly && t != model.ProductPrintOnly {
			next.BorderSize = model.BorderNone
		}

	case SetPaperType:
		next.PaperType = action.PaperType
		if action.PaperType == model.PaperCanvas {
			next.PassepartoutSize = model.PassepartoutNone
			if next.ProductType == model.ProductPrintFrameGlass {
				next.ProductType = model.ProductPrintFrame
			}
		}

	case SetDimensions:
		next.Dimensions = model.Dimensions{
			Width:  atLeastOne(action.Width),
			Height: atLeastOne(action.Height),
		}

	case SetBorderSize:
		// Borders only exist on unframed prints.
		if next.CanHaveBorder() {
			next.BorderSize = action.BorderSize
		}

	case SetPassepartoutSize:
		if next.CanHavePassepartout() {
			next.PassepartoutSize = action.PassepartoutSize
		}

	case SetQuantity:
		next.Quantity = max(action.Quantity, 1)

	case SetRushOrder:
		next.RushOrder = action.RushOrder

	case SetExpandedSection:
		next.ExpandedSection = copyString(action.Section)

	case RotateDimensions:
		next.Dimensions.Width, next.Dimensions.Height = state.Dimensions.Height, state.Dimensions.Width

	case SetUploadedFile:
		if action.File == nil {
			next.UploadedFile = nil
		} else {
			f := *action.File
			next.UploadedFile = &f
		}

	case ResetConfiguration:
		return model.DefaultConfiguration()

	case LoadConfiguration:
		if action.Configuration == nil {
			return state
		}
		return Normalize(*action.Configuration)
	}

	return next
}

// Apply folds actions over state, left to right.
func Apply(state model.Configuration, actions ...Action) model.Configuration {
	for _, a := range actions {
		state = Transition(state, a)
	}
	return state
}

// Normalize restores the cross-field invariants on a configuration that did
// not come through Transition (a stored session, an API payload):
//   - print-only carries no passe-partout, framed products carry no border
//   - canvas carries no passe-partout and is never glazed
//   - dimensions and quantity are at least 1
func Normalize(cfg model.Configuration) model.Configuration {
	cfg.Dimensions.Width = atLeastOne(cfg.Dimensions.Width)
	cfg.Dimensions.Height = atLeastOne(cfg.Dimensions.Height)
	cfg.Quantity = max(cfg.Quantity, 1)

	if cfg.PaperType == model.PaperCanvas {
		cfg.PassepartoutSize = model.PassepartoutNone
		if cfg.ProductType == model.ProductPrintFrameGlass {
			cfg.ProductType = model.ProductPrintFrame
		}
	}
	if cfg.ProductType == model.ProductPrintOnly {
		cfg.PassepartoutSize = model.PassepartoutNone
	} else {
		cfg.BorderSize = model.BorderNone
	}
	cfg.ExpandedSection = copyString(cfg.ExpandedSection)
	return cfg
}

// CheckOptions rejects a border or passe-partout the product cannot carry:
// a border on a framed piece, a mat on a print-only piece or on canvas.
// Canvas behind glass passes; validation reports it.
func CheckOptions(cfg model.Configuration) error {
	switch {
	case cfg.BorderSize != model.BorderNone && !cfg.CanHaveBorder():
		return fmt.Errorf("a %dcm border is only offered on %s", cfg.BorderSize, model.ProductPrintOnly)
	case cfg.PassepartoutSize != model.PassepartoutNone && !cfg.CanHavePassepartout():
		return fmt.Errorf("a %dcm passe-partout needs a frame and a paper other than %s",
			cfg.PassepartoutSize, model.PaperCanvas)
	}
	return nil
}

// Consistent reports whether cfg satisfies every cross-field invariant.
func Consistent(cfg model.Configuration) bool {
	switch {
	case CheckOptions(cfg) != nil:
		return false
	case cfg.PaperType == model.PaperCanvas && cfg.ProductType == model.ProductPrintFrameGlass:
		return false
	case cfg.Dimensions.Width < 1 || cfg.Dimensions.Height < 1 || cfg.Quantity < 1:
		return false
	}
	return true
}

// atLeastOne clamps v to 1. NaN compares false against everything, so it is
// clamped too.
func atLeastOne(v float64) float64 {
	if !(v >= 1) {
		return 1
	}
	return v
}

// copyString keeps snapshots from sharing the section pointer.
func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

package catalog

import (
	"database/sql/driver"
	"errors"

	"github.com/google/uuid"
)

type SelectionType string

const (
	SelectionSingle SelectionType = "single"
	SelectionMulti  SelectionType = "multi"
)

var ErrInvalidSelectionType = errors.New("invalid selection type")

func (t SelectionType) String() string {
	return string(t)
}

func (t SelectionType) Value() (driver.Value, error) {
	return t.String(), nil
}

func ParseSelectionType(s string) (SelectionType, error) {
	switch s {
	case SelectionSingle.String():
		return SelectionSingle, nil
	case SelectionMulti.String():
		return SelectionMulti, nil
	default:
		return "", ErrInvalidSelectionType
	}
}

// Option is one selectable customization choice.
type Option struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"groupId"`
	Name        string    `json:"name"`
	PriceCents  int64     `json:"priceCents"`
	IsAvailable bool      `json:"isAvailable"`
}

// CustomizationGroup is a named set of options with selection rules.
// Required groups must have at least one option selected at checkout;
// single-selection groups allow at most one.
type CustomizationGroup struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	SelectionType SelectionType `json:"selectionType"`
	IsRequired    bool          `json:"isRequired"`
	Options       []Option      `json:"options"`
}

// Option returns the group's option with the given name, if any.
func (g *CustomizationGroup) Option(name string) (*Option, bool) {
	for i := range g.Options {
		if g.Options[i].Name == name {
			return &g.Options[i], true
		}
	}

	return nil, false
}

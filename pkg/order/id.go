package order

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const idPrefix = "ord"

// NewID returns a fresh, time-sortable order id such as
// "ord_01h2xcejqtf2nbrexx3vqjhp41".
func NewID() (string, error) {
	tid, err := typeid.Generate(idPrefix)
	if err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return tid.String(), nil
}

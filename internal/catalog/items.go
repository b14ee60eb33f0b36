// Package catalog holds the immutable quiz item and candidate catalogs.
package catalog

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/majorfit/internal/model"
)

var prompts = []string{
	"Which scene looks most energizing to you?",
	"Which activity would you volunteer for first?",
	"Which project would you confidently lead?",
	"Which situation best reflects your natural strengths?",
	"Which environment would you happily spend an afternoon in?",
	"Which challenge feels most aligned with you right now?",
}

// categoryMatrix lists the traits offered by each item, in option order.
var categoryMatrix = [model.ItemCount][model.OptionsPerItem]model.Trait{
	{"R", "I", "A"},
	{"S", "E", "C"},
	{"R", "S", "E"},
	{"I", "A", "C"},
	{"R", "E", "C"},
	{"I", "S", "A"},
	{"R", "A", "S"},
	{"I", "C", "E"},
	{"R", "I", "C"},
	{"A", "S", "E"},
	{"R", "S", "C"},
	{"I", "A", "E"},
	{"R", "A", "E"},
	{"I", "S", "C"},
	{"R", "I", "S"},
	{"A", "E", "C"},
	{"R", "C", "A"},
	{"I", "E", "S"},
	{"R", "E", "A"},
	{"I", "C", "S"},
	{"R", "S", "A"},
	{"I", "E", "C"},
	{"R", "A", "I"},
	{"S", "C", "E"},
	{"R", "C", "S"},
	{"I", "A", "S"},
	{"R", "E", "I"},
	{"A", "C", "E"},
	{"R", "S", "I"},
	{"A", "E", "C"},
}

// Items is the ordered, immutable set of quiz items.
type Items struct {
	items []model.Item
}

// DefaultItems returns the built-in 30 item catalog.
func DefaultItems() *Items {
	items, err := NewItems(categoryMatrix[:])
	if err != nil {
		// The built-in matrix is constant; failing here is a programming error.
		panic(err)
	}
	return items
}

// NewItems builds an item catalog from a trait matrix. The matrix must hold
// exactly model.ItemCount rows and each row must offer distinct traits.
func NewItems(matrix [][model.OptionsPerItem]model.Trait) (*Items, error) {
	if len(matrix) != model.ItemCount {
		return nil, fmt.Errorf("item catalog must contain %d items, got %d", model.ItemCount, len(matrix))
	}

	items := make([]model.Item, 0, len(matrix))
	for idx, row := range matrix {
		id := idx + 1
		item := model.Item{
			ID:     id,
			Key:    model.ItemKey(id),
			Prompt: fmt.Sprintf("%s (Item %d)", prompts[idx%len(prompts)], id),
		}

		seen := make(map[model.Trait]bool, model.OptionsPerItem)
		for pos, trait := range row {
			if !trait.Valid() {
				return nil, fmt.Errorf("item %s option %d: invalid trait %q", item.Key, pos+1, trait)
			}
			if seen[trait] {
				return nil, fmt.Errorf("item %s offers trait %s twice", item.Key, trait)
			}
			seen[trait] = true

			item.Options[pos] = model.Option{
				ID:          OptionID(id, pos+1),
				Position:    pos + 1,
				Trait:       trait,
				Description: fmt.Sprintf("Represents %s type", trait),
			}
		}
		items = append(items, item)
	}

	return &Items{items: items}, nil
}

// OptionID formats the public option id for an item and position, e.g. "7b".
func OptionID(itemID, position int) string {
	return strconv.Itoa(itemID) + string(rune('a'+position-1))
}

// All returns a copy of the items in order.
func (c *Items) All() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Items) Len() int {
	return len(c.items)
}

// ByID returns the item with the given number.
func (c *Items) ByID(id int) (model.Item, bool) {
	if id < 1 || id > len(c.items) {
		return model.Item{}, false
	}
	return c.items[id-1], true
}

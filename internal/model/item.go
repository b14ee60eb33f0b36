package model

import "fmt"

// ItemCount is the number of items in a complete assessment.
const ItemCount = 30

// OptionsPerItem is the number of answer options each item offers.
const OptionsPerItem = 3

// Option is one answer choice of an item.
type Option struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Trait       Trait  `json:"code" yaml:"code"`
	Position    int    `json:"position" yaml:"position"`
}

// Item is a single quiz question.
type Item struct {
	Key     string                 `json:"key" yaml:"key"`
	Prompt  string                 `json:"prompt" yaml:"prompt"`
	Options [OptionsPerItem]Option `json:"options" yaml:"options"`
	ID      int                    `json:"id" yaml:"id"`
}

// ItemKey formats an item number as Q01..Q30.
func ItemKey(id int) string {
	return fmt.Sprintf("Q%02d", id)
}

// OptionTraits returns the traits offered by the item in position order.
func (i Item) OptionTraits() [OptionsPerItem]Trait {
	var traits [OptionsPerItem]Trait
	for idx, opt := range i.Options {
		traits[idx] = opt.Trait
	}
	return traits
}

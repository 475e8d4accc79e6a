// Package taxonomy holds the fixed waste classification data: the classes the
// model can predict, the category each class belongs to, the disposal method
// of each category and the reuse suggestions shown to users.
package taxonomy

import (
	"fmt"
	"slices"

	"github.com/tphakala/smartwaste/internal/errors"
)

// Class is a fine grained label predicted by the model, e.g. "plastic_straws".
type Class string

// Category is a coarse grouping of classes sharing a disposal method.
type Category string

// Method is the recommended handling path for a category.
type Method string

const (
	Plastic           Category = "Plastic"
	PaperAndCardboard Category = "Paper and Cardboard"
	Glass             Category = "Glass"
	Metal             Category = "Metal"
	OrganicWaste      Category = "Organic Waste"
	Textiles          Category = "Textiles"
	Styrofoam         Category = "Styrofoam"

	// UnknownCategory is returned for labels outside the class enumeration.
	UnknownCategory Category = "Unknown"
)

const (
	Recyclable Method = "Recyclable"
	Upcyclable Method = "Upcyclable"
	Disposable Method = "Disposable"

	UnknownMethod Method = "Unknown"
)

// ErrUnknownClass is returned by Lookup for labels the taxonomy does not know.
var ErrUnknownClass = errors.NewStd("unknown waste class")

// classes is the model output vocabulary, indexed by output position.
var classes = []Class{
	"aerosol_cans", "aluminum_food_cans", "aluminum_soda_cans", "cardboard_boxes",
	"cardboard_packaging", "clothing", "coffee_grounds", "disposable_plastic_cutlery",
	"eggshells", "food_waste", "glass_beverage_bottles", "glass_cosmetic_containers",
	"glass_food_jars", "magazines", "newspaper", "office_paper", "paper_cups",
	"plastic_cup_lids", "plastic_detergent_bottles", "plastic_food_containers",
	"plastic_shopping_bags", "plastic_soda_bottles", "plastic_straws", "plastic_trash_bags",
	"plastic_water_bottles", "shoes", "steel_food_cans", "styrofoam_cups",
	"styrofoam_food_containers", "tea_bags",
}

// categories lists the categories in display order.
var categories = []Category{
	Plastic, PaperAndCardboard, Glass, Metal, OrganicWaste, Textiles, Styrofoam,
}

var membership = map[Category][]Class{
	Plastic: {
		"plastic_cup_lids", "plastic_detergent_bottles", "plastic_shopping_bags", "plastic_straws",
		"plastic_water_bottles", "plastic_food_containers", "plastic_soda_bottles",
		"disposable_plastic_cutlery", "plastic_trash_bags",
	},
	PaperAndCardboard: {"cardboard_boxes", "cardboard_packaging", "magazines", "newspaper", "office_paper", "paper_cups"},
	Glass:             {"glass_beverage_bottles", "glass_cosmetic_containers", "glass_food_jars"},
	Metal:             {"aerosol_cans", "aluminum_food_cans", "aluminum_soda_cans", "steel_food_cans"},
	OrganicWaste:      {"coffee_grounds", "eggshells", "food_waste", "tea_bags"},
	Textiles:          {"clothing", "shoes"},
	Styrofoam:         {"styrofoam_cups", "styrofoam_food_containers"},
}

var methods = map[Category]Method{
	Plastic:           Recyclable,
	PaperAndCardboard: Recyclable,
	Glass:             Recyclable,
	Metal:             Recyclable,
	OrganicWaste:      Disposable,
	Textiles:          Upcyclable,
	Styrofoam:         Upcyclable,
}

var suggestions = map[Category][]string{
	Plastic:           {"Turn bottles into planters", "Make eco-bricks", "Create DIY organizers"},
	PaperAndCardboard: {"Make handmade paper", "Create gift wrapping paper", "Use for composting"},
	Glass:             {"Turn jars into lanterns", "Make decorative vases", "Use broken glass for mosaic art"},
	Metal:             {"Make tin can lanterns", "Create wall art from soda cans", "Reuse as storage containers"},
	OrganicWaste:      {"Compost food scraps", "Make DIY plant fertilizer", "Use coffee grounds for skin exfoliation"},
	Textiles:          {"Turn old shirts into tote bags", "Make patchwork quilts", "Upcycle jeans into shorts"},
	Styrofoam:         {"Reuse for craft projects", "Insulate fragile items", "Create DIY decorations"},
}

// classIndex is the reverse lookup built from membership once at init.
var classIndex = func() map[Class]Category {
	idx := make(map[Class]Category, len(classes))
	for _, cat := range categories {
		for _, c := range membership[cat] {
			idx[c] = cat
		}
	}
	return idx
}()

// Classes returns the class vocabulary in model output order.
func Classes() []Class {
	return slices.Clone(classes)
}

// Categories returns the known categories in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// Members returns the classes belonging to category.
func Members(category Category) []Class {
	return slices.Clone(membership[category])
}

// Lookup returns the category of class, or ErrUnknownClass.
func Lookup(class Class) (Category, error) {
	if cat, ok := classIndex[class]; ok {
		return cat, nil
	}
	return UnknownCategory, errors.New(ErrUnknownClass).
		Component("taxonomy").
		Category(errors.CategoryNotFound).
		Context("class", string(class)).
		Build()
}

// CategoryOf returns the category of class. Labels outside the vocabulary
// degrade to UnknownCategory.
func CategoryOf(class Class) Category {
	cat, _ := Lookup(class)
	return cat
}

// MethodOf returns the disposal method for category.
func MethodOf(category Category) Method {
	if m, ok := methods[category]; ok {
		return m
	}
	return UnknownMethod
}

// SuggestionsFor returns the reuse ideas for category, empty for unknown categories.
func SuggestionsFor(category Category) []string {
	s, ok := suggestions[category]
	if !ok {
		return []string{}
	}
	return slices.Clone(s)
}

// Validate checks that category membership partitions the class vocabulary and
// that every category has a method and suggestions.
func Validate() error {
	return validate(classes, categories, membership)
}

func validate(vocab []Class, cats []Category, members map[Category][]Class) error {
	var problems []error

	known := make(map[Class]bool, len(vocab))
	for _, c := range vocab {
		if known[c] {
			problems = append(problems, fmt.Errorf("class %q listed twice in vocabulary", c))
		}
		known[c] = true
	}

	owner := make(map[Class]Category, len(vocab))
	for _, cat := range cats {
		for _, c := range members[cat] {
			if !known[c] {
				problems = append(problems, fmt.Errorf("category %q lists unknown class %q", cat, c))
				continue
			}
			if prev, dup := owner[c]; dup {
				problems = append(problems, fmt.Errorf("class %q belongs to both %q and %q", c, prev, cat))
				continue
			}
			owner[c] = cat
		}
		if _, ok := methods[cat]; !ok {
			problems = append(problems, fmt.Errorf("category %q has no disposal method", cat))
		}
		if len(suggestions[cat]) == 0 {
			problems = append(problems, fmt.Errorf("category %q has no suggestions", cat))
		}
	}
	for cat := range members {
		if !slices.Contains(cats, cat) {
			problems = append(problems, fmt.Errorf("membership names unlisted category %q", cat))
		}
	}

	for _, c := range vocab {
		if _, ok := owner[c]; !ok {
			problems = append(problems, fmt.Errorf("class %q belongs to no category", c))
		}
	}

	if len(problems) > 0 {
		return errors.New(errors.Join(problems...)).
			Component("taxonomy").
			Category(errors.CategoryConfiguration).
			Context("problems", len(problems)).
			Build()
	}
	return nil
}

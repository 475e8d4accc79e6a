package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/errors"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestMembershipPartitionsClasses(t *testing.T) {
	seen := make(map[Class]Category)
	for _, cat := range Categories() {
		for _, c := range Members(cat) {
			prev, dup := seen[c]
			require.False(t, dup, "%s is in both %s and %s", c, prev, cat)
			seen[c] = cat
		}
	}

	all := Classes()
	assert.Len(t, seen, len(all), "union of memberships equals the vocabulary")
	for _, c := range all {
		cat, ok := seen[c]
		require.True(t, ok, "%s has no category", c)
		assert.Equal(t, cat, CategoryOf(c))
	}
}

func TestVocabularySize(t *testing.T) {
	assert.Len(t, Classes(), 30)
	assert.Equal(t, Class("aerosol_cans"), Classes()[0])
	assert.Equal(t, Class("tea_bags"), Classes()[29])
}

func TestValidateDetectsBrokenPartition(t *testing.T) {
	vocab := []Class{"a", "b", "c"}
	cats := []Category{Plastic, Glass}

	tests := []struct {
		name    string
		members map[Category][]Class
		want    string
	}{
		{"overlap", map[Category][]Class{Plastic: {"a", "b"}, Glass: {"b", "c"}}, `"b" belongs to both`},
		{"missing", map[Category][]Class{Plastic: {"a"}, Glass: {"b"}}, `"c" belongs to no category`},
		{"foreign", map[Category][]Class{Plastic: {"a", "b"}, Glass: {"c", "z"}}, `unknown class "z"`},
		{"unlisted category", map[Category][]Class{Plastic: {"a", "b", "c"}, Metal: {}}, `unlisted category "Metal"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(vocab, cats, tt.members)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
		})
	}
}

func TestCategoryOfUnknownClass(t *testing.T) {
	assert.Equal(t, UnknownCategory, CategoryOf("banana_peel"))

	_, err := Lookup("banana_peel")
	require.ErrorIs(t, err, ErrUnknownClass)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestMethodOf(t *testing.T) {
	tests := map[Category]Method{
		Plastic:           Recyclable,
		PaperAndCardboard: Recyclable,
		Glass:             Recyclable,
		Metal:             Recyclable,
		OrganicWaste:      Disposable,
		Textiles:          Upcyclable,
		Styrofoam:         Upcyclable,
		UnknownCategory:   UnknownMethod,
	}
	for cat, want := range tests {
		assert.Equal(t, want, MethodOf(cat), "category %s", cat)
	}
}

func TestSuggestionsFor(t *testing.T) {
	got := SuggestionsFor(Glass)
	assert.Equal(t, []string{"Turn jars into lanterns", "Make decorative vases", "Use broken glass for mosaic art"}, got)

	got[0] = "mutated"
	assert.Equal(t, "Turn jars into lanterns", SuggestionsFor(Glass)[0], "callers get a copy")

	assert.Empty(t, SuggestionsFor(UnknownCategory))
	assert.NotNil(t, SuggestionsFor(UnknownCategory))
}

func TestEveryCategoryHasThreeSuggestions(t *testing.T) {
	for _, cat := range Categories() {
		assert.Len(t, SuggestionsFor(cat), 3, "category %s", cat)
	}
}

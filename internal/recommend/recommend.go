// Package recommend turns a predicted waste class into the recommendation
// shown to the user and builds the search links offered alongside it.
package recommend

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tphakala/smartwaste/internal/taxonomy"
)

// SearchBaseURL is the search engine used for location and idea links.
const SearchBaseURL = "https://www.google.com/search"

// Result is the recommendation for one predicted class.
type Result struct {
	Class    taxonomy.Class
	Category taxonomy.Category
	Method   taxonomy.Method
}

// Resolve maps class to its category and disposal method. It has no state
// and always returns the same Result for the same class.
func Resolve(class taxonomy.Class) Result {
	category := taxonomy.CategoryOf(class)
	return Result{
		Class:    class,
		Category: category,
		Method:   taxonomy.MethodOf(category),
	}
}

// Suggestions returns the reuse ideas for the result's category.
func (r Result) Suggestions() []string {
	return taxonomy.SuggestionsFor(r.Category)
}

// Known reports whether the class was found in the taxonomy.
func (r Result) Known() bool {
	return r.Category != taxonomy.UnknownCategory
}

// OffersChoice reports whether the user is asked to recycle or upcycle the item.
func (r Result) OffersChoice() bool {
	return r.Method == taxonomy.Recyclable || r.Method == taxonomy.Upcyclable
}

// IsDisposable reports whether the item can only be disposed of.
func (r Result) IsDisposable() bool {
	return r.Method == taxonomy.Disposable
}

// Summary renders the one-line prediction banner.
func (r Result) Summary() string {
	return fmt.Sprintf("Predicted Waste Type: %s (%s) - %s", r.Class, r.Category, r.Method)
}

// Verb is the lower case method used in prompts, e.g. "recyclable".
func (r Result) Verb() string {
	return strings.ToLower(string(r.Method))
}

// IdeasLink searches for ideas on handling the result's category.
func (r Result) IdeasLink() string {
	return searchURL(fmt.Sprintf("%s %s ideas", r.Category, r.Verb()))
}

// CenterSearchLink searches for the nearest center handling the method near address.
func (r Result) CenterSearchLink(address string) string {
	return searchURL(fmt.Sprintf("nearest %s center in %s", r.Verb(), strings.TrimSpace(address)))
}

// DisposalSearchLink searches for the nearest general waste collection point near address.
func DisposalSearchLink(address string) string {
	return searchURL("nearest disposable waste collection center in " + strings.TrimSpace(address))
}

func searchURL(query string) string {
	return SearchBaseURL + "?q=" + url.QueryEscape(query)
}

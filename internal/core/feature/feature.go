// Package feature defines the hit vocabulary shared by the detectors
// and the scorer.
package feature

// Category names one evidence channel. The four keyword categories come
// first; Context, Statistic and URL cover the derived signals.
type Category string

// Category values, in report order
const (
	Threat         Category = "threat"
	Authentication Category = "authentication"
	Financial      Category = "financial"
	Impersonation  Category = "impersonation"
	Context        Category = "context"
	Statistic      Category = "statistic"
	URL            Category = "url"
)

// Order lists all categories in their fixed report order
func Order() []Category {
	return []Category{Threat, Authentication, Financial, Impersonation, Context, Statistic, URL}
}

// Keyword reports whether c is one of the four keyword categories,
// which are the only ones the occurrence taper applies to
func (c Category) Keyword() bool {
	switch c {
	case Threat, Authentication, Financial, Impersonation:
		return true
	}
	return false
}

// Rank returns c's position in the report order; unknown categories
// sort last
func (c Category) Rank() int {
	for i, o := range Order() {
		if o == c {
			return i
		}
	}
	return len(Order())
}

// Hit is one matched indicator. Immutable once emitted; the scorer and
// report builder only read it.
type Hit struct {
	Category Category `json:"category"`
	Term     string   `json:"term"`           // matched keyword or rule name
	Weight   float64  `json:"weight"`         // raw pack weight, pre-taper
	Index    int      `json:"index"`          // 1-based occurrence index within the category
	Start    int      `json:"start"`          // byte span on the canonical text, -1 when rule-based
	End      int      `json:"end"`            // byte span end, -1 when rule-based
	Value    float64  `json:"value,omitempty"` // measured value for statistic hits
}

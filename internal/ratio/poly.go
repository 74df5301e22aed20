package ratio

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// PolynomialExpander generates the polynomial feature basis of a matrix up
// to a fixed total degree: every monomial over the input features, in
// ascending degree order, combinations within a degree enumerated in index
// order. Fit binds the expander to a feature-name list before use.
type PolynomialExpander struct {
	Degree      int
	IncludeBias bool

	names []string // input feature names, set by Fit
	terms [][]int  // each term is a sorted multiset of feature indexes
}

// NewPolynomialExpander returns an unfitted expander. Degree must be >= 1.
func NewPolynomialExpander(degree int, includeBias bool) *PolynomialExpander {
	return &PolynomialExpander{Degree: degree, IncludeBias: includeBias}
}

// Fit binds the expander to the given input features and precomputes the
// basis terms.
func (p *PolynomialExpander) Fit(featureNames []string) error {
	if p.Degree < 1 {
		return eris.Errorf("ratio: polynomial degree %d, want >= 1", p.Degree)
	}
	if len(featureNames) == 0 {
		return eris.New("ratio: no input features to fit")
	}
	p.names = append([]string(nil), featureNames...)

	p.terms = nil
	minDegree := 1
	if p.IncludeBias {
		minDegree = 0
	}
	for d := minDegree; d <= p.Degree; d++ {
		p.terms = append(p.terms, combinationsWithReplacement(len(p.names), d)...)
	}
	return nil
}

// FeatureNames returns the name of every basis term, e.g. "sepal_length",
// "sepal_length^2", "sepal_length sepal_width". The bias term is "1".
func (p *PolynomialExpander) FeatureNames() []string {
	names := make([]string, len(p.terms))
	for i, term := range p.terms {
		names[i] = p.termName(term)
	}
	return names
}

// Transform maps each input row onto the fitted basis.
func (p *PolynomialExpander) Transform(x [][]float64) ([][]float64, error) {
	if p.names == nil {
		return nil, eris.New("ratio: expander not fitted")
	}
	if err := validate(x, len(p.names)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		cells := make([]float64, len(p.terms))
		for j, term := range p.terms {
			v := 1.0
			for _, idx := range term {
				v *= row[idx]
			}
			cells[j] = v
		}
		out[i] = cells
	}
	return out, nil
}

// NumFeatures returns the fitted basis size.
func (p *PolynomialExpander) NumFeatures() int { return len(p.terms) }

func (p *PolynomialExpander) termName(term []int) string {
	if len(term) == 0 {
		return "1"
	}
	var parts []string
	for i := 0; i < len(term); {
		j := i
		for j < len(term) && term[j] == term[i] {
			j++
		}
		name := p.names[term[i]]
		if power := j - i; power > 1 {
			name += "^" + strconv.Itoa(power)
		}
		parts = append(parts, name)
		i = j
	}
	return strings.Join(parts, " ")
}

// combinationsWithReplacement enumerates sorted index multisets of the
// given length over [0, n), in lexicographic order.
func combinationsWithReplacement(n, length int) [][]int {
	if length == 0 {
		return [][]int{{}}
	}
	total := int(math.Round(binomial(n+length-1, length)))
	out := make([][]int, 0, total)

	term := make([]int, length)
	for {
		out = append(out, append([]int(nil), term...))

		// Advance the rightmost index that can still grow.
		i := length - 1
		for i >= 0 && term[i] == n-1 {
			i--
		}
		if i < 0 {
			return out
		}
		term[i]++
		for j := i + 1; j < length; j++ {
			term[j] = term[i]
		}
	}
}

func binomial(n, k int) float64 {
	v := 1.0
	for i := 0; i < k; i++ {
		v = v * float64(n-i) / float64(i+1)
	}
	return v
}

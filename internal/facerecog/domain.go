package facerecog

import "math"

// DefaultThreshold is the maximum Euclidean distance between two
// embeddings that still counts as the same person.
const DefaultThreshold = 0.6

// Template is a stored face embedding tied to an employee.
type Template struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Embedding  []float64 `json:"embedding,omitempty"`
}

// MatchOutcome is the verification result returned to capture devices.
// A miss is a normal response, not an error.
type MatchOutcome struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EmployeeID *int64 `json:"employee_id"`
}

func euclideanDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	// Dimension mismatches count the orphan components at full weight so
	// truncated embeddings never pass as a match.
	for i := n; i < len(a); i++ {
		sum += a[i] * a[i]
	}
	for i := n; i < len(b); i++ {
		sum += b[i] * b[i]
	}
	return math.Sqrt(sum)
}

// BestMatch scans templates in order and returns the first one within
// threshold of the probe embedding.
func BestMatch(templates []Template, embedding []float64, threshold float64) (Template, bool) {
	for _, tpl := range templates {
		if len(tpl.Embedding) == 0 {
			continue
		}
		if euclideanDistance(tpl.Embedding, embedding) < threshold {
			return tpl, true
		}
	}
	return Template{}, false
}

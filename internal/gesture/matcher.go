// Package gesture labels hand poses by comparing them with stored templates.
package gesture

import (
	"math"
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// Template is a normalized reference pose for a gesture label.
type Template struct {
	ID        string
	Label     string
	Landmarks []detector.Point3D
	Tolerance float64 // Maximum distance for a match
}

// Match represents a matching result between input and a template.
type Match struct {
	Template *Template
	Score    float64 // 1/(1+distance), higher is better
	Distance float64 // Summed landmark distance
}

// FromStore converts stored templates.
func FromStore(stored []*store.Template) []*Template {
	out := make([]*Template, 0, len(stored))
	for _, s := range stored {
		t := &Template{
			ID:        s.ID,
			Label:     s.Label,
			Tolerance: s.Tolerance,
			Landmarks: make([]detector.Point3D, len(s.Landmarks)),
		}
		for i, lm := range s.Landmarks {
			t.Landmarks[i] = detector.Point3D{X: lm.X, Y: lm.Y, Z: lm.Z}
		}
		out = append(out, t)
	}
	return out
}

// Matcher matches hand poses against registered templates. It is safe for
// concurrent use.
type Matcher struct {
	mu        sync.RWMutex
	templates []*Template
}

// NewMatcher creates an empty Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// AddTemplate adds a template to the matcher.
func (m *Matcher) AddTemplate(t *Template) {
	if t == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = append(m.templates, t)
}

// RemoveTemplate removes a template by its ID.
func (m *Matcher) RemoveTemplate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.templates {
		if t.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return
		}
	}
}

// SetTemplates replaces all templates.
func (m *Matcher) SetTemplates(templates []*Template) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates = append([]*Template(nil), templates...)
}

// Len returns the number of templates.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.templates)
}

// Match finds templates within tolerance of hand, best first.
func (m *Matcher) Match(hand *detector.HandLandmarks) []Match {
	normalized := hand.Normalize()
	if normalized == nil {
		return nil
	}
	input := normalized.Points[:]

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for _, template := range m.templates {
		distance := euclideanDistance(input, template.Landmarks)
		if distance <= template.Tolerance {
			matches = append(matches, Match{
				Template: template,
				Score:    1.0 / (1.0 + distance),
				Distance: distance,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// euclideanDistance sums the distances between corresponding points.
func euclideanDistance(a, b []detector.Point3D) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.Inf(1)
	}

	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var totalDist float64
	for i := 0; i < minLen; i++ {
		dx := a[i].X - b[i].X
		dy := a[i].Y - b[i].Y
		dz := a[i].Z - b[i].Z
		totalDist += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}

	return totalDist
}

package salience

import (
	"context"
	"errors"

	"golang.org/x/text/cases"
)

// ErrService is returned when the salience backend cannot be reached or
// answers with an error.
var ErrService = errors.New("salience service failed")

// Service reports the salience of a named entity in content.
//
// Salience is in [0, 1]. It is the largest salience of any entity whose
// name equals name under Unicode case folding, and 0 when no entity matches.
type Service interface {
	Salience(ctx context.Context, content, name string) (float64, error)
}

// Entity is one entity found in a text.
type Entity struct {
	// Name is the entity's surface name.
	Name string

	// Type is the backend's entity type (PERSON, ORGANIZATION, ...).
	Type string

	// Salience is the entity's centrality to the text.
	Salience float64
}

// MaxSalience returns the highest salience among entities named name.
func MaxSalience(entities []Entity, name string) float64 {
	// A Caser keeps internal state and must not be shared between goroutines.
	fold := cases.Fold()
	target := fold.String(name)

	var best float64
	for _, e := range entities {
		if fold.String(e.Name) == target && e.Salience > best {
			best = e.Salience
		}
	}
	return best
}

// Package predict defines the prediction capability the picks API consumes.
// No concrete model exists yet; Unavailable fills the slot.
package predict

import (
	"context"
	"errors"
	"fmt"
	"math"

	"sharpshooter/ingestion/internal/models"
)

// ErrModelUnavailable is returned when no trained model can serve a prediction.
var ErrModelUnavailable = errors.New("prediction model unavailable")

// Kind distinguishes game-level from player-prop contexts.
type Kind string

const (
	KindGame Kind = "game"
	KindProp Kind = "prop"
)

// Context is what a predictor sees for one candidate pick.
type Context struct {
	Kind Kind

	// Game picks
	Game *models.GameSummary

	// Prop picks
	Player *models.PlayerForm
	Market string
	Line   float64
}

// Prediction is a label with a confidence in [0, 1].
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Validate rejects predictions with no label or an out-of-range confidence.
func (p Prediction) Validate() error {
	if p.Label == "" {
		return errors.New("prediction has no label")
	}
	if math.IsNaN(p.Confidence) || p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", p.Confidence)
	}
	return nil
}

// Predictor produces a prediction for one context or fails.
type Predictor interface {
	Predict(ctx context.Context, pc Context) (Prediction, error)
}

// Unavailable is the placeholder predictor. It always fails with ErrModelUnavailable.
type Unavailable struct{}

// Predict implements Predictor.
func (Unavailable) Predict(context.Context, Context) (Prediction, error) {
	return Prediction{}, ErrModelUnavailable
}

// Func adapts a function to Predictor.
type Func func(ctx context.Context, pc Context) (Prediction, error)

// Predict implements Predictor.
func (f Func) Predict(ctx context.Context, pc Context) (Prediction, error) {
	return f(ctx, pc)
}

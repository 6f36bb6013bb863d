package predict

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnavailable(t *testing.T) {
	var p Predictor = Unavailable{}

	_, err := p.Predict(context.Background(), Context{Kind: KindGame})
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPrediction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      Prediction
		wantErr bool
	}{
		{"lower bound", Prediction{Label: "home", Confidence: 0}, false},
		{"upper bound", Prediction{Label: "home", Confidence: 1}, false},
		{"typical", Prediction{Label: "over", Confidence: 0.62}, false},
		{"negative", Prediction{Label: "home", Confidence: -0.1}, true},
		{"above one", Prediction{Label: "home", Confidence: 1.01}, true},
		{"nan", Prediction{Label: "home", Confidence: math.NaN()}, true},
		{"no label", Prediction{Confidence: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFunc(t *testing.T) {
	p := Func(func(ctx context.Context, pc Context) (Prediction, error) {
		return Prediction{Label: string(pc.Kind), Confidence: 0.5}, nil
	})

	got, err := p.Predict(context.Background(), Context{Kind: KindProp})
	require.NoError(t, err)
	assert.Equal(t, "prop", got.Label)
}

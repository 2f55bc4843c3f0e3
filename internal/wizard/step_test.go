package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow_StartsOnLogin(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, StepLogin, f.Current())
	assert.True(t, f.Visible(StepLogin))
	assert.False(t, f.Terminal())

	var zero Flow
	assert.Equal(t, StepLogin, zero.Current())
}

func TestFlow_LinearWalk(t *testing.T) {
	f := NewFlow()
	for _, next := range []Step{StepBiodata, StepSurvey, StepSuccess} {
		require.NoError(t, f.GoTo(next))
		assert.Equal(t, next, f.Current())
	}
	assert.True(t, f.Terminal())
	assert.ErrorIs(t, f.Advance(), ErrInvalidTransition)
}

func TestFlow_RejectsOutOfOrder(t *testing.T) {
	cases := []struct {
		name     string
		from, to Step
	}{
		{"skip", StepLogin, StepSurvey},
		{"skip to end", StepLogin, StepSuccess},
		{"back", StepSurvey, StepBiodata},
		{"same", StepBiodata, StepBiodata},
		{"from terminal", StepSuccess, StepLogin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &Flow{current: tc.from}
			err := f.GoTo(tc.to)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransition))

			var te *TransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.from, te.From)
			assert.Equal(t, tc.to, te.To)
			assert.Equal(t, tc.from, f.Current(), "failed transition must not move")
		})
	}
}

func TestFlow_ExactlyOnePageVisible(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.Advance())
	require.NoError(t, f.Advance())

	var visible []Step
	for _, s := range Steps {
		if f.Visible(s) {
			visible = append(visible, s)
		}
	}
	assert.Equal(t, []Step{StepSurvey}, visible)
}

func TestIndicatorFor_Survey(t *testing.T) {
	want := Indicator{
		Steps:    [4]Marker{MarkerCompleted, MarkerCompleted, MarkerActive, MarkerPending},
		Segments: [3]bool{true, true, false},
	}
	if diff := cmp.Diff(want, IndicatorFor(StepSurvey)); diff != "" {
		t.Fatalf("indicator mismatch (-want +got):\n%s", diff)
	}
}

func TestIndicatorFor_AllSteps(t *testing.T) {
	want := map[Step]Indicator{
		StepLogin: {
			Steps: [4]Marker{MarkerActive, "", "", ""},
		},
		StepBiodata: {
			Steps:    [4]Marker{MarkerCompleted, MarkerActive, "", ""},
			Segments: [3]bool{true, false, false},
		},
		StepSuccess: {
			Steps:    [4]Marker{MarkerCompleted, MarkerCompleted, MarkerCompleted, MarkerActive},
			Segments: [3]bool{true, true, true},
		},
	}
	for s, ind := range want {
		if diff := cmp.Diff(ind, IndicatorFor(s)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", s, diff)
		}
	}
}

func TestParseStep(t *testing.T) {
	for _, s := range Steps {
		got, err := ParseStep(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStep("checkout")
	assert.Error(t, err)
}

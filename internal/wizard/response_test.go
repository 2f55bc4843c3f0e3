package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_EnforcesOrder(t *testing.T) {
	r := NewResponse()

	assert.ErrorIs(t, r.RecordBiodata(Biodata{}), ErrOutOfOrder)
	assert.ErrorIs(t, r.RecordRating("q", Rating{Score: 3}), ErrOutOfOrder)
	assert.ErrorIs(t, r.Finalize("", time.Now(), nil), ErrOutOfOrder)

	require.NoError(t, r.RecordLogin(Login{Email: "a@b.co", Password: "x"}))
	assert.ErrorIs(t, r.RecordLogin(Login{}), ErrAlreadyRecorded)

	require.NoError(t, r.RecordBiodata(Biodata{NationalID: "1234567890123456"}))
	assert.ErrorIs(t, r.RecordBiodata(Biodata{}), ErrAlreadyRecorded)

	l, ok := r.Login()
	require.True(t, ok)
	assert.Equal(t, "a@b.co", l.Email)
}

func TestResponse_RatingsKeepFirstSelectionOrder(t *testing.T) {
	r := recordedUpToSurvey(t)

	require.NoError(t, r.RecordRating("B", Rating{Score: 2, Label: "Tidak Setuju"}))
	require.NoError(t, r.RecordRating("A", Rating{Score: 5, Label: "Sangat Setuju"}))
	require.NoError(t, r.RecordRating("B", Rating{Score: 4, Label: "Setuju"}))

	got := r.Answers()
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Question)
	assert.Equal(t, 4, got[0].Rating.Score)
	assert.Equal(t, "A", got[1].Question)
}

func TestResponse_FinalizeRequiresEveryQuestion(t *testing.T) {
	r := recordedUpToSurvey(t)
	require.NoError(t, r.RecordRating("A", Rating{Score: 1}))

	err := r.Finalize("", time.Now(), []string{"A", "B", "C"})
	var inc *IncompleteError
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, []string{"B", "C"}, inc.Questions)
	assert.True(t, r.Timestamp().IsZero(), "timestamp stays unset on failure")
	assert.False(t, r.Submitted())
}

func TestResponse_FinalizeSeals(t *testing.T) {
	r := recordedUpToSurvey(t)
	require.NoError(t, r.RecordRating("A", Rating{Score: 1}))

	ts := time.Date(2025, 8, 17, 7, 0, 0, 0, time.UTC)
	require.NoError(t, r.Finalize("lebih banyak pohon", ts, []string{"A"}))
	assert.True(t, r.Submitted())
	assert.Equal(t, ts, r.Timestamp())
	assert.Equal(t, "lebih banyak pohon", r.Comments())

	assert.ErrorIs(t, r.RecordRating("A", Rating{Score: 2}), ErrAlreadyRecorded)
	assert.ErrorIs(t, r.Finalize("", ts, nil), ErrAlreadyRecorded)

	snap := r.snapshot()
	require.NotNil(t, snap.Timestamp)
	assert.Equal(t, "2025-08-17T07:00:00.000Z", *snap.Timestamp)
}

func TestResponse_SnapshotBeforeSubmit(t *testing.T) {
	snap := NewResponse().snapshot()
	assert.Nil(t, snap.Login)
	assert.Nil(t, snap.Biodata)
	assert.Nil(t, snap.Timestamp)
	assert.Empty(t, snap.Survey)
}

func recordedUpToSurvey(t *testing.T) *Response {
	t.Helper()
	r := NewResponse()
	require.NoError(t, r.RecordLogin(Login{Email: "a@b.co", Password: "x"}))
	require.NoError(t, r.RecordBiodata(Biodata{NationalID: "1234567890123456"}))
	return r
}

package download

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futures-data/internal/model"
)

func TestSplitRangeRebarHistory(t *testing.T) {
	chunks, err := SplitRange(model.Date(2009, 3, 27), model.Date(2024, 12, 31), 3)
	require.NoError(t, err)

	want := []DateRange{
		{model.Date(2009, 3, 27), model.Date(2011, 12, 31)},
		{model.Date(2012, 1, 1), model.Date(2014, 12, 31)},
		{model.Date(2015, 1, 1), model.Date(2017, 12, 31)},
		{model.Date(2018, 1, 1), model.Date(2020, 12, 31)},
		{model.Date(2021, 1, 1), model.Date(2023, 12, 31)},
		{model.Date(2024, 1, 1), model.Date(2024, 12, 31)},
	}
	assert.Equal(t, want, chunks)
}

func TestSplitRangeTruncatesLastChunk(t *testing.T) {
	chunks, err := SplitRange(model.Date(2020, 1, 1), model.Date(2021, 6, 30), 3)
	require.NoError(t, err)
	assert.Equal(t, []DateRange{{model.Date(2020, 1, 1), model.Date(2021, 6, 30)}}, chunks)
}

func TestSplitRangeSingleDay(t *testing.T) {
	chunks, err := SplitRange(model.Date(2024, 12, 31), model.Date(2024, 12, 31), 1)
	require.NoError(t, err)
	assert.Equal(t, []DateRange{{model.Date(2024, 12, 31), model.Date(2024, 12, 31)}}, chunks)
}

func TestSplitRangeRejectsBadInput(t *testing.T) {
	_, err := SplitRange(model.Date(2024, 1, 2), model.Date(2024, 1, 1), 3)
	assert.Error(t, err)
	_, err = SplitRange(model.Date(2024, 1, 1), model.Date(2024, 1, 2), 0)
	assert.Error(t, err)
}

func TestSplitRangeCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := model.Date(1990, 1, 1)
	for i := 0; i < 500; i++ {
		start := base.AddDate(0, 0, rng.Intn(12000))
		end := start.AddDate(0, 0, rng.Intn(9000))
		years := 1 + rng.Intn(5)

		chunks, err := SplitRange(start, end, years)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)
		assert.Equal(t, start, chunks[0].Start)
		assert.Equal(t, end, chunks[len(chunks)-1].End)
		for j, c := range chunks {
			assert.False(t, c.Start.After(c.End), "chunk %d inverted", j)
			assert.LessOrEqual(t, c.End.Year()-c.Start.Year()+1, years, "chunk %d spans too many years", j)
			if j > 0 {
				assert.Equal(t, chunks[j-1].End.Add(24*time.Hour), c.Start, "gap or overlap before chunk %d", j)
			}
		}
	}
}

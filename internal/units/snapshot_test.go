package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cosmotree/sage/internal/units"
)

func TestSnapshotTimesAgesIncreaseIntoThePast(t *testing.T) {
	u := testUnits()
	scaleFactors := []float64{0.2, 0.5, 1.0}
	st := units.NewSnapshotTimes(u, scaleFactors)

	assert.Equal(t, 3, st.NumSnapshots())
	assert.InDelta(t, 0.0, st.Age(2), 1e-12)
	assert.Greater(t, st.Age(1), st.Age(2))
	assert.Greater(t, st.Age(0), st.Age(1))

	assert.InDelta(t, 0.0, st.Redshift(2), 1e-9)
	assert.InDelta(t, 4.0, st.Redshift(0), 1e-9)
}

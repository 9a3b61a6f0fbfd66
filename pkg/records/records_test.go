package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordPreservesInsertionOrder(t *testing.T) {
	rec := New()
	rec.Set("b", "2")
	rec.Set("a", "1")
	rec.Set("c", "3")
	rec.Set("a", "overwritten")

	assert.Equal(t, []string{"b", "a", "c"}, rec.Keys())
	assert.Equal(t, 3, rec.Len())

	v, ok := rec.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "overwritten", v)
}

func TestRecordRowProjection(t *testing.T) {
	rec := New()
	rec.Set(FieldPermitID, "RO/ACC3/RO-0024-15")
	rec.Set(FieldAirportCode, "FRA")
	rec.Set("extra_field", "not projected")

	row := rec.Row(Columns)
	assert.Equal(t, []string{"RO/ACC3/RO-0024-15", "", "", "", "", "FRA", ""}, row)
}

func TestEmptyRecord(t *testing.T) {
	rec := New()
	assert.Equal(t, 0, rec.Len())

	_, ok := rec.Get(FieldPermitID)
	assert.False(t, ok)
}

package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("drop table"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "amount", ValidateSortField("amount", MovementSortFields, "movement_date"))
	assert.Equal(t, "movement_date", ValidateSortField("", MovementSortFields, "movement_date"))
	assert.Equal(t, "movement_date", ValidateSortField("amount; DROP TABLE movements", MovementSortFields, "movement_date"))
}

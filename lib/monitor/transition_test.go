package monitor

import (
	"testing"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		prev      models.ProductStatus
		available bool
		next      models.ProductStatus
		notify    bool
	}{
		{models.StatusUnknown, true, models.StatusInStock, true},
		{models.StatusOutOfStock, true, models.StatusInStock, true},
		{models.StatusInStock, false, models.StatusOutOfStock, false},
		{models.StatusInStock, true, models.StatusInStock, false},
		{models.StatusOutOfStock, false, models.StatusOutOfStock, false},
		{models.StatusUnknown, false, models.StatusUnknown, false},
	}
	for _, tc := range cases {
		next, notify := Transition(tc.prev, tc.available)
		assert.Equal(t, tc.next, next, "prev=%s available=%v", tc.prev, tc.available)
		assert.Equal(t, tc.notify, notify, "prev=%s available=%v", tc.prev, tc.available)
	}
}

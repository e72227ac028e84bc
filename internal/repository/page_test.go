package repository

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestPage_LimitOffsetDefaults(t *testing.T) {
	limit, offset := Page{}.limitOffset()
	assert.Equal(t, 30, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Page{Number: 3, Size: 10}.limitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}

func TestPage_HugeNumberIsClamped(t *testing.T) {
	limit, offset := Page{Number: math.MaxInt, Size: 30}.limitOffset()

	assert.Equal(t, 30, limit)
	assert.Equal(t, (MaxPageNumber-1)*30, offset)
}

func TestProperty_PageOffsetNeverNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("offset stays within bounds", prop.ForAll(
		func(number int, size int) bool {
			limit, offset := Page{Number: number, Size: size}.limitOffset()
			return limit >= 1 && offset >= 0 && offset <= (MaxPageNumber-1)*limit
		},
		gen.Int(),
		gen.IntRange(-10, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

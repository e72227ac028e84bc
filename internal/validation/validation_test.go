package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type window struct {
	name  string
	price string
	start *time.Time
	end   *time.Time
}

var windowRules = Rules[*window]{
	{
		Field: "name",
		Tags:  "required,min=3,max=5",
		Value: func(w *window) any { return w.name },
		Messages: map[string]string{
			"required": "obligatoire",
			"min":      "au moins " + LimitPlaceholder,
			"max":      "au plus " + LimitPlaceholder,
		},
	},
	{
		Field:    "price",
		Tags:     "required,decimal_gt=0.1,decimal_lt=999",
		Value:    func(w *window) any { return w.price },
		Messages: map[string]string{"decimal_gt": "hors bornes", "decimal_lt": "hors bornes"},
	},
	{
		Field: "end",
		Tags:  "gtefield",
		Value: func(w *window) any { return *w.end },
		Other: func(w *window) any { return *w.start },
		Skip:  func(w *window) bool { return w.start == nil || w.end == nil },
		Limit: func(w *window) string { return w.start.Format("2006-01-02") },
		Messages: map[string]string{
			"gtefield": ">= " + LimitPlaceholder,
		},
	},
}

func day(d int) *time.Time {
	t := time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRules_Valid(t *testing.T) {
	v := windowRules.Validate(&window{name: "abc", price: "0.5", start: day(1), end: day(1)})
	assert.Empty(t, v)
	assert.NoError(t, v.Err())
}

func TestRules_MessagesSubstituteLimit(t *testing.T) {
	v := windowRules.Validate(&window{name: "ab", price: "1"})
	require.Len(t, v, 1)
	assert.Equal(t, Violation{Field: "name", Message: "au moins 3"}, v[0])

	v = windowRules.Validate(&window{name: "abcdef", price: "1"})
	require.Len(t, v, 1)
	assert.Equal(t, "au plus 5", v[0].Message)
}

func TestRules_FirstFailingTagWins(t *testing.T) {
	v := windowRules.Validate(&window{name: "", price: "1"})
	require.Len(t, v, 1)
	assert.Equal(t, "obligatoire", v[0].Message)
}

func TestRules_DecimalBoundsAreExclusive(t *testing.T) {
	cases := map[string]bool{
		"0.1":    false,
		"0.11":   true,
		"0.5":    true,
		"998.99": true,
		"999":    false,
		"1000":   false,
		"-3":     false,
		"abc":    false,
	}
	for price, ok := range cases {
		v := windowRules.Validate(&window{name: "abc", price: price})
		_, failed := v.Field("price")
		assert.Equal(t, !ok, failed, "price %s", price)
	}
}

func TestRules_CrossFieldUsesLimitFunc(t *testing.T) {
	v := windowRules.Validate(&window{name: "abc", price: "1", start: day(10), end: day(9)})
	violation, ok := v.Field("end")
	require.True(t, ok)
	assert.Equal(t, ">= 2024-03-10", violation.Message)

	v = windowRules.Validate(&window{name: "abc", price: "1", end: day(9)})
	assert.Empty(t, v)
}

func TestViolations_AsError(t *testing.T) {
	v := windowRules.Validate(&window{name: "", price: ""})
	err := v.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: obligatoire")

	got, ok := AsViolations(err)
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestRules_UndeclaredTagFallsBack(t *testing.T) {
	v := windowRules.Validate(&window{name: "abc", price: ""})
	violation, ok := v.Field("price")
	require.True(t, ok)
	assert.Equal(t, DefaultMessage, violation.Message)
}

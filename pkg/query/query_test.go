package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimQuery(t *testing.T) {
	parsed := Parse("46 year old male, knee surgery in Pune, 3 month old policy")

	assert.Equal(t, 46, parsed.Entities["age"])
	assert.Equal(t, "male", parsed.Entities["gender"])
	assert.Equal(t, "knee surgery", parsed.Entities["procedure"])
	assert.Equal(t, "Pune", parsed.Entities["location"])

	duration, ok := parsed.Entities["policy_duration"].(*Duration)
	require.True(t, ok)
	assert.Equal(t, 3, duration.Duration)
	assert.Equal(t, "months", duration.Unit)
	assert.Equal(t, 3, duration.Months)

	assert.Greater(t, parsed.Confidence, 0.5)
}

func TestNormalizeExpandsAbbreviations(t *testing.T) {
	assert.Equal(t, "2 years old policy", Normalize("2  YRS old   policy"))
	assert.Equal(t, "6 months", Normalize("6 mos"))
}

func TestExtractAgeVariants(t *testing.T) {
	cases := map[string]int{
		"46 year old male":   46,
		"age of 30":          30,
		"age 25":             25,
		"46m knee surgery":   46,
		"patient is 71years": 0, // "71years" without "old" doesn't match the age form
	}
	for q, want := range cases {
		parsed := Parse(q)
		if want == 0 {
			assert.NotContains(t, parsed.Entities, "age", "query %q", q)
		} else {
			assert.Equal(t, want, parsed.Entities["age"], "query %q", q)
		}
	}
}

func TestExtractGender(t *testing.T) {
	assert.Equal(t, "male", Parse("45 year old man").Entities["gender"])
	assert.Equal(t, "female", Parse("32 year old woman").Entities["gender"])
	assert.Equal(t, "female", Parse("29 F, maternity cover").Entities["gender"])
	assert.NotContains(t, Parse("knee surgery in Mumbai").Entities, "gender")
}

func TestExtractProcedurePrefersLongestMatch(t *testing.T) {
	procedure, ok := ExtractProcedure("knee surgery after an operation")
	require.True(t, ok)
	assert.Equal(t, "knee surgery", procedure)

	_, ok = ExtractProcedure("premium payment query")
	assert.False(t, ok)
}

func TestExtractPolicyDurationYears(t *testing.T) {
	parsed := Parse("2 year old policy, heart surgery")

	duration, ok := parsed.Entities["policy_duration"].(*Duration)
	require.True(t, ok)
	assert.Equal(t, "years", duration.Unit)
	assert.Equal(t, 24, duration.Months)
}

func TestExtractAmount(t *testing.T) {
	parsed := Parse("claim of Rs. 1,50,000 for hospitalization")

	amount, ok := parsed.Entities["amount"].(*Amount)
	require.True(t, ok)
	assert.Equal(t, float64(150000), amount.Amount)
	assert.Equal(t, "INR", amount.Currency)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹150,000", FormatINR(150000))
	assert.Equal(t, "₹500", FormatINR(500))
	assert.Equal(t, "₹1,000", FormatINR(1000.75))
}

func TestClassifyIntent(t *testing.T) {
	cases := map[string]string{
		"is knee surgery covered under my policy": "coverage_verification",
		"exclusions and exceptions in the policy": "exclusion_check",
		"what is the waiting period, any delay":   "waiting_period_check",
		"premium cost and fees":                   "premium_inquiry",
		"hello there":                             "general_inquiry",
	}
	for q, want := range cases {
		assert.Equal(t, want, Parse(q).Intent, "query %q", q)
	}
}

func TestConfidenceBounds(t *testing.T) {
	low := Parse("hello")
	assert.Equal(t, 0.5, low.Confidence)

	high := Parse("46 year old male, knee surgery in Pune, 3 month old policy, claim coverage benefit")
	assert.LessOrEqual(t, high.Confidence, 1.0)
	assert.Greater(t, high.Confidence, low.Confidence)
}

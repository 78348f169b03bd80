// Package query parses natural-language claims queries into structured
// entities and an intent.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the structured form of a claims query.
type Parsed struct {
	OriginalQuery   string         `json:"original_query"`
	NormalizedQuery string         `json:"normalized_query"`
	Entities        map[string]any `json:"entities"`
	Intent          string         `json:"intent"`
	Confidence      float64        `json:"confidence"`
}

// Duration is a parsed policy duration.
type Duration struct {
	Duration int    `json:"duration"`
	Unit     string `json:"unit"`
	Months   int    `json:"months"`
}

// Amount is a parsed monetary amount.
type Amount struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	digitsRe     = regexp.MustCompile(`\d+`)

	ageRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d{1,2})\s*(?:year|yr|y\.o\.?|years?)\s*old`),
		regexp.MustCompile(`(?i)age\s*(?:of\s*)?(\d{1,2})`),
		regexp.MustCompile(`(?i)(\d{1,2})\s*(?:male|female|M|F)\b`),
	}

	maleRe   = regexp.MustCompile(`(?i)\b(?:male|man|m)\b`)
	femaleRe = regexp.MustCompile(`(?i)\b(?:female|woman|f)\b`)

	durationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:month|mon|months?)\s*(?:old\s*)?policy`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:year|yr|years?)\s*(?:old\s*)?policy`),
		regexp.MustCompile(`(?i)policy\s*(?:of\s*)?(\d+)\s*(month|year)`),
	}

	amountRes = []*regexp.Regexp{
		regexp.MustCompile(`₹\s*(\d+(?:,\d+)*)`),
		regexp.MustCompile(`(?i)rs\.?\s*(\d+(?:,\d+)*)`),
		regexp.MustCompile(`(?i)rupees?\s*(\d+(?:,\d+)*)`),
	}
)

// medicalTerms are matched as substrings; the longest hit wins.
var medicalTerms = []string{
	"knee surgery", "heart surgery", "brain surgery", "eye surgery",
	"cancer", "diabetes", "hypertension", "surgery", "operation",
	"procedure", "treatment", "transplant", "dialysis", "chemotherapy",
	"radiotherapy", "hospitalization", "admission",
}

// indianCities are the recognized claim locations.
var indianCities = []string{
	"mumbai", "delhi", "bangalore", "chennai", "kolkata", "hyderabad",
	"pune", "ahmedabad", "surat", "jaipur", "lucknow", "kanpur",
	"nagpur", "indore", "thane", "bhopal", "visakhapatnam", "pimpri",
	"patna", "vadodara", "ghaziabad", "ludhiana", "coimbatore",
}

var abbreviations = []struct{ abbr, full string }{
	{"yrs", "years"},
	{"yr", "year"},
	{"mos", "months"},
	{"mo", "month"},
	{"hrs", "hours"},
	{"hr", "hour"},
	{"mins", "minutes"},
	{"min", "minute"},
}

// intentKeywords is ordered; ties go to the earlier intent.
var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{"coverage_verification", []string{"cover", "coverage", "eligible", "include", "apply"}},
	{"claim_processing", []string{"claim", "benefit", "payout", "reimburse", "amount"}},
	{"exclusion_check", []string{"exclusion", "exclude", "not covered", "exception"}},
	{"waiting_period_check", []string{"waiting period", "wait", "when", "delay"}},
	{"premium_inquiry", []string{"premium", "cost", "price", "fee", "charge"}},
	{"policy_details", []string{"policy", "terms", "condition", "detail"}},
	{"general_inquiry", []string{"what", "how", "when", "where", "why"}},
}

// Parse extracts entities, intent and a confidence score from a query.
func Parse(queryText string) Parsed {
	normalized := Normalize(queryText)
	entities := extractEntities(normalized)
	intent := classifyIntent(normalized)
	confidence := calculateConfidence(normalized, entities)

	return Parsed{
		OriginalQuery:   queryText,
		NormalizedQuery: normalized,
		Entities:        entities,
		Intent:          intent,
		Confidence:      confidence,
	}
}

// Normalize lowercases the query, collapses whitespace and expands common
// abbreviations.
func Normalize(queryText string) string {
	q := strings.ToLower(queryText)
	q = strings.TrimSpace(whitespaceRe.ReplaceAllString(q, " "))

	for _, a := range abbreviations {
		re := regexp.MustCompile(`\b` + a.abbr + `\b`)
		q = re.ReplaceAllString(q, a.full)
	}
	return q
}

func extractEntities(q string) map[string]any {
	entities := map[string]any{}

	if age, ok := extractAge(q); ok {
		entities["age"] = age
	}
	if gender, ok := extractGender(q); ok {
		entities["gender"] = gender
	}
	if procedure, ok := ExtractProcedure(q); ok {
		entities["procedure"] = procedure
	}
	if location, ok := extractLocation(q); ok {
		entities["location"] = location
	}
	if duration, ok := extractPolicyDuration(q); ok {
		entities["policy_duration"] = duration
	}
	if amount, ok := extractAmount(q); ok {
		entities["amount"] = amount
	}
	return entities
}

func extractAge(q string) (int, bool) {
	for _, re := range ageRes {
		match := re.FindStringSubmatch(q)
		if match == nil {
			continue
		}
		age, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if age >= 0 && age <= 120 {
			return age, true
		}
	}
	return 0, false
}

func extractGender(q string) (string, bool) {
	if femaleRe.MatchString(q) {
		return "female", true
	}
	if maleRe.MatchString(q) {
		return "male", true
	}
	return "", false
}

// ExtractProcedure finds the most specific medical term in the query.
func ExtractProcedure(q string) (string, bool) {
	lower := strings.ToLower(q)

	var best string
	for _, term := range medicalTerms {
		if strings.Contains(lower, term) && len(term) > len(best) {
			best = term
		}
	}
	return best, best != ""
}

func extractLocation(q string) (string, bool) {
	lower := strings.ToLower(q)
	for _, city := range indianCities {
		if strings.Contains(lower, city) {
			return strings.ToUpper(city[:1]) + city[1:], true
		}
	}
	return "", false
}

func extractPolicyDuration(q string) (*Duration, bool) {
	for _, re := range durationRes {
		match := re.FindStringSubmatch(q)
		if match == nil {
			continue
		}
		duration, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		matchText := strings.ToLower(match[0])
		if strings.Contains(matchText, "year") || strings.Contains(matchText, "yr") {
			return &Duration{Duration: duration, Unit: "years", Months: duration * 12}, true
		}
		return &Duration{Duration: duration, Unit: "months", Months: duration}, true
	}
	return nil, false
}

func extractAmount(q string) (*Amount, bool) {
	for _, re := range amountRes {
		match := re.FindStringSubmatch(q)
		if match == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return &Amount{
			Amount:    value,
			Currency:  "INR",
			Formatted: FormatINR(value),
		}, true
	}
	return nil, false
}

// FormatINR renders an amount with the rupee sign and thousands separators.
func FormatINR(value float64) string {
	whole := int64(value)
	s := strconv.FormatInt(whole, 10)

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return fmt.Sprintf("₹%s", sb.String())
}

func classifyIntent(q string) string {
	bestIntent := "general_inquiry"
	bestScore := 0

	for _, ik := range intentKeywords {
		score := 0
		for _, kw := range ik.keywords {
			if strings.Contains(q, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestIntent = ik.intent
		}
	}
	return bestIntent
}

func calculateConfidence(q string, entities map[string]any) float64 {
	confidence := 0.5

	confidence += float64(len(entities)) * 0.1

	for _, term := range []string{"surgery", "treatment", "condition", "procedure", "hospital"} {
		if strings.Contains(q, term) {
			confidence += 0.05
		}
	}
	for _, term := range []string{"policy", "claim", "coverage", "benefit", "premium"} {
		if strings.Contains(q, term) {
			confidence += 0.05
		}
	}

	if digitsRe.MatchString(q) {
		confidence += 0.1
	}
	if strings.Contains(q, ",") {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	// Round to two decimals
	return float64(int(confidence*100+0.5)) / 100
}

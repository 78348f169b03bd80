// Package decision evaluates a parsed claims query against retrieved policy
// clauses and produces an auditable decision.
package decision

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/query"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
)

// Summarizer generates a plain-language summary of a decision. Optional.
type Summarizer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is the outcome of evaluating a claim.
type Result struct {
	Decision          model.Decision `json:"decision"`
	Amount            float64        `json:"amount"`
	Justification     model.JSONB    `json:"justification"`
	Confidence        float64        `json:"confidence"`
	ProcessingDetails map[string]any `json:"processing_details"`
}

// Engine applies the decision rules.
type Engine struct {
	summarizer Summarizer
}

// NewEngine creates an Engine. summarizer may be nil; summaries are skipped.
func NewEngine(summarizer Summarizer) *Engine {
	return &Engine{summarizer: summarizer}
}

var (
	periodRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*months?`),
		regexp.MustCompile(`(\d+)\s*years?`),
		regexp.MustCompile(`(\d+)\s*days?`),
	}

	ageExclusionRes = []*regexp.Regexp{
		regexp.MustCompile(`above\s+(\d+)\s+years?`),
		regexp.MustCompile(`over\s+(\d+)\s+years?`),
		regexp.MustCompile(`(\d+)\s+years?\s+and\s+above`),
	}

	amountRes = []*regexp.Regexp{
		regexp.MustCompile(`₹\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
		regexp.MustCompile(`rs\.?\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
		regexp.MustCompile(`rupees?\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
		regexp.MustCompile(`inr\s*(\d+(?:,\d+)*(?:\.\d+)?)`),
		regexp.MustCompile(`(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:rupees?|rs\.?|₹)`),
	}
)

type coverageAnalysis struct {
	CoverageFound     bool             `json:"coverage_found"`
	ConditionsMet     []string         `json:"conditions_met"`
	ConditionsFailed  []string         `json:"conditions_failed"`
	SupportingClauses []map[string]any `json:"supporting_clauses"`
}

type waitingPeriodCheck struct {
	Applicable        bool             `json:"applicable"`
	Satisfied         bool             `json:"satisfied"`
	RequiredMonths    float64          `json:"required_period"`
	CurrentMonths     float64          `json:"current_period"`
	Details           []string         `json:"details"`
	SupportingClauses []map[string]any `json:"supporting_clauses"`
}

type exclusionCheck struct {
	Excluded          bool             `json:"excluded"`
	ExclusionReasons  []string         `json:"exclusion_reasons"`
	SupportingClauses []map[string]any `json:"supporting_clauses"`
}

type benefitCalculation struct {
	Amount            float64          `json:"amount"`
	Currency          string           `json:"currency"`
	CalculationBasis  string           `json:"calculation_basis"`
	SubLimits         []map[string]any `json:"sub_limits"`
	SupportingClauses []map[string]any `json:"supporting_clauses"`
}

// Decide evaluates the claim and assembles a justification.
func (e *Engine) Decide(ctx context.Context, queryText string, entities map[string]any, results []search.Result) Result {
	procedure := entityString(entities, "procedure")

	coverage := analyzeCoverage(procedure, results)
	waiting := checkWaitingPeriods(procedure, entities, results)
	exclusions := checkExclusions(procedure, entities, results)
	benefits := calculateBenefits(procedure, results)

	decision, amount, primaryReason := finalDecision(coverage, waiting, exclusions, benefits, results)

	justification := model.JSONB{
		"primary_reason": primaryReason,
		"decision_factors": map[string]any{
			"coverage_analysis":    coverage,
			"waiting_period_check": waiting,
			"exclusion_check":      exclusions,
			"benefit_calculation":  benefits,
		},
		"supporting_evidence": compileEvidence(coverage, waiting, exclusions, benefits),
		"query_analysis": map[string]any{
			"extracted_entities": entities,
			"confidence_factors": confidenceFactors(entities, results),
		},
	}

	confidence := decisionConfidence(coverage, waiting, exclusions, results)

	if e.summarizer != nil {
		if summary, err := e.summarize(ctx, queryText, decision, primaryReason, amount); err == nil && summary != "" {
			justification["summary"] = summary
		}
	}

	return Result{
		Decision:      decision,
		Amount:        amount,
		Justification: justification,
		Confidence:    confidence,
		ProcessingDetails: map[string]any{
			"documents_analyzed":      len(results),
			"relevant_sections_found": countAboveScore(results, 0.7),
			"decision_timestamp":      time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// ErrorResult builds the decision returned when processing fails.
func ErrorResult(errorMessage string) Result {
	return Result{
		Decision: model.DecisionError,
		Justification: model.JSONB{
			"primary_reason":      "Processing error occurred",
			"error_details":       errorMessage,
			"decision_factors":    map[string]any{},
			"supporting_evidence": []map[string]any{},
			"query_analysis":      map[string]any{},
		},
		Confidence: 0.0,
		ProcessingDetails: map[string]any{
			"error":              true,
			"error_message":      errorMessage,
			"decision_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func analyzeCoverage(procedure string, results []search.Result) coverageAnalysis {
	analysis := coverageAnalysis{
		ConditionsMet:     []string{},
		ConditionsFailed:  []string{},
		SupportingClauses: []map[string]any{},
	}

	if procedure == "" {
		return analysis
	}

	variations := ProcedureVariations(procedure)
	for _, result := range results {
		if result.SectionType != "benefit" && result.SectionType != "coverage" {
			continue
		}

		textLower := strings.ToLower(result.Text)
		matched := false
		for _, v := range variations {
			if strings.Contains(textLower, v) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		analysis.CoverageFound = true
		analysis.ConditionsMet = append(analysis.ConditionsMet,
			fmt.Sprintf("Procedure '%s' found in benefits", procedure))
		analysis.SupportingClauses = append(analysis.SupportingClauses, map[string]any{
			"type":    "coverage",
			"text":    truncate(result.Text, 200),
			"source":  sourceOf(result),
			"section": result.SectionType,
		})
	}
	return analysis
}

func checkWaitingPeriods(procedure string, entities map[string]any, results []search.Result) waitingPeriodCheck {
	check := waitingPeriodCheck{
		Details:           []string{},
		SupportingClauses: []map[string]any{},
	}

	currentMonths, ok := policyDurationMonths(entities)
	if !ok {
		return check
	}

	for _, result := range results {
		textLower := strings.ToLower(result.Text)
		if procedure == "" || (!strings.Contains(textLower, "waiting period") && !strings.Contains(textLower, "wait")) {
			continue
		}

		for _, re := range periodRes {
			match := re.FindStringSubmatch(textLower)
			if match == nil {
				continue
			}
			duration, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}

			check.Applicable = true

			var requiredMonths float64
			switch {
			case strings.Contains(textLower, "year"):
				requiredMonths = float64(duration * 12)
			case strings.Contains(textLower, "day"):
				requiredMonths = float64(duration) / 30.0
			default:
				requiredMonths = float64(duration)
			}

			check.RequiredMonths = requiredMonths
			check.CurrentMonths = currentMonths

			if currentMonths >= requiredMonths {
				check.Satisfied = true
				check.Details = append(check.Details,
					fmt.Sprintf("Waiting period satisfied: %g >= %g months", currentMonths, requiredMonths))
			} else {
				check.Satisfied = false
				check.Details = append(check.Details,
					fmt.Sprintf("Waiting period not satisfied: %g < %g months", currentMonths, requiredMonths))
			}

			check.SupportingClauses = append(check.SupportingClauses, map[string]any{
				"type":            "waiting_period",
				"text":            truncate(result.Text, 200),
				"source":          sourceOf(result),
				"required_months": requiredMonths,
			})
			break
		}
	}
	return check
}

func checkExclusions(procedure string, entities map[string]any, results []search.Result) exclusionCheck {
	check := exclusionCheck{
		ExclusionReasons:  []string{},
		SupportingClauses: []map[string]any{},
	}

	age, hasAge := entityInt(entities, "age")

	for _, result := range results {
		if result.SectionType != "exclusion" {
			continue
		}
		textLower := strings.ToLower(result.Text)

		if procedure != "" && strings.Contains(textLower, procedure) {
			check.Excluded = true
			check.ExclusionReasons = append(check.ExclusionReasons,
				fmt.Sprintf("Procedure '%s' found in exclusions", procedure))
			check.SupportingClauses = append(check.SupportingClauses, map[string]any{
				"type":   "exclusion",
				"text":   truncate(result.Text, 200),
				"source": sourceOf(result),
				"reason": fmt.Sprintf("Procedure %s excluded", procedure),
			})
		}

		if hasAge {
			for _, re := range ageExclusionRes {
				match := re.FindStringSubmatch(textLower)
				if match == nil {
					continue
				}
				limit, err := strconv.Atoi(match[1])
				if err != nil {
					continue
				}
				if age > limit {
					check.Excluded = true
					check.ExclusionReasons = append(check.ExclusionReasons,
						fmt.Sprintf("Age %d exceeds exclusion limit of %d", age, limit))
				}
			}
		}
	}
	return check
}

func calculateBenefits(procedure string, results []search.Result) benefitCalculation {
	calc := benefitCalculation{
		Currency:          "INR",
		CalculationBasis:  "sum_insured",
		SubLimits:         []map[string]any{},
		SupportingClauses: []map[string]any{},
	}

	for _, result := range results {
		if result.SectionType != "benefit" && result.SectionType != "limitation" && result.SectionType != "financial" {
			continue
		}
		textLower := strings.ToLower(result.Text)

		for _, re := range amountRes {
			for _, match := range re.FindAllStringSubmatch(textLower, -1) {
				amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
				if err != nil {
					continue
				}

				if procedure != "" && !strings.Contains(textLower, procedure) {
					continue
				}

				if amount > calc.Amount {
					calc.Amount = amount
				}

				subject := procedure
				if subject == "" {
					subject = "general"
				}
				calc.SubLimits = append(calc.SubLimits, map[string]any{
					"procedure": subject,
					"limit":     amount,
					"source":    sourceOf(result),
					"section":   result.SectionType,
				})
				calc.SupportingClauses = append(calc.SupportingClauses, map[string]any{
					"type":   "benefit_amount",
					"text":   truncate(result.Text, 200),
					"amount": amount,
					"source": sourceOf(result),
				})
			}
		}
	}
	return calc
}

func finalDecision(
	coverage coverageAnalysis,
	waiting waitingPeriodCheck,
	exclusions exclusionCheck,
	benefits benefitCalculation,
	results []search.Result,
) (model.Decision, float64, string) {
	switch {
	case exclusions.Excluded:
		return model.DecisionRejected, 0, "Procedure excluded under policy terms"
	case waiting.Applicable && !waiting.Satisfied:
		return model.DecisionRejected, 0, "Waiting period not satisfied"
	case coverage.CoverageFound:
		return model.DecisionApproved, benefits.Amount, "Coverage applicable under policy terms"
	case len(results) == 0:
		return model.DecisionNeedsReview, 0, "Insufficient information for automatic decision"
	default:
		return model.DecisionRejected, 0, "Procedure not covered under policy"
	}
}

func compileEvidence(coverage coverageAnalysis, waiting waitingPeriodCheck, exclusions exclusionCheck, benefits benefitCalculation) []map[string]any {
	evidence := []map[string]any{}
	evidence = append(evidence, coverage.SupportingClauses...)
	evidence = append(evidence, waiting.SupportingClauses...)
	evidence = append(evidence, exclusions.SupportingClauses...)
	evidence = append(evidence, benefits.SupportingClauses...)
	return evidence
}

func confidenceFactors(entities map[string]any, results []search.Result) []string {
	var factors []string

	switch {
	case len(entities) >= 3:
		factors = append(factors, "Complete entity extraction")
	case len(entities) >= 2:
		factors = append(factors, "Partial entity extraction")
	default:
		factors = append(factors, "Limited entity extraction")
	}

	highSimilarity := countAboveScore(results, 0.8)
	switch {
	case highSimilarity >= 3:
		factors = append(factors, "High-quality search results")
	case highSimilarity >= 1:
		factors = append(factors, "Good search results")
	default:
		factors = append(factors, "Limited search results")
	}

	unique := map[string]struct{}{}
	for _, r := range results {
		unique[r.Filename] = struct{}{}
	}
	if len(unique) >= 2 {
		factors = append(factors, "Multiple document sources")
	} else {
		factors = append(factors, "Single document source")
	}

	return factors
}

func decisionConfidence(coverage coverageAnalysis, waiting waitingPeriodCheck, exclusions exclusionCheck, results []search.Result) float64 {
	confidence := 0.6

	if exclusions.Excluded && len(exclusions.SupportingClauses) > 0 {
		confidence += 0.2
	}
	if coverage.CoverageFound && len(coverage.SupportingClauses) > 0 {
		confidence += 0.15
	}
	if waiting.Applicable && !waiting.Satisfied {
		confidence += 0.15
	}

	if len(results) > 0 {
		var total float64
		for _, r := range results {
			total += r.SimilarityScore
		}
		avg := total / float64(len(results))
		if avg > 0.8 {
			confidence += 0.1
		} else if avg > 0.6 {
			confidence += 0.05
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// ProcedureVariations returns alternate names for a procedure to widen
// clause matching.
func ProcedureVariations(procedure string) []string {
	variations := []string{procedure}

	if strings.Contains(procedure, "surgery") {
		variations = append(variations,
			strings.ReplaceAll(procedure, "surgery", "operation"),
			strings.ReplaceAll(procedure, "surgery", "procedure"),
		)
	}
	if strings.Contains(procedure, "knee") {
		variations = append(variations, "knee replacement", "knee arthroscopy", "knee joint")
	}
	if strings.Contains(procedure, "heart") {
		variations = append(variations, "cardiac", "cardiovascular", "coronary")
	}
	return variations
}

func (e *Engine) summarize(ctx context.Context, queryText string, decision model.Decision, primaryReason string, amount float64) (string, error) {
	system := "You are an insurance claims assistant. Explain decisions in one or two plain sentences."
	user := fmt.Sprintf(
		"Query: %s\nDecision: %s\nReason: %s\nAmount: %s\nWrite a short plain-language explanation for the claimant.",
		queryText, strings.ToUpper(decision.String()), primaryReason, query.FormatINR(amount),
	)

	summary, err := e.summarizer.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func policyDurationMonths(entities map[string]any) (float64, bool) {
	raw, ok := entities["policy_duration"]
	if !ok || raw == nil {
		return 0, false
	}

	switch v := raw.(type) {
	case *query.Duration:
		return float64(v.Months), true
	case query.Duration:
		return float64(v.Months), true
	case map[string]any:
		// Entities round-tripped through JSON arrive as generic maps
		if months, ok := v["months"].(float64); ok {
			return months, true
		}
	}
	return 0, false
}

func entityString(entities map[string]any, key string) string {
	if v, ok := entities[key].(string); ok {
		return strings.ToLower(v)
	}
	return ""
}

func entityInt(entities map[string]any, key string) (int, bool) {
	switch v := entities[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func countAboveScore(results []search.Result, threshold float64) int {
	count := 0
	for _, r := range results {
		if r.SimilarityScore > threshold {
			count++
		}
	}
	return count
}

func sourceOf(result search.Result) string {
	if result.Filename == "" {
		return "Unknown"
	}
	return result.Filename
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package llm is a thin client for the completion APIs used by AI-assisted
// threat modeling and vendor assessments.
//
// A Provider sends one prompt and returns the model's text. Prompts are
// text/template files rendered with sprig functions; the defaults are
// embedded and a directory of overrides can be watched for changes. The
// Analyzer ties both together and turns model answers into findings or
// vendor assessments, rate limited per organization.
package llm

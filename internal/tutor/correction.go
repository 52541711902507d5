// Package tutor talks to the generation service on behalf of the writing
// tutor: it asks for corrections to a text and for deeper explanations of a
// single correction.
package tutor

// Correction is one suggested edit returned by an analysis.
type Correction struct {
	Rule              string `json:"rule"`
	OriginalFragment  string `json:"originalFragment"`
	CorrectedFragment string `json:"correctedFragment"`
	Explanation       string `json:"explanation"`
}

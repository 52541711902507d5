package tutor

import "errors"

var (
	// ErrEmptyText is returned when the submitted text is blank.
	ErrEmptyText = errors.New("text is empty")

	// ErrAnalysisUnavailable wraps any failure to reach the generation
	// service during analysis.
	ErrAnalysisUnavailable = errors.New("no se pudieron obtener las correcciones")

	// ErrMalformedResponse means the analysis reply was not a valid
	// corrections array.
	ErrMalformedResponse = errors.New("malformed corrections response")

	// ErrExplanationUnavailable wraps any failure to obtain a deeper
	// explanation.
	ErrExplanationUnavailable = errors.New("no se pudo obtener una explicación más detallada")
)

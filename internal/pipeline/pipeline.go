// Package pipeline normalizes semi-structured survey JSON returned by a
// language model into the internal schema and converts validated surveys
// into platform wire formats. Both stages are pure, synchronous and safe to
// call concurrently for different surveys.
package pipeline

import "formforge/internal/model"

// GenerateAndOptimize validates raw model output and converts the result for
// the requested platform in one call. Failures from either stage carry their
// ErrorKind, so callers can tell a bad model response from an unsupported
// platform without inspecting messages.
func GenerateAndOptimize(raw string, platform Platform) (*model.GoogleFormsForm, error) {
	survey, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	return Convert(survey, platform)
}

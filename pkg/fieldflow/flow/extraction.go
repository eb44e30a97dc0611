package flow

import (
	"github.com/randalmurphal/fieldflow/pkg/fieldflow"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/parse"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/state"
	"github.com/randalmurphal/fieldflow/pkg/fieldflow/validate"
)

// fieldExtraction pulls field values out of the latest user message.
//
// The expected field gets a regex fast path first; when that misses,
// the generation client extracts every still-missing field in one
// call. Each candidate value runs through its validator before it is
// collected, so a bad value records a validation error instead of
// poisoning the collected set.
func (n *nodes) fieldExtraction(ctx fieldflow.Context, s state.Snapshot) (state.Snapshot, error) {
	s.ExtractedThisTurn = nil
	message := s.LastUserMessage

	// Skip handling applies only while an optional field is being asked.
	if s.ExpectedField != "" && n.isOptionalField(s.ExpectedField) {
		switch parse.DetectBypass(message) {
		case parse.BypassSkip:
			return n.declineExpected(ctx, s), nil
		case parse.BypassAmbiguous:
			if n.classifier.DetectBypass(ctx, message, s.ExpectedField) {
				return n.declineExpected(ctx, s), nil
			}
		}
	}

	extracted := map[string]any{}
	if s.ExpectedField != "" {
		if spec, ok := n.def.FieldByName(s.ExpectedField); ok {
			if v, hit := n.fast.TryExtract(message, spec); hit {
				extracted[s.ExpectedField] = v
			}
		}
	}
	if len(extracted) == 0 && n.extractor != nil {
		values, err := n.extractor.Extract(ctx, message, n.stillMissingSpecs(ctx, s), s.ExpectedField)
		if err != nil {
			ctx.Logger().Warn("field extraction failed", "error", err)
		}
		for name, v := range values {
			extracted[name] = v
		}
	}

	validated := 0
	for name, value := range extracted {
		if err := n.validateField(name, value); err != nil {
			s.SetValidationError(name, err.Error())
			ctx.Logger().Info("field rejected", "field", name, "error", err.Error())
			continue
		}
		s.SetCollected(name, value)
		s.SetExtracted(name, value)
		s.ClearValidationError(name)
		validated++
	}

	if validated > 0 {
		s.RetryCount = 0
	} else if !s.FirstTurn {
		s.RetryCount++
	}

	ctx.Logger().Info("extraction complete",
		"extracted", len(extracted),
		"validated", validated,
		"retry_count", s.RetryCount,
	)
	return s, nil
}

// declineExpected records a skip of the current optional field.
func (n *nodes) declineExpected(ctx fieldflow.Context, s state.Snapshot) state.Snapshot {
	ctx.Logger().Info("optional field declined", "field", s.ExpectedField)
	s.DeclineOptional(s.ExpectedField)
	s.ExpectedField = ""
	s.RetryCount = 0
	return s
}

// validateField runs the field's configured validator, inferring one
// from the field name and type when none is configured.
func (n *nodes) validateField(name string, value any) error {
	spec, ok := n.def.FieldByName(name)
	if !ok {
		return nil
	}
	vname := spec.Validator
	if vname == "" {
		vname = validate.Infer(spec.Name, spec.Type)
	}
	return validate.Run(vname, value, validate.Config(spec.ValidatorConfig))
}

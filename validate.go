package safeui

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Validate runs the full pipeline over an already-decoded Card value,
// e.g. one a host assembled in memory rather than received as raw
// bytes. It does not apply the card-size-in-bytes check (§4.7's first
// row), since there is no byte representation to measure without
// re-marshaling; ValidateRaw is the entry point that covers it.
func Validate(card *Card) Result {
	return validateWithLimits(card, marshalForFingerprint(card), DefaultLimits())
}

// ValidateOptions configures a single ValidateRaw/Validate call.
type ValidateOptions struct {
	Limits Limits
}

// ValidateRaw parses and validates a card document, per §4.2's
// short-circuit: if the Schema Pass fails, the other six passes never
// run. Otherwise all six run regardless of whether earlier ones failed,
// and their errors are merged.
func ValidateRaw(raw []byte, opts ...ValidateOptions) Result {
	limits := DefaultLimits()
	if len(opts) > 0 {
		limits = opts[0].Limits
	}

	if len(raw) > limits.CardBytes {
		return Result{
			Valid: false,
			Errors: []Error{{
				Code:    ErrCardSizeExceeded,
				Message: cardSizeMessage(len(raw), limits.CardBytes),
			}},
		}
	}

	card, schemaErrs := runSchemaPass(raw)
	if !schemaErrs.ok() {
		return resultFrom(schemaErrs, raw)
	}

	return validateWithLimits(card, raw, limits)
}

func cardSizeMessage(actual, limit int) string {
	return "card is " + humanBytes(actual) + overBy(actual, limit) + " (limit " + humanBytes(limit) + ")"
}

// validateWithLimits runs the six non-schema passes and merges their
// findings, plus a by-hand non-empty meta.name/meta.version check for
// Cards that never went through the Schema Pass. raw is the bytes to
// fingerprint: ValidateRaw's input, Validate's re-marshal of the Card,
// or nil when Render validates an in-memory Card (empty fingerprint).
func validateWithLimits(card *Card, raw []byte, limits Limits) Result {
	merged := &errorList{}
	if card.Meta.Name == "" || card.Meta.Version == "" {
		merged.add(ErrMissingField, "meta", "meta.name and meta.version must be non-empty")
	}
	merged.merge(runNodePass(card))
	merged.merge(runValueTypePass(card))
	merged.merge(runStylePass(card))
	merged.merge(runSecurityPass(card))
	merged.merge(runLimitsPass(card, limits))
	merged.merge(runExprPass(card))

	return resultFrom(merged, raw)
}

func resultFrom(errs *errorList, raw []byte) Result {
	return Result{
		Valid:       errs.ok(),
		Errors:      errs.errs,
		Fingerprint: fingerprint(raw),
	}
}

// fingerprint computes a SHA-256 hash of raw exactly as given, for the
// re-validation cache key described in SPEC_FULL.md's supplemental
// features; nil raw gives an empty fingerprint. Validate, called with
// an in-memory Card, passes a re-marshal of the decoded struct; that
// is not guaranteed byte-identical to any original wire form, which is
// fine since the fingerprint's only contract is "unchanged card,
// unchanged fingerprint" for repeated calls against the same in-memory
// value, not cross-process stability.
func fingerprint(raw []byte) string {
	if raw == nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// marshalForFingerprint exists purely so Validate's fallback path has
// something deterministic to hash; encoding/json sorts map keys, so two
// structurally-equal Cards always produce the same bytes regardless of
// original author ordering.
func marshalForFingerprint(card *Card) []byte {
	b, err := json.Marshal(card)
	if err != nil {
		return nil
	}
	return b
}

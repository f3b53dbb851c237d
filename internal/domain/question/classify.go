package question

// Variant identifies which historical on-disk shape a question record
// carries.
type Variant int

const (
	// VariantChoicesAnswerIndex is the canonical shape: a choices list
	// plus a numeric answer index.
	VariantChoicesAnswerIndex Variant = iota
	// VariantOptionsLetterAnswer maps single letters to option text,
	// naming the correct letter separately.
	VariantOptionsLetterAnswer
	// VariantItemsLegacyLetter is the oldest trainer shape: letter/text
	// pairs plus a correct letter.
	VariantItemsLegacyLetter
	// VariantFallback covers records with none of the recognized keys.
	VariantFallback
)

// Classify picks the conversion strategy for one decoded record.
// Precedence follows the order the shapes were introduced: a non-empty
// choices list wins over options, which wins over legacy items.
func Classify(rec map[string]any) Variant {
	if list, ok := rec["choices"].([]any); ok && len(list) > 0 {
		return VariantChoicesAnswerIndex
	}
	if opts, ok := rec["options"].(map[string]any); ok && len(opts) > 0 {
		return VariantOptionsLetterAnswer
	}
	if items, ok := rec["items"].([]any); ok && len(items) > 0 {
		return VariantItemsLegacyLetter
	}
	return VariantFallback
}

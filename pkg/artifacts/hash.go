// Package artifacts implements the content-addressed artifact store:
// prompts, model configs, documents, and generated content are all
// deduplicated by the SHA-256 hash of a canonical byte representation
// (spec.md §3, §6, §9). This, not the relational schema, is what makes the
// pipeline idempotent.
package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// HashContent returns the hex-encoded SHA-256 digest of raw content. Used
// directly for Document and GeneratedContent content_hash, and as the last
// step of Prompt/ModelConfig canonicalization.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CanonicalPromptContent joins a prompt.md body with zero or more example
// bodies, in sorted-by-filename order, per spec.md §6: "prompt.md.strip() +
// ('\n\n' + example.strip())* in sorted order by filename". Callers pass
// already-trimmed strings.
func CanonicalPromptContent(promptBody string, examples []string) string {
	out := promptBody
	for _, ex := range examples {
		out += "\n\n" + ex
	}
	return out
}

// CanonicalModelConfigString renders the canonical form spec.md §6
// specifies for a ModelConfig: a JSON object {"model": <string>,
// "options_json": <string-of-canonical-JSON-with-sorted-keys>}. The hash is
// SHA-256 of this string.
func CanonicalModelConfigString(model string, options map[string]any) (string, error) {
	optionsJSON, err := canonicalJSON(options)
	if err != nil {
		return "", err
	}
	envelope := struct {
		Model       string `json:"model"`
		OptionsJSON string `json:"options_json"`
	}{Model: model, OptionsJSON: optionsJSON}
	b, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ModelConfigHash computes the content_hash for a ModelConfig: SHA-256 of
// CanonicalModelConfigString.
func ModelConfigHash(model string, options map[string]any) (string, error) {
	canonical, err := CanonicalModelConfigString(model, options)
	if err != nil {
		return "", err
	}
	return HashContent(canonical), nil
}

// canonicalJSON marshals v with map keys sorted, matching Go's default
// encoding/json behavior for map[string]any (which already sorts keys), but
// made explicit here since the spec calls out "sorted-keys" as a named
// requirement rather than an accident of the standard library.
func canonicalJSON(v map[string]any) (string, error) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := make(map[string]any, len(v))
	for _, k := range keys {
		ordered[k] = v[k]
	}
	b, err := json.Marshal(ordered)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

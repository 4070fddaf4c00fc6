// Package fingerprint computes the stable content-derived identifiers
// that bind a building model and its rendered artifacts together.
//
// The design fingerprint hashes the specification's structural fields
// only; volatile bookkeeping such as generation timestamps is excluded
// so that two identical designs produced at different times share one
// fingerprint. All hashes are SHA-256.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parti-studio/parti/pkg/spec"
)

// Design returns the stable fingerprint of a specification. It is
// deterministic across calls and processes: the canonical JSON of the
// structural fields is hashed, with the volatile GeneratedAt field
// zeroed first.
func Design(s *spec.DesignSpecification) string {
	structural := *s
	structural.GeneratedAt = time.Time{}

	// Struct field order fixes the JSON byte order, so marshalling is
	// canonical without extra sorting.
	data, _ := json.Marshal(structural)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ControlImage hashes the content of a rendered control image,
// producing the "sha256_<hex>" form carried in panel metadata.
func ControlImage(content []byte) string {
	sum := sha256.Sum256(content)
	return "sha256_" + hex.EncodeToString(sum[:])
}

// Canonical derives the canonical control fingerprint binding a design
// to one panel type and the content hash of its control image, in the
// "canon_<hex>" form.
func Canonical(designFingerprint, panelType, contentHash string) string {
	payload := fmt.Sprintf("%s|%s|%s", designFingerprint, panelType, contentHash)
	sum := sha256.Sum256([]byte(payload))
	return "canon_" + hex.EncodeToString(sum[:])
}

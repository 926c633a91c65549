package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainModule separates module digests from any other hash in the tool.
const DomainModule = "inferc/module/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModuleDigest returns the content digest of a module. Two modules with the
// same rules have the same digest regardless of source positions.
func ModuleDigest(m *Module) (string, error) {
	canonical, err := MarshalCanonical(ToCanonicalMap(m))
	if err != nil {
		return "", fmt.Errorf("ModuleDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// MustModuleDigest is like ModuleDigest but panics on error.
// Use only in tests.
func MustModuleDigest(m *Module) string {
	d, err := ModuleDigest(m)
	if err != nil {
		panic(err)
	}
	return d
}

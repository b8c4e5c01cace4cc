package locker

import (
	"encoding/base64"
	"strings"
)

// credentialMarker is prepended before encoding so that decoded output can be
// told apart from legacy plaintext records.
const credentialMarker = "IDIR_SECURE_"

// Encode obfuscates a credential string for at-rest storage. This is not a
// security control, it only keeps credentials from sitting in the database
// as plain text.
func Encode(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(credentialMarker + plain))
}

// Decode reverses Encode. The bool reports whether the token was actually
// decoded; invalid or marker-less input is returned unchanged with false so
// the read path never fails on legacy or corrupt data.
func Decode(token string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return token, false
	}
	decoded := string(raw)
	if !strings.HasPrefix(decoded, credentialMarker) {
		return token, false
	}
	return decoded[len(credentialMarker):], true
}

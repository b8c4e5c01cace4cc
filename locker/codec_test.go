package locker

import (
	"encoding/base64"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	inputs := []string{"user123", "", "p@ss wörd/≈", "admin@idirbook.com", "IDIR_SECURE_already"}
	for _, in := range inputs {
		plain, decoded := Decode(Encode(in))
		if !decoded {
			t.Fatalf("Decode(Encode(%q)): expected decoded=true", in)
		}
		if plain != in {
			t.Fatalf("round trip: want %q, got %q", in, plain)
		}
	}
}

func TestDecodePassesThroughLegacyPlaintext(t *testing.T) {
	// Not valid base64 at all.
	plain, decoded := Decode("eleanor@hillhouse.com")
	if decoded {
		t.Fatalf("legacy plaintext should not report decoded")
	}
	if plain != "eleanor@hillhouse.com" {
		t.Fatalf("legacy plaintext must come back unchanged, got %q", plain)
	}
}

func TestDecodePassesThroughMarkerlessBase64(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("no marker here"))
	plain, decoded := Decode(token)
	if decoded {
		t.Fatalf("marker-less base64 should not report decoded")
	}
	if plain != token {
		t.Fatalf("marker-less input must come back unchanged, got %q", plain)
	}
}

func TestDecodeNeverRaisesOnGarbage(t *testing.T) {
	for _, in := range []string{"", "!!!", "====", "\x00\x01\x02"} {
		plain, decoded := Decode(in)
		if decoded {
			t.Fatalf("garbage %q should pass through", in)
		}
		if plain != in {
			t.Fatalf("garbage %q must come back unchanged, got %q", in, plain)
		}
	}
}

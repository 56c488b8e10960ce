package util

import "testing"

func TestHashConsistency(t *testing.T) {
	data := []byte("788788")
	if HashCode(data) != HashCode(data) {
		t.Errorf("hash should be deterministic")
	}
}

func TestHashDistinguishesDifferentKeys(t *testing.T) {
	if HashCode([]byte("CA")) == HashCode([]byte("CO")) {
		t.Errorf("distinct keys should (almost certainly) hash differently")
	}
}

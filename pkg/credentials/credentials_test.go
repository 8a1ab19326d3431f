package credentials

import "testing"

func TestHash(t *testing.T) {
	got := Hash("cisco")
	if len(got) != 64 {
		t.Fatalf("digest length = %d", len(got))
	}
	if Hash("cisco") != got {
		t.Fatal("hash not deterministic")
	}
	if Hash("") != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("empty digest = %s", Hash(""))
	}
}

func TestMatches(t *testing.T) {
	d := Hash("s3cret")
	if !Matches(d, "s3cret") {
		t.Error("expected match")
	}
	if Matches(d, "S3cret") {
		t.Error("unexpected match")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if _, ok, _ := s.Get(EnablePassword); ok {
		t.Fatal("empty store returned a key")
	}
	if err := s.Set(EnablePassword, Hash("a")); err != nil {
		t.Fatal(err)
	}
	d, ok, err := s.Get(EnablePassword)
	if err != nil || !ok || d != Hash("a") {
		t.Fatalf("Get = %q %v %v", d, ok, err)
	}
	if _, ok, _ := s.Get(EnableSecret); ok {
		t.Fatal("secret should be unset")
	}
}

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := Open(path)
	s.SetToken("tok-abc")
	s.SetCSRFToken("csrf-1")
	s.SetOrganizationID("org-556677889")

	reopened := Open(path)
	if reopened.Token() != "tok-abc" {
		t.Fatalf("token = %q", reopened.Token())
	}
	if reopened.CSRFToken() != "csrf-1" {
		t.Fatalf("csrf = %q", reopened.CSRFToken())
	}
	if reopened.OrganizationID() != "org-556677889" {
		t.Fatalf("org = %q", reopened.OrganizationID())
	}
}

func TestOpenMissingFileYieldsEmptySession(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "absent.json"))
	if s.Token() != "" || s.OrganizationID() != "" {
		t.Fatalf("missing file did not yield empty session")
	}
}

func TestOpenCorruptFileYieldsEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := Open(path)
	if s.Token() != "" {
		t.Fatalf("corrupt file produced a token: %q", s.Token())
	}
}

func TestClearTokenKeepsOrganization(t *testing.T) {
	s := New()
	s.SetToken("tok")
	s.SetOrganizationID("org-1")
	s.ClearToken()
	if s.Token() != "" {
		t.Fatalf("token survived clear")
	}
	if s.OrganizationID() != "org-1" {
		t.Fatalf("organization dropped with the token")
	}
}

func TestOnChangeFiresAfterMutation(t *testing.T) {
	s := New()
	var seen []string
	s.OnChange(func() { seen = append(seen, s.Token()) })

	s.SetToken("tok")
	s.ClearToken()
	if len(seen) != 2 || seen[0] != "tok" || seen[1] != "" {
		t.Fatalf("hook calls = %v", seen)
	}
}

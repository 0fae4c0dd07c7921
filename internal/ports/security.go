package ports

// PasswordHasher produces and verifies self-describing salted digests.
// Compare must fail (not panic) on malformed digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) error
}

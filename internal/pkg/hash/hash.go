package hash

// Hash produces and checks keyed digests of short secrets.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}

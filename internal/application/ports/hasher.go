package ports

// Hasher is the credential hashing contract. Hash returns a salted
// one-way digest; Verify compares in constant time.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) (bool, error)
}

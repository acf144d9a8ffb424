package dirhash

import "fmt"

// Hasher absorbs byte chunks in any number of calls and produces a
// finalized digest. Absorb must be associative: absorb(a); absorb(b) is
// equivalent to absorb(a‖b). Finalize consumes the Hasher; it must not be
// called again afterward. A Hasher instance must be safe to move across
// goroutines but is never shared between two goroutines concurrently.
type Hasher interface {
	Absorb(chunk []byte)
	Finalize() []byte
}

// HasherFactory constructs a fresh Hasher, one per file and one for the
// final composite digest.
type HasherFactory interface {
	New() Hasher
}

// GetHasherFactory resolves a built-in hasher by name: "blake3" (default),
// "sha256" or "sha512".
func GetHasherFactory(name string) (HasherFactory, error) {
	switch name {
	case "", "blake3":
		return blake3Factory{}, nil
	case "sha256":
		return sha256Factory{}, nil
	case "sha512":
		return sha512Factory{}, nil
	default:
		return nil, &ConfigError{Subject: fmt.Sprintf("hasher %q", name), Err: fmt.Errorf("unknown hasher")}
	}
}

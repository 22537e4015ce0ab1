package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/carbonpath/csrd/pkg/cryptox"
)

// KeyManager manages JWT signing and verification keys for an instance.
// Keys are ephemeral: generated at startup and held only in memory, so all
// sessions become invalid when the service restarts. With a 15 minute
// access-token TTL that trade-off is acceptable for this service.
//
// Multiple signing keys are generated and selected randomly per signing
// operation to distribute load.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience is the list of audience values (aud) that will be validated.
	// Empty slice means no audience validation.
	Audience []string

	// NumKeys specifies how many Ed25519 signing keys to generate.
	// Defaults to 3 if not specified. Minimum is 1, maximum is 10.
	NumKeys int
}

// NewEphemeralKeyManager creates a new KeyManager with ephemeral Ed25519
// keys. The manager handles the wiring between key generation (cryptox),
// signing/verification, and the KeySet used for JWKS publishing.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	numKeys := opts.NumKeys
	if numKeys <= 0 {
		numKeys = 3
	}
	if numKeys > 10 {
		numKeys = 10
	}

	keyset := NewKeySet()
	signers := make([]Signer, 0, numKeys)

	for i := 0; i < numKeys; i++ {
		keyID, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate EdDSA key: %w", err)
		}

		signer, err := NewSignerEdDSA(keyID, pemBytes)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to create signer %d: %w", i+1, err)
		}

		signers = append(signers, signer)

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
		}
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected signer from the available signing
// keys. If only one key exists, it returns that key consistently.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if len(km.signers) == 0 {
		return nil
	}

	if len(km.signers) == 1 {
		return km.signers[0]
	}

	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// generateRandomKeyID creates a random key identifier using cryptographic
// entropy. Format: "csrd-{random-token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return fmt.Sprintf("csrd-%s", token), nil
}

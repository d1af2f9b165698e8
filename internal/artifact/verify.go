package artifact

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// SignatureVerifier checks detached OpenPGP signatures against a keyring file.
type SignatureVerifier struct {
	keyringPath string
}

// NewSignatureVerifier creates a verifier for the armored or binary keyring at keyringPath.
func NewSignatureVerifier(keyringPath string) *SignatureVerifier {
	return &SignatureVerifier{keyringPath: keyringPath}
}

// Verify checks that signature is a valid detached signature of the file at
// artifactPath by a key in the keyring. Both armored and binary signatures
// are accepted.
func (v *SignatureVerifier) Verify(artifactPath string, signature []byte) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("%w: load keyring: %v", ErrSignatureInvalid, err)
	}

	file, err := os.Open(artifactPath)
	if err != nil {
		return fmt.Errorf("%w: open artifact: %v", ErrSignatureInvalid, err)
	}
	defer file.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, bytes.NewReader(signature), nil)
	if err != nil {
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("%w: rewind artifact: %v", ErrSignatureInvalid, seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, file, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return nil
}

// loadKeyring reads the keyring, trying the armored form first.
func (v *SignatureVerifier) loadKeyring() (openpgp.EntityList, error) {
	data, err := os.ReadFile(v.keyringPath)
	if err != nil {
		return nil, err
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}
	return keyring, nil
}

package testutil

import (
	"errors"
	"io"

	"wsnap-go/internal/snap"
	"wsnap-go/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}

// FailingVault rejects every operation. Useful for exercising mirror
// failure paths.
type FailingVault struct{}

func (FailingVault) PutSnapshot(hostID string, id int64, r io.Reader, size int64) error {
	return errors.New("vault unavailable")
}

func (FailingVault) GetSnapshot(hostID string, id int64, w io.Writer) error {
	return errors.New("vault unavailable")
}

func (FailingVault) ValidateSetup() error {
	return errors.New("vault unavailable")
}

var _ snap.Vault = FailingVault{}

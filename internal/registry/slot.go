package registry

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// SlotSeed is the constant prefix mixed into every slot derivation.
	SlotSeed = "username"

	// DefaultProgramID namespaces slot addresses. Two registries with
	// different program ids never share slots.
	DefaultProgramID = "96hG67JxhNEptr1LkdtDcrqvtWiHH3x4GibDBcdh4MYQ"

	maxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"
)

var (
	errSeedTooLong  = errors.New("slot seed exceeds 32 bytes")
	errSlotOnCurve  = errors.New("derived slot lies on the ed25519 curve")
	errNoViableBump = errors.New("unable to find a viable slot bump")
)

// CreateSlot computes the slot address of a canonical username for a known
// bump. It fails when the resulting hash is a valid Ed25519 point, because
// such an address could have a private key.
func CreateSlot(programID Pubkey, canonical string, bump uint8) (Pubkey, error) {
	if len(canonical) > maxSeedLength {
		return Pubkey{}, errSeedTooLong
	}

	h := sha256.New()
	h.Write([]byte(SlotSeed))
	h.Write([]byte(canonical))
	h.Write([]byte{bump})
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var slot Pubkey
	copy(slot[:], h.Sum(nil))

	if isOnCurve(slot[:]) {
		return Pubkey{}, errSlotOnCurve
	}
	return slot, nil
}

// DeriveSlot finds the canonical slot for a username: the first off-curve
// address when trying bumps from 255 down to 0. The bump is returned so it
// can be stored and later used by verifiers with CreateSlot.
func DeriveSlot(programID Pubkey, canonical string) (Pubkey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		slot, err := CreateSlot(programID, canonical, uint8(bump))
		if err == nil {
			return slot, uint8(bump), nil
		}
		if errors.Is(err, errSeedTooLong) {
			return Pubkey{}, 0, err
		}
	}
	return Pubkey{}, 0, errNoViableBump
}

// VerifySlot reports whether claimed is the canonical slot of the username.
func VerifySlot(programID Pubkey, canonical string, claimed Pubkey) (bool, error) {
	slot, _, err := DeriveSlot(programID, canonical)
	if err != nil {
		return false, fmt.Errorf("derive slot: %w", err)
	}
	return slot == claimed, nil
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

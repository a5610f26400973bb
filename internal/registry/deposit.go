package registry

const (
	// RecordSpace is the stored size of one record: discriminator, owner,
	// length-prefixed username, created_at, bump and encryption key.
	RecordSpace = 8 + PubkeySize + 4 + MaxUsernameLength + 8 + 1 + EncryptionKeySize

	// StorageOverhead is charged on top of every slot regardless of size.
	StorageOverhead = 128

	// DefaultDepositRate is the escrow charged per stored byte.
	DefaultDepositRate int64 = 6960
)

// DepositFor returns the escrow needed to keep a slot of the given size alive.
func DepositFor(space int, rate int64) int64 {
	return int64(StorageOverhead+space) * rate
}

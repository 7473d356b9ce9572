package entities

// UserRecord is a registered account. Salt and PasswordHash hold the raw
// bytes of the per-user salt and the derived key; they serialize as base64
// through encoding/json's []byte handling. The plaintext password is never
// stored or logged.
type UserRecord struct {
	Email        string `json:"email"`
	Salt         []byte `json:"salt"`
	PasswordHash []byte `json:"password_hash"`
	Age          *int   `json:"age,omitempty"`
}

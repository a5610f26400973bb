package pb

// Public keys and slot addresses travel as base58 strings, encryption keys
// and signatures as raw bytes, timestamps as unix seconds.

type PingRequest struct{}

func (m *PingRequest) Marshal() ([]byte, error) { return nil, nil }

func (m *PingRequest) Unmarshal(b []byte) error {
	*m = PingRequest{}
	return fields(b, func(field) error { return nil })
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) GetStatus() string {
	if m == nil {
		return ""
	}
	return m.Status
}

func (m *PingResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Status)
	return e.b, nil
}

func (m *PingResponse) Unmarshal(b []byte) error {
	*m = PingResponse{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.Status = f.string()
		}
		return nil
	})
}

type GetChallengeRequest struct {
	PublicKey string
}

func (m *GetChallengeRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.PublicKey)
	return e.b, nil
}

func (m *GetChallengeRequest) Unmarshal(b []byte) error {
	*m = GetChallengeRequest{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.PublicKey = f.string()
		}
		return nil
	})
}

type GetChallengeResponse struct {
	Challenge string
}

func (m *GetChallengeResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Challenge)
	return e.b, nil
}

func (m *GetChallengeResponse) Unmarshal(b []byte) error {
	*m = GetChallengeResponse{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.Challenge = f.string()
		}
		return nil
	})
}

type LoginRequest struct {
	PublicKey string
	Challenge string
	Signature []byte
}

func (m *LoginRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.PublicKey)
	e.string(2, m.Challenge)
	e.bytes(3, m.Signature)
	return e.b, nil
}

func (m *LoginRequest) Unmarshal(b []byte) error {
	*m = LoginRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.PublicKey = f.string()
		case 2:
			m.Challenge = f.string()
		case 3:
			m.Signature = f.bytes()
		}
		return nil
	})
}

type LoginResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *LoginResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.AccessToken)
	e.string(2, m.RefreshToken)
	return e.b, nil
}

func (m *LoginResponse) Unmarshal(b []byte) error {
	*m = LoginResponse{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.AccessToken = f.string()
		case 2:
			m.RefreshToken = f.string()
		}
		return nil
	})
}

type RefreshTokenRequest struct {
	RefreshToken string
}

func (m *RefreshTokenRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.RefreshToken)
	return e.b, nil
}

func (m *RefreshTokenRequest) Unmarshal(b []byte) error {
	*m = RefreshTokenRequest{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.RefreshToken = f.string()
		}
		return nil
	})
}

type RefreshTokenResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *RefreshTokenResponse) GetAccessToken() string {
	if m == nil {
		return ""
	}
	return m.AccessToken
}

func (m *RefreshTokenResponse) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *RefreshTokenResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.AccessToken)
	e.string(2, m.RefreshToken)
	return e.b, nil
}

func (m *RefreshTokenResponse) Unmarshal(b []byte) error {
	*m = RefreshTokenResponse{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.AccessToken = f.string()
		case 2:
			m.RefreshToken = f.string()
		}
		return nil
	})
}

// Record mirrors a stored username record.
type Record struct {
	Slot          string
	Bump          uint32
	Owner         string
	Username      string
	CreatedAt     int64
	EncryptionKey []byte
	Payer         string
	Deposit       int64
}

func (m *Record) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Slot)
	e.uint32(2, m.Bump)
	e.string(3, m.Owner)
	e.string(4, m.Username)
	e.int64(5, m.CreatedAt)
	e.bytes(6, m.EncryptionKey)
	e.string(7, m.Payer)
	e.int64(8, m.Deposit)
	return e.b, nil
}

func (m *Record) Unmarshal(b []byte) error {
	*m = Record{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Slot = f.string()
		case 2:
			m.Bump = f.uint32()
		case 3:
			m.Owner = f.string()
		case 4:
			m.Username = f.string()
		case 5:
			m.CreatedAt = f.int64()
		case 6:
			m.EncryptionKey = f.bytes()
		case 7:
			m.Payer = f.string()
		case 8:
			m.Deposit = f.int64()
		}
		return nil
	})
}

// recordResponse is the shared body of every response that carries a
// single Record in field 1.
type recordResponse struct {
	Record *Record
}

func (m *recordResponse) marshal() ([]byte, error) {
	var e encoder
	if m.Record != nil {
		if err := e.message(1, m.Record); err != nil {
			return nil, err
		}
	}
	return e.b, nil
}

func (m *recordResponse) unmarshal(b []byte) error {
	*m = recordResponse{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.Record = &Record{}
			return m.Record.Unmarshal(f.raw)
		}
		return nil
	})
}

// RegisterUsernameRequest registers Username for the authenticated caller,
// who pays the deposit. Owner, when set, receives the record instead.
type RegisterUsernameRequest struct {
	Username      string
	EncryptionKey []byte
	Owner         string
}

func (m *RegisterUsernameRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.bytes(2, m.EncryptionKey)
	e.string(3, m.Owner)
	return e.b, nil
}

func (m *RegisterUsernameRequest) Unmarshal(b []byte) error {
	*m = RegisterUsernameRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.EncryptionKey = f.bytes()
		case 3:
			m.Owner = f.string()
		}
		return nil
	})
}

type RegisterUsernameResponse struct {
	Record *Record
}

func (m *RegisterUsernameResponse) Marshal() ([]byte, error) {
	return (*recordResponse)(m).marshal()
}

func (m *RegisterUsernameResponse) Unmarshal(b []byte) error {
	return (*recordResponse)(m).unmarshal(b)
}

// LookupUsernameRequest reads a record. Slot is optional; when present the
// server checks it against the address derived from Username.
type LookupUsernameRequest struct {
	Username string
	Slot     string
}

func (m *LookupUsernameRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.string(2, m.Slot)
	return e.b, nil
}

func (m *LookupUsernameRequest) Unmarshal(b []byte) error {
	*m = LookupUsernameRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.Slot = f.string()
		}
		return nil
	})
}

type LookupUsernameResponse struct {
	Record *Record
}

func (m *LookupUsernameResponse) Marshal() ([]byte, error) {
	return (*recordResponse)(m).marshal()
}

func (m *LookupUsernameResponse) Unmarshal(b []byte) error {
	return (*recordResponse)(m).unmarshal(b)
}

type CheckUsernameRequest struct {
	Username string
}

func (m *CheckUsernameRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	return e.b, nil
}

func (m *CheckUsernameRequest) Unmarshal(b []byte) error {
	*m = CheckUsernameRequest{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.Username = f.string()
		}
		return nil
	})
}

type CheckUsernameResponse struct {
	Username  string
	Slot      string
	Available bool
}

func (m *CheckUsernameResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.string(2, m.Slot)
	e.bool(3, m.Available)
	return e.b, nil
}

func (m *CheckUsernameResponse) Unmarshal(b []byte) error {
	*m = CheckUsernameResponse{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.Slot = f.string()
		case 3:
			m.Available = f.bool()
		}
		return nil
	})
}

type TransferUsernameRequest struct {
	Username string
	NewOwner string
}

func (m *TransferUsernameRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.string(2, m.NewOwner)
	return e.b, nil
}

func (m *TransferUsernameRequest) Unmarshal(b []byte) error {
	*m = TransferUsernameRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.NewOwner = f.string()
		}
		return nil
	})
}

type TransferUsernameResponse struct {
	Record *Record
}

func (m *TransferUsernameResponse) Marshal() ([]byte, error) {
	return (*recordResponse)(m).marshal()
}

func (m *TransferUsernameResponse) Unmarshal(b []byte) error {
	return (*recordResponse)(m).unmarshal(b)
}

type UpdateEncryptionKeyRequest struct {
	Username      string
	EncryptionKey []byte
}

func (m *UpdateEncryptionKeyRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.bytes(2, m.EncryptionKey)
	return e.b, nil
}

func (m *UpdateEncryptionKeyRequest) Unmarshal(b []byte) error {
	*m = UpdateEncryptionKeyRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.EncryptionKey = f.bytes()
		}
		return nil
	})
}

type UpdateEncryptionKeyResponse struct {
	Record *Record
}

func (m *UpdateEncryptionKeyResponse) Marshal() ([]byte, error) {
	return (*recordResponse)(m).marshal()
}

func (m *UpdateEncryptionKeyResponse) Unmarshal(b []byte) error {
	return (*recordResponse)(m).unmarshal(b)
}

type CloseAccountRequest struct {
	Username string
}

func (m *CloseAccountRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	return e.b, nil
}

func (m *CloseAccountRequest) Unmarshal(b []byte) error {
	*m = CloseAccountRequest{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			m.Username = f.string()
		}
		return nil
	})
}

type CloseAccountResponse struct {
	RefundTo string
	Refund   int64
}

func (m *CloseAccountResponse) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.RefundTo)
	e.int64(2, m.Refund)
	return e.b, nil
}

func (m *CloseAccountResponse) Unmarshal(b []byte) error {
	*m = CloseAccountResponse{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.RefundTo = f.string()
		case 2:
			m.Refund = f.int64()
		}
		return nil
	})
}

type Event struct {
	Seq       int64
	Id        string
	Kind      string
	Username  string
	Slot      string
	Owner     string
	NewOwner  string
	Actor     string
	Refund    int64
	CreatedAt int64
}

func (m *Event) Marshal() ([]byte, error) {
	var e encoder
	e.int64(1, m.Seq)
	e.string(2, m.Id)
	e.string(3, m.Kind)
	e.string(4, m.Username)
	e.string(5, m.Slot)
	e.string(6, m.Owner)
	e.string(7, m.NewOwner)
	e.string(8, m.Actor)
	e.int64(9, m.Refund)
	e.int64(10, m.CreatedAt)
	return e.b, nil
}

func (m *Event) Unmarshal(b []byte) error {
	*m = Event{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Seq = f.int64()
		case 2:
			m.Id = f.string()
		case 3:
			m.Kind = f.string()
		case 4:
			m.Username = f.string()
		case 5:
			m.Slot = f.string()
		case 6:
			m.Owner = f.string()
		case 7:
			m.NewOwner = f.string()
		case 8:
			m.Actor = f.string()
		case 9:
			m.Refund = f.int64()
		case 10:
			m.CreatedAt = f.int64()
		}
		return nil
	})
}

type ListEventsRequest struct {
	Username string
	AfterSeq int64
	Limit    int64
}

func (m *ListEventsRequest) Marshal() ([]byte, error) {
	var e encoder
	e.string(1, m.Username)
	e.int64(2, m.AfterSeq)
	e.int64(3, m.Limit)
	return e.b, nil
}

func (m *ListEventsRequest) Unmarshal(b []byte) error {
	*m = ListEventsRequest{}
	return fields(b, func(f field) error {
		switch f.num {
		case 1:
			m.Username = f.string()
		case 2:
			m.AfterSeq = f.int64()
		case 3:
			m.Limit = f.int64()
		}
		return nil
	})
}

type ListEventsResponse struct {
	Events []*Event
}

func (m *ListEventsResponse) Marshal() ([]byte, error) {
	var e encoder
	for _, ev := range m.Events {
		if err := e.message(1, ev); err != nil {
			return nil, err
		}
	}
	return e.b, nil
}

func (m *ListEventsResponse) Unmarshal(b []byte) error {
	*m = ListEventsResponse{}
	return fields(b, func(f field) error {
		if f.num == 1 {
			ev := &Event{}
			if err := ev.Unmarshal(f.raw); err != nil {
				return err
			}
			m.Events = append(m.Events, ev)
		}
		return nil
	})
}

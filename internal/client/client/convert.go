package client

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/client/models"
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
)

func parsePubkey(field, s string) (registry.Pubkey, error) {
	p, err := registry.ParsePubkey(s)
	if err != nil {
		return registry.Pubkey{}, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, field, err)
	}
	return p, nil
}

func recordFromProto(r *pb.Record) (*models.Record, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: missing record", ErrMalformedResponse)
	}

	slot, err := parsePubkey("slot", r.Slot)
	if err != nil {
		return nil, err
	}
	owner, err := parsePubkey("owner", r.Owner)
	if err != nil {
		return nil, err
	}
	payer, err := parsePubkey("payer", r.Payer)
	if err != nil {
		return nil, err
	}
	key, err := registry.ParseEncryptionKey(r.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encryption key: %v", ErrMalformedResponse, err)
	}
	if r.Bump > 255 {
		return nil, fmt.Errorf("%w: bump %d", ErrMalformedResponse, r.Bump)
	}

	return &models.Record{
		Slot:          slot,
		Bump:          uint8(r.Bump),
		Owner:         owner,
		Username:      r.Username,
		CreatedAt:     time.Unix(r.CreatedAt, 0).UTC(),
		EncryptionKey: key,
		Payer:         payer,
		Deposit:       r.Deposit,
	}, nil
}

func eventFromProto(e *pb.Event) (*models.Event, error) {
	slot, err := parsePubkey("slot", e.Slot)
	if err != nil {
		return nil, err
	}
	owner, err := parsePubkey("owner", e.Owner)
	if err != nil {
		return nil, err
	}
	actor, err := parsePubkey("actor", e.Actor)
	if err != nil {
		return nil, err
	}

	out := &models.Event{
		Seq:       e.Seq,
		ID:        e.Id,
		Kind:      e.Kind,
		Username:  e.Username,
		Slot:      slot,
		Owner:     owner,
		Actor:     actor,
		Refund:    e.Refund,
		CreatedAt: time.Unix(e.CreatedAt, 0).UTC(),
	}
	if e.NewOwner != "" {
		newOwner, err := parsePubkey("new_owner", e.NewOwner)
		if err != nil {
			return nil, err
		}
		out.NewOwner = &newOwner
	}
	return out, nil
}

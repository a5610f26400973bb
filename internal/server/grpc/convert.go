package grpc

import (
	pb "github.com/dmitrijs2005/keyregistry/internal/proto"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
)

func recordToProto(r *models.Record) *pb.Record {
	return &pb.Record{
		Slot:          r.Slot.String(),
		Bump:          uint32(r.Bump),
		Owner:         r.Owner.String(),
		Username:      r.Username,
		CreatedAt:     r.CreatedAt.Unix(),
		EncryptionKey: r.EncryptionKey.Bytes(),
		Payer:         r.Payer.String(),
		Deposit:       r.Deposit,
	}
}

func eventToProto(e *models.Event) *pb.Event {
	out := &pb.Event{
		Seq:       e.Seq,
		Id:        e.ID,
		Kind:      string(e.Kind),
		Username:  e.Username,
		Slot:      e.Slot.String(),
		Owner:     e.Owner.String(),
		Actor:     e.Actor.String(),
		Refund:    e.Refund,
		CreatedAt: e.CreatedAt.Unix(),
	}
	if e.NewOwner != nil {
		out.NewOwner = e.NewOwner.String()
	}
	return out
}

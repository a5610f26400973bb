package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/keyregistry/internal/common"
	"github.com/dmitrijs2005/keyregistry/internal/registry"
	"github.com/dmitrijs2005/keyregistry/internal/server/models"
	"github.com/go-chi/chi/v5"
)

const healthTimeout = 2 * time.Second

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type configBody struct {
	ProgramID   string `json:"programId"`
	RecordSpace int    `json:"recordSpace"`
	Deposit     int64  `json:"deposit"`
	MinLength   int    `json:"minUsernameLength"`
	MaxLength   int    `json:"maxUsernameLength"`
}

type recordBody struct {
	Username      string                 `json:"username"`
	Slot          registry.Pubkey        `json:"slot"`
	Bump          uint8                  `json:"bump"`
	Owner         registry.Pubkey        `json:"owner"`
	Payer         registry.Pubkey        `json:"payer"`
	EncryptionKey registry.EncryptionKey `json:"encryptionKey"`
	Deposit       int64                  `json:"deposit"`
	CreatedAt     int64                  `json:"createdAt"`
}

type checkBody struct {
	Username  string          `json:"username"`
	Slot      registry.Pubkey `json:"slot"`
	Available bool            `json:"available"`
}

func (s *Server) health(r *http.Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	body := healthBody{Status: "ok", Timestamp: s.now().UTC().Format(time.RFC3339), Database: "up"}
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err.Error())
		body.Status, body.Database = "error", "down"
		return &Response{Status: http.StatusServiceUnavailable, Body: body}, nil
	}
	return &Response{Status: http.StatusOK, Body: body}, nil
}

func (s *Server) config(r *http.Request) (*Response, error) {
	return &Response{Status: http.StatusOK, Body: configBody{
		ProgramID:   s.registry.ProgramID().String(),
		RecordSpace: registry.RecordSpace,
		Deposit:     s.registry.Deposit(),
		MinLength:   registry.MinUsernameLength,
		MaxLength:   registry.MaxUsernameLength,
	}}, nil
}

// lookup returns the record of {name}. An optional ?slot= is checked
// against the derived address.
func (s *Server) lookup(r *http.Request) (*Response, error) {
	var claimed *registry.Pubkey
	if raw := r.URL.Query().Get("slot"); raw != "" {
		slot, err := registry.ParsePubkey(raw)
		if err != nil {
			return nil, ClientErr(http.StatusBadRequest, common.ErrInvalidPublicKey.Error())
		}
		claimed = &slot
	}

	rec, err := s.registry.Lookup(r.Context(), chi.URLParam(r, "name"), claimed)
	if err != nil {
		return nil, mapError(err)
	}
	return &Response{Status: http.StatusOK, Body: toRecordBody(rec)}, nil
}

func (s *Server) check(r *http.Request) (*Response, error) {
	a, err := s.registry.Check(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		return nil, mapError(err)
	}
	return &Response{Status: http.StatusOK, Body: checkBody{Username: a.Username, Slot: a.Slot, Available: a.Available}}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidUsernameLength),
		errors.Is(err, common.ErrInvalidUsernameCharacters),
		errors.Is(err, common.ErrSlotMismatch):
		return ClientErr(http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return ClientErr(http.StatusNotFound, "username not found")
	default:
		return err
	}
}

func toRecordBody(r *models.Record) recordBody {
	return recordBody{
		Username:      r.Username,
		Slot:          r.Slot,
		Bump:          r.Bump,
		Owner:         r.Owner,
		Payer:         r.Payer,
		EncryptionKey: r.EncryptionKey,
		Deposit:       r.Deposit,
		CreatedAt:     r.CreatedAt.Unix(),
	}
}

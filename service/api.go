package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
)

const (
	// DefaultTxPageSize is the page size of LoadTxRecords when none is given
	DefaultTxPageSize = 10
)

// API exposes the wallet backend endpoints on top of a Gateway
type API struct {
	gateway *Gateway
	now     func() time.Time
}

// NewAPI creates a new API
func NewAPI(gateway *Gateway) *API {
	return &API{gateway: gateway, now: time.Now}
}

// Login exchanges a signed timestamp for a credential and stores it for address
func (a *API) Login(ctx context.Context, address string, timestamp int64, signature string) (core.Credential, error) {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body: core.LoginRequest{
			Address:   address,
			Timestamp: timestamp,
			Signature: signature,
		},
	})
	if resp == nil || resp.Status != http.StatusCreated {
		return core.Credential{}, core.ErrAuthorizationFailed
	}

	cred, ok := Unwrap[core.Credential](resp)
	if !ok || cred.AccessToken == "" {
		return core.Credential{}, core.ErrAuthorizationFailed
	}

	if err := a.gateway.SaveCredential(ctx, address, cred); err != nil {
		return core.Credential{}, fmt.Errorf("failed to store credential: %w", err)
	}

	return cred, nil
}

// LoginWithSigner signs the current time with signer and logs its address in
func (a *API) LoginWithSigner(ctx context.Context, signer ports.Signer) (core.Credential, error) {
	timestamp := a.now().UnixMilli()

	signature, err := signer.SignLogin(timestamp)
	if err != nil {
		return core.Credential{}, err
	}

	return a.Login(ctx, signer.Address(), timestamp, signature)
}

// Logout forgets the stored credential of address
func (a *API) Logout(ctx context.Context, address string) error {
	return a.gateway.ClearCredential(ctx, address)
}

// LoadPortalAddress resolves the portal address of a full wallet address
func (a *API) LoadPortalAddress(ctx context.Context, fullAddress string) (string, bool) {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/wallet/address",
		Query:  map[string]string{"address": fullAddress},
	})

	data, ok := Unwrap[struct {
		Address string `json:"address"`
	}](resp)
	if !ok || data.Address == "" {
		return "", false
	}

	return data.Address, true
}

// AddNote attaches a remark to a transaction
func (a *API) AddNote(ctx context.Context, txHash, remark string) error {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/user/txremarks",
		Body:   map[string]string{"txHash": txHash, "remark": remark},
		Auth:   true,
	})
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return fmt.Errorf("add note %s: %w", txHash, err)
	}
	return nil
}

// AddContact stores a contact
func (a *API) AddContact(ctx context.Context, contact core.Contact) error {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/user/contacts",
		Body:   contact,
		Auth:   true,
	})
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return fmt.Errorf("add contact %q: %w", contact.Address, err)
	}
	return nil
}

// DeleteContact removes a contact
func (a *API) DeleteContact(ctx context.Context, contactID int64) error {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/user/contacts/" + strconv.FormatInt(contactID, 10),
		Auth:   true,
	})
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return fmt.Errorf("delete contact %d: %w", contactID, err)
	}
	return nil
}

// LoadContacts lists the contacts of the connected wallet. Failures yield an empty list.
func (a *API) LoadContacts(ctx context.Context) []core.Contact {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/user/contacts",
		Auth:   true,
	})
	if resp == nil || resp.Status != http.StatusOK {
		return []core.Contact{}
	}

	contacts, ok := Unwrap[[]core.Contact](resp)
	if !ok {
		return []core.Contact{}
	}
	return contacts
}

// TxQuery pages through the transaction history of a lock
type TxQuery struct {
	LockHash  string
	LastHash  string
	Size      int
	Direction core.TxDirection
}

// LoadTxRecords lists transactions. Failures yield an empty list.
func (a *API) LoadTxRecords(ctx context.Context, q TxQuery) []core.TxRecord {
	if q.Size <= 0 {
		q.Size = DefaultTxPageSize
	}
	if q.Direction == "" {
		q.Direction = core.TxDirectionAll
	}

	query := map[string]string{
		"lockHash":  q.LockHash,
		"size":      strconv.Itoa(q.Size),
		"direction": string(q.Direction),
	}
	if q.LastHash != "" {
		query["lastHash"] = q.LastHash
	}

	records, ok := Unwrap[[]core.TxRecord](a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/cell/txList",
		Query:  query,
		Auth:   true,
	}))
	if !ok {
		return []core.TxRecord{}
	}
	return records
}

// LoadDao returns the Nervos DAO statistics of a lock
func (a *API) LoadDao(ctx context.Context, lockHash string) (core.DaoSummary, error) {
	stats, ok := Unwrap[core.DaoStats](a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/dao/stats",
		Query:  map[string]string{"lockHash": lockHash},
	}))
	if !ok {
		return core.DaoSummary{}, core.ErrNoResult
	}

	return stats.Summary()
}

// LoadSwapConfig returns the swap configuration
func (a *API) LoadSwapConfig(ctx context.Context) (core.SwapConfig, bool) {
	return Unwrap[core.SwapConfig](a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/swap/config",
	}))
}

// LoadSwapRates returns the current token rates
func (a *API) LoadSwapRates(ctx context.Context) (core.SwapRates, bool) {
	return Unwrap[core.SwapRates](a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/swap/tokenRate",
	}))
}

// LoadSwapTxs pages through the swaps of address. A zero lastID starts from the newest.
func (a *API) LoadSwapTxs(ctx context.Context, address string, size int, lastID int64) []core.SwapTX {
	query := map[string]string{
		"address": address,
		"size":    strconv.Itoa(size),
	}
	if lastID != 0 {
		query["lastId"] = strconv.FormatInt(lastID, 10)
	}

	txs, ok := Unwrap[[]core.SwapTX](a.gateway.Request(ctx, Request{
		Method: http.MethodGet,
		Path:   "/swap/transactions",
		Query:  query,
	}))
	if !ok {
		return []core.SwapTX{}
	}
	return txs
}

// SubmitPendingSwap reports a swap transaction that was just sent
func (a *API) SubmitPendingSwap(ctx context.Context, swap core.PendingSwap) (*Response, bool) {
	resp := a.gateway.Request(ctx, Request{
		Method: http.MethodPost,
		Path:   "/swap/submitPendingSwap",
		Body:   swap,
	})
	return resp, resp != nil
}

func expectStatus(resp *Response, status int) error {
	if resp == nil {
		return core.ErrNoResult
	}
	if resp.Status != status {
		return fmt.Errorf("%w: %d", core.ErrUnexpectedStatus, resp.Status)
	}
	return nil
}

package guestwallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/tdex-network/token-launcher/pkg/ftcontract"
	"github.com/tdex-network/token-launcher/pkg/near"
	"golang.org/x/sync/errgroup"
)

const (
	// CacheFile is the name of the guests cache file.
	CacheFile = "guests.json"

	defaultGas       = uint64(100000000000000)
	reconcileWorkers = 4
)

var usernameRegexp = regexp.MustCompile(`^[a-z0-9]+([-_][a-z0-9]+)*$`)

// Ledger is the subset of the ledger client used by the wallet.
// *near.Client satisfies it.
type Ledger interface {
	FunctionCall(
		ctx context.Context, signer near.Signer, contractID, method string,
		args interface{}, gas uint64, deposit *big.Int,
	) (*near.ExecutionOutcome, error)
	ViewFunction(
		ctx context.Context, contractID, method string, args interface{},
	) ([]byte, error)
	ViewAccessKey(
		ctx context.Context, accountID string, pk near.PublicKey,
	) (*near.AccessKeyView, error)
	AccountExists(ctx context.Context, accountID string) (bool, error)
}

type Config struct {
	Datadir  string
	Password string
	// TokenID is the token contract guests belong to.
	TokenID string
	// SponsorID is the account holding the guest keys, guests.<owner>.
	SponsorID string
	Gas       uint64
	Ledger    Ledger
	Gateway   Gateway
}

func (c Config) validate() error {
	if len(c.Datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}
	if len(c.Password) <= 0 {
		return ErrNullPassword
	}
	if len(c.TokenID) <= 0 {
		return fmt.Errorf("missing token id")
	}
	if len(c.SponsorID) <= 0 {
		return fmt.Errorf("missing sponsor account id")
	}
	if c.Ledger == nil {
		return fmt.Errorf("missing ledger")
	}
	if c.Gateway == nil {
		return fmt.Errorf("missing gateway")
	}
	return nil
}

// Wallet keeps the guest accounts of a user in an encrypted file cache. The
// cache is never trusted blindly: Load checks every entry against the
// ledger.
type Wallet struct {
	cfg     Config
	lock    *sync.Mutex
	entries map[string]Entry
}

func New(cfg Config) (*Wallet, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Gas == 0 {
		cfg.Gas = defaultGas
	}
	return &Wallet{
		cfg:     cfg,
		lock:    &sync.Mutex{},
		entries: make(map[string]Entry),
	}, nil
}

func (w *Wallet) cachePath() string {
	return filepath.Join(w.cfg.Datadir, CacheFile)
}

// Load reads the cache file and reconciles every entry with the ledger.
// Entries the ledger doesn't recognize anymore are flagged as stale, never
// dropped. The reconciled view is written back to disk.
func (w *Wallet) Load(ctx context.Context) ([]Entry, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	entries, err := w.readCache()
	if err != nil {
		return nil, err
	}

	lock := &sync.Mutex{}
	reconciled := make(map[string]Entry, len(entries))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(reconcileWorkers)
	for _, e := range entries {
		e := e
		eg.Go(func() error {
			entry, err := w.reconcile(ctx, e)
			if err != nil {
				return fmt.Errorf("failed to reconcile %s: %w", e.AccountID, err)
			}
			lock.Lock()
			reconciled[entry.AccountID] = entry
			lock.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	w.entries = reconciled
	if err := w.writeCache(); err != nil {
		return nil, err
	}
	return w.list(), nil
}

// List returns the entries loaded in memory without querying the ledger.
func (w *Wallet) List() []Entry {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.list()
}

// SeedPhrase returns the decrypted seed phrase of a cached entry.
func (w *Wallet) SeedPhrase(accountID string) (string, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	entry, ok := w.entries[accountID]
	if !ok {
		return "", ErrGuestNotFound
	}
	return Decrypt(entry.SeedPhrase, w.cfg.Password)
}

// Create onboards the guest <username>.<token id> through the gateway with a
// freshly generated key, then caches it.
func (w *Wallet) Create(ctx context.Context, username string) (*Entry, error) {
	if !usernameRegexp.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	accountID := fmt.Sprintf("%s.%s", username, w.cfg.TokenID)

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.entries[accountID]; ok {
		return nil, ErrGuestAlreadyCached
	}
	exists, err := w.cfg.Ledger.AccountExists(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountTaken
	}

	seed, err := near.GenerateSeedPhrase()
	if err != nil {
		return nil, err
	}
	encryptedSeed, err := Encrypt(seed.Phrase, w.cfg.Password)
	if err != nil {
		return nil, err
	}
	publicKey := seed.KeyPair.PublicKey().String()

	if err := w.cfg.Gateway.AddGuest(
		ctx, w.cfg.TokenID, accountID, publicKey,
	); err != nil {
		return nil, err
	}

	entry := Entry{
		AccountID:  accountID,
		PublicKey:  publicKey,
		SeedPhrase: encryptedSeed,
		Balance:    "0",
		Created:    time.Now().Unix(),
	}
	w.entries[accountID] = entry
	if err := w.writeCache(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ClaimDrop claims the token drop for the guest.
func (w *Wallet) ClaimDrop(
	ctx context.Context, accountID string,
) (*near.ExecutionOutcome, error) {
	signer, err := w.guestSigner(accountID)
	if err != nil {
		return nil, err
	}
	return w.cfg.Ledger.FunctionCall(
		ctx, signer, w.cfg.TokenID, ftcontract.MethodClaimDrop,
		struct{}{}, w.cfg.Gas, big.NewInt(0),
	)
}

// TransferAsGuest sends tokens from the guest balance to receiverID.
func (w *Wallet) TransferAsGuest(
	ctx context.Context, accountID, receiverID, amount, memo string,
) (*near.ExecutionOutcome, error) {
	if _, err := near.ParseU128(amount); err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	signer, err := w.guestSigner(accountID)
	if err != nil {
		return nil, err
	}
	return w.cfg.Ledger.FunctionCall(
		ctx, signer, w.cfg.TokenID, ftcontract.MethodFtTransferGuest,
		ftcontract.TransferArgs{
			ReceiverID: receiverID, Amount: amount, Memo: memo,
		},
		w.cfg.Gas, big.NewInt(0),
	)
}

// Predecessor returns the account the token contract attributes the calls
// signed with the guest key to.
func (w *Wallet) Predecessor(ctx context.Context, accountID string) (string, error) {
	signer, err := w.guestSigner(accountID)
	if err != nil {
		return "", err
	}
	outcome, err := w.cfg.Ledger.FunctionCall(
		ctx, signer, w.cfg.TokenID, ftcontract.MethodGetPredecessor,
		struct{}{}, w.cfg.Gas, big.NewInt(0),
	)
	if err != nil {
		return "", err
	}
	var predecessor string
	if err := outcome.DecodeValue(&predecessor); err != nil {
		return "", err
	}
	return predecessor, nil
}

// Upgrade turns the guest into a regular account. confirm receives the
// seed phrase of the new full access key and must return true, meaning the
// user stored it, before anything is sent to the ledger. On success the
// entry switches to a restricted access key of the upgraded account. On
// failure the cache is left untouched.
func (w *Wallet) Upgrade(
	ctx context.Context, accountID string, confirm func(seedPhrase string) bool,
) (*near.ExecutionOutcome, error) {
	signer, err := w.guestSigner(accountID)
	if err != nil {
		return nil, err
	}

	fullKey, err := near.GenerateSeedPhrase()
	if err != nil {
		return nil, err
	}
	accessKey, err := near.GenerateSeedPhrase()
	if err != nil {
		return nil, err
	}
	if confirm == nil || !confirm(fullKey.Phrase) {
		return nil, ErrUpgradeNotConfirmed
	}
	encryptedSeed, err := Encrypt(accessKey.Phrase, w.cfg.Password)
	if err != nil {
		return nil, err
	}

	outcome, err := w.cfg.Ledger.FunctionCall(
		ctx, signer, w.cfg.TokenID, ftcontract.MethodUpgradeGuest,
		ftcontract.UpgradeGuestArgs{
			PublicKey:   fullKey.KeyPair.PublicKey().String(),
			AccessKey:   accessKey.KeyPair.PublicKey().String(),
			MethodNames: ftcontract.JoinedChangeMethods(),
		},
		w.cfg.Gas, big.NewInt(0),
	)
	if err != nil {
		return nil, err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	// The guest might have been removed while the upgrade was in flight.
	entry, ok := w.entries[accountID]
	if !ok {
		return nil, ErrGuestNotFound
	}
	entry.PublicKey = accessKey.KeyPair.PublicKey().String()
	entry.SeedPhrase = encryptedSeed
	entry.Upgraded = true
	w.entries[accountID] = entry
	if err := w.writeCache(); err != nil {
		return nil, err
	}
	return outcome, nil
}

// Remove asks the gateway to remove the guest from the registry and drops
// the entry. Upgraded accounts are not in the registry anymore and are only
// dropped from the cache.
func (w *Wallet) Remove(ctx context.Context, accountID string) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	entry, ok := w.entries[accountID]
	if !ok {
		return ErrGuestNotFound
	}
	if !entry.Upgraded {
		if err := w.cfg.Gateway.RemoveGuest(
			ctx, w.cfg.TokenID, entry.PublicKey,
		); err != nil {
			return err
		}
	}

	delete(w.entries, accountID)
	return w.writeCache()
}

func (w *Wallet) guestSigner(accountID string) (near.Signer, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	entry, ok := w.entries[accountID]
	if !ok {
		return near.Signer{}, ErrGuestNotFound
	}
	if err := entry.canSignAsGuest(); err != nil {
		return near.Signer{}, err
	}
	key, err := w.keyPair(entry)
	if err != nil {
		return near.Signer{}, err
	}
	return near.Signer{AccountID: w.cfg.SponsorID, Key: key}, nil
}

func (w *Wallet) keyPair(entry Entry) (*near.KeyPair, error) {
	phrase, err := Decrypt(entry.SeedPhrase, w.cfg.Password)
	if err != nil {
		return nil, err
	}
	return near.KeyPairFromSeedPhrase(phrase)
}

// reconcile checks the entry against the ledger and refreshes its balance.
func (w *Wallet) reconcile(ctx context.Context, entry Entry) (Entry, error) {
	valid, err := w.isValid(ctx, entry)
	if err != nil {
		return entry, err
	}
	entry.Stale = !valid
	if !valid {
		return entry, nil
	}

	raw, err := w.cfg.Ledger.ViewFunction(
		ctx, w.cfg.TokenID, ftcontract.MethodFtBalanceOf,
		ftcontract.AccountArgs{AccountID: entry.AccountID},
	)
	if err != nil {
		if near.IsContractPanic(err, ftcontract.ErrNotRegistered) {
			entry.Balance = "0"
			return entry, nil
		}
		return entry, err
	}
	var balance string
	if err := json.Unmarshal(raw, &balance); err != nil {
		return entry, fmt.Errorf("invalid balance: %w", err)
	}
	entry.Balance = balance
	return entry, nil
}

func (w *Wallet) isValid(ctx context.Context, entry Entry) (bool, error) {
	if entry.Upgraded {
		pk, err := near.ParsePublicKey(entry.PublicKey)
		if err != nil {
			return false, nil
		}
		if _, err := w.cfg.Ledger.ViewAccessKey(ctx, entry.AccountID, pk); err != nil {
			if near.IsUnknownAccessKey(err) || near.IsUnknownAccount(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	raw, err := w.cfg.Ledger.ViewFunction(
		ctx, w.cfg.TokenID, ftcontract.MethodGetGuest,
		ftcontract.PublicKeyArgs{PublicKey: entry.PublicKey},
	)
	if err != nil {
		if near.IsContractPanic(err, ftcontract.ErrNoGuest) {
			return false, nil
		}
		return false, err
	}
	var accountID string
	if err := json.Unmarshal(raw, &accountID); err != nil {
		return false, nil
	}
	return accountID == entry.AccountID, nil
}

func (w *Wallet) list() []Entry {
	entries := make([]Entry, 0, len(w.entries))
	for _, e := range w.entries {
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Created == entries[j].Created {
			return entries[i].AccountID < entries[j].AccountID
		}
		return entries[i].Created < entries[j].Created
	})
	return entries
}

func (w *Wallet) readCache() ([]Entry, error) {
	buf, err := os.ReadFile(w.cachePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(buf) <= 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(buf, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", CacheFile, err)
	}
	return entries, nil
}

func (w *Wallet) writeCache() error {
	buf, err := json.MarshalIndent(w.list(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.cfg.Datadir, 0700); err != nil {
		return err
	}
	return os.WriteFile(w.cachePath(), buf, 0600)
}

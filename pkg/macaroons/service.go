package macaroons

/*
Modified from https://github.com/lightningnetwork/lnd/blob/master/macaroons/service.go
Original Copyright 2017 Olaoluwa Osuntokun. All Rights Reserved. See LICENSE-MACAROON-LND for licensing terms.
*/

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"gopkg.in/macaroon-bakery.v2/bakery"
	macaroon "gopkg.in/macaroon.v2"
)

// Service bakes and validates macaroons with root keys kept in a
// RootKeyStore.
type Service struct {
	*bakery.Bakery
	rks *RootKeyStore
}

// NewService returns a service whose root keys are stored in dbDir (in
// memory when empty). location is the hint put in baked macaroons.
func NewService(
	dbDir, location string, logger badger.Logger,
) (*Service, error) {
	rks, err := NewRootKeyStore(dbDir, logger)
	if err != nil {
		return nil, err
	}

	svc := bakery.New(bakery.BakeryParams{
		Location:     location,
		RootKeyStore: rks,
		// No third-party caveat support for now.
		Locator: nil,
		Key:     nil,
	})

	return &Service{svc, rks}, nil
}

// NewMacaroon bakes a macaroon granting the given operations and returns it
// binary serialized.
func (s *Service) NewMacaroon(
	ctx context.Context, ops ...bakery.Op,
) ([]byte, error) {
	mac, err := s.Oven.NewMacaroon(ctx, bakery.LatestVersion, nil, ops...)
	if err != nil {
		return nil, err
	}
	return mac.M().MarshalBinary()
}

// ValidateMacaroon checks that the serialized macaroon is authentic and
// grants all the required operations.
func (s *Service) ValidateMacaroon(
	ctx context.Context, macBytes []byte, requiredOps []bakery.Op,
) error {
	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macBytes); err != nil {
		return fmt.Errorf("failed to parse macaroon: %w", err)
	}

	authChecker := s.Checker.Auth(macaroon.Slice{mac})
	if _, err := authChecker.Allow(ctx, requiredOps...); err != nil {
		return fmt.Errorf("macaroon not allowed: %w", err)
	}
	return nil
}

func (s *Service) Close() error {
	return s.rks.Close()
}

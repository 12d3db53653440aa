package httpinterface

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tdex-network/token-launcher/internal/interfaces/http/permissions"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	// Location is used as the macaroon's location hint. This is not verified as
	// part of the macaroons itself.
	Location = "launcherd"
	// AdminMacaroonFile is the name of the admin macaroon.
	AdminMacaroonFile = "admin.macaroon"
	// ReadOnlyMacaroonFile is the name of the read-only macaroon.
	ReadOnlyMacaroonFile = "readonly.macaroon"

	macaroonsDBLocation = "db"
)

var Macaroons = map[string][]bakery.Op{
	AdminMacaroonFile:    permissions.AdminPermissions(),
	ReadOnlyMacaroonFile: permissions.ReadOnlyPermissions(),
}

// genMacaroons bakes the admin and read-only macaroons into datadir, unless
// they already exist.
func genMacaroons(
	ctx context.Context, svc *macaroons.Service, datadir string,
) error {
	adminMacFile := filepath.Join(datadir, AdminMacaroonFile)
	roMacFile := filepath.Join(datadir, ReadOnlyMacaroonFile)
	if pathExists(adminMacFile) || pathExists(roMacFile) {
		return nil
	}

	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}

	for macFilename, macPermissions := range Macaroons {
		macBytes, err := svc.NewMacaroon(ctx, macPermissions...)
		if err != nil {
			return err
		}
		macFile := filepath.Join(datadir, macFilename)
		perms := fs.FileMode(0644)
		if macFilename == AdminMacaroonFile {
			perms = 0600
		}
		if err := os.WriteFile(macFile, macBytes, perms); err != nil {
			os.Remove(macFile)
			return err
		}
	}

	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if pathExists(path) {
		return nil
	}
	return os.MkdirAll(path, os.ModeDir|0755)
}

func pathExists(path string) bool {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

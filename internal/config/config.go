package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
	"github.com/tdex-network/token-launcher/pkg/near"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ListeningPortKey is the port where the HTTP gateway will listen on
	ListeningPortKey = "LISTENING_PORT"
	// NetworkIDKey is the id of the ledger network, ie. testnet or mainnet
	NetworkIDKey = "NETWORK_ID"
	// NodeURLKey is the JSON-RPC endpoint of the ledger node
	NodeURLKey = "NODE_URL"
	// OwnerAccountIDKey is the account owning launched tokens and paying for
	// guest onboarding
	OwnerAccountIDKey = "OWNER_ACCOUNT_ID"
	// CredentialsDirKey is the directory containing the owner credentials file,
	// <dir>/<network>/<account>.json
	CredentialsDirKey = "CREDENTIALS_DIR"
	// GuestsAccountSecretKey is the secret key of the guest sponsor account
	// guests.<owner>
	GuestsAccountSecretKey = "GUESTS_ACCOUNT_SECRET"
	// TokenWasmPathKey is the path of the fungible token contract bytecode
	// deployed to every launched token account
	TokenWasmPathKey = "TOKEN_WASM_PATH"
	// FactoryAccountIDKey, if set, makes token launches go through the
	// create_token method of a factory contract instead of deploying directly
	FactoryAccountIDKey = "FACTORY_ACCOUNT_ID"
	// DefaultTokenIDKey is the token used when requests don't specify one
	DefaultTokenIDKey = "DEFAULT_TOKEN_ID"
	// GasKey is the gas attached to every function call
	GasKey = "GAS"
	// MinAttachedBalanceKey is the amount (in NEAR) funding a new token account
	MinAttachedBalanceKey = "MIN_ATTACHED_BALANCE"
	// GuestKeyAllowanceKey is the gas allowance (in NEAR) of guest access keys
	GuestKeyAllowanceKey = "GUEST_KEY_ALLOWANCE"
	// RPCTimeoutKey is the timeout of a single request to the ledger node
	RPCTimeoutKey = "RPC_TIMEOUT"
	// RPCRateLimitKey is the max number of requests per second sent to the
	// ledger node, 0 means unlimited
	RPCRateLimitKey = "RPC_RATE_LIMIT"
	// AccessKeyMaxBlockAgeKey is how many blocks an access key proof stays valid
	AccessKeyMaxBlockAgeKey = "ACCESS_KEY_MAX_BLOCK_AGE"
	// NoMacaroonsKey is used to start the daemon without using macaroons auth
	// service.
	NoMacaroonsKey = "NO_MACAROONS"
	// CORSAllowedOriginsKey is the list of origins allowed by the gateway
	CORSAllowedOriginsKey = "CORS_ALLOWED_ORIGINS"
	// MaxConnectionsKey caps concurrent connections to the gateway, 0 means
	// no limit
	MaxConnectionsKey = "MAX_CONNECTIONS"
	// EnableTLSKey serves the gateway over TLS with a self-signed certificate
	EnableTLSKey = "ENABLE_TLS"
	// TLSExtraIPsKey are the extra ips added to the TLS certificate
	TLSExtraIPsKey = "TLS_EXTRA_IPS"
	// TLSExtraDomainsKey are the extra domains added to the TLS certificate
	TLSExtraDomainsKey = "TLS_EXTRA_DOMAINS"
	// StatsIntervalKey is the interval in seconds for logging memory
	// statistics, 0 disables them
	StatsIntervalKey = "STATS_INTERVAL"
	// DBInMemoryKey keeps intents, tokens and guests in memory only
	DBInMemoryKey = "DB_IN_MEMORY"

	DbLocation        = "db"
	MacaroonsLocation = "macaroons"
	PubSubLocation    = "pubsub"
	TLSLocation       = "tls"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("launcherd", false)
	defaultCredDir = filepath.Join(homeDir(), ".near-credentials")
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("LAUNCHER")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ListeningPortKey, 3000)
	vip.SetDefault(NetworkIDKey, "testnet")
	vip.SetDefault(NodeURLKey, "https://rpc.testnet.near.org")
	vip.SetDefault(CredentialsDirKey, defaultCredDir)
	vip.SetDefault(GasKey, uint64(200000000000000))
	vip.SetDefault(MinAttachedBalanceKey, "5")
	vip.SetDefault(GuestKeyAllowanceKey, "0.1")
	vip.SetDefault(RPCTimeoutKey, 30*time.Second)
	vip.SetDefault(RPCRateLimitKey, 0)
	vip.SetDefault(AccessKeyMaxBlockAgeKey, 100)
	vip.SetDefault(NoMacaroonsKey, false)
	vip.SetDefault(CORSAllowedOriginsKey, []string{"*"})
	vip.SetDefault(MaxConnectionsKey, 0)
	vip.SetDefault(EnableTLSKey, false)
	vip.SetDefault(DBInMemoryKey, false)
	vip.SetDefault(StatsIntervalKey, 0)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetCredentialsFile returns the path of the owner credentials file.
func GetCredentialsFile() string {
	return filepath.Join(
		GetString(CredentialsDirKey), GetString(NetworkIDKey),
		GetString(OwnerAccountIDKey)+".json",
	)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if len(GetString(OwnerAccountIDKey)) <= 0 {
		return fmt.Errorf("missing owner account id")
	}

	if len(GetString(GuestsAccountSecretKey)) <= 0 {
		return fmt.Errorf("missing guests account secret")
	}
	if _, err := near.ParseKeyPair(GetString(GuestsAccountSecretKey)); err != nil {
		return fmt.Errorf("invalid guests account secret: %s", err)
	}

	if len(GetString(FactoryAccountIDKey)) <= 0 {
		wasmPath := GetString(TokenWasmPathKey)
		if len(wasmPath) <= 0 {
			return fmt.Errorf(
				"one between token wasm path and factory account id must be defined",
			)
		}
		if _, err := os.Stat(wasmPath); err != nil {
			return fmt.Errorf("token wasm file not found: %s", err)
		}
	}

	for _, key := range []string{MinAttachedBalanceKey, GuestKeyAllowanceKey} {
		if _, err := near.ParseNearAmount(GetString(key)); err != nil {
			return fmt.Errorf("invalid %s: %s", strings.ToLower(key), err)
		}
	}

	if GetUint64(GasKey) <= 0 {
		return fmt.Errorf("gas must be a positive number")
	}

	if GetInt(AccessKeyMaxBlockAgeKey) <= 0 {
		return fmt.Errorf("access key max block age must be a positive number")
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, PubSubLocation)); err != nil {
		return err
	}

	noMacaroons := GetBool(NoMacaroonsKey)
	if !noMacaroons {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, MacaroonsLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

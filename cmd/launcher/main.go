package main

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/token-launcher/pkg/macaroons"
	"github.com/urfave/cli/v2"
)

var (
	launcherDataDir = btcutil.AppDataDir("launcher-cli", false)
	statePath       = filepath.Join(launcherDataDir, "state.json")

	errMissingRPCServer = errors.New("set rpcserver with `config set rpcserver <url>`")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "launcher"
	app.Usage = "Command line interface for launcherd operators and guests"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&tokenCmd,
		&guestCmd,
		&intentCmd,
		&webhookCmd,
		&walletCmd,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}
	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(launcherDataDir, os.ModeDir|0755); err != nil {
		return err
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}
	mergedData := merge(currentData, data)

	buf, err := json.MarshalIndent(mergedData, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, buf, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

// client sends requests to the gateway of the daemon.
type client struct {
	url      string
	macaroon []byte
	http     *http.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	return newClient(state)
}

func newClient(state map[string]string) (*client, error) {
	url := state["rpcserver"]
	if len(url) <= 0 {
		return nil, errMissingRPCServer
	}

	var macBytes []byte
	if macPath := state["macaroon"]; len(macPath) > 0 {
		mac, err := macaroons.ReadMacaroonFile(cleanAndExpandPath(macPath))
		if err != nil {
			return nil, err
		}
		macBytes = mac
	}

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	if certPath := state["tls_cert_path"]; len(certPath) > 0 {
		cert, err := os.ReadFile(cleanAndExpandPath(certPath))
		if err != nil {
			return nil, fmt.Errorf("failed to read TLS certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(cert) {
			return nil, fmt.Errorf("invalid TLS certificate")
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		}
	}

	return &client{strings.TrimSuffix(url, "/"), macBytes, httpClient}, nil
}

func (c *client) post(path string, body interface{}) (json.RawMessage, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, path, bytes.NewReader(buf))
}

func (c *client) get(path string) (json.RawMessage, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) delete(path string) (json.RawMessage, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *client) do(method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequest(method, c.url+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(c.macaroon) > 0 {
		macaroons.SetHeader(req, c.macaroon)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var res struct {
		Success bool            `json:"success"`
		Error   string          `json:"error"`
		E       json.RawMessage `json:"e"`
		Intent  string          `json:"intent"`
	}
	if err := json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("daemon replied with status %d", resp.StatusCode)
	}
	if !res.Success {
		msg := res.Error
		if len(res.Intent) > 0 {
			msg = fmt.Sprintf("%s (intent %s)", msg, res.Intent)
		}
		return nil, errors.New(msg)
	}
	return buf, nil
}

func printRespJSON(resp json.RawMessage) {
	var out bytes.Buffer
	if err := json.Indent(&out, resp, "", "\t"); err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(out.String())
}

func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[launcher] %v\n", err)
	}
	os.Exit(1)
}

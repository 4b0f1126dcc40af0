package gamesense

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// coreProps is the address file SteelSeries Engine / GG writes on startup.
type coreProps struct {
	Address            string `json:"address"`
	EncryptedAddress   string `json:"encryptedAddress"`
	GGEncryptedAddress string `json:"ggEncryptedAddress"`
}

// corePropsPaths lists the locations coreProps.json shows up in, newest
// product first.
func corePropsPaths() []string {
	var paths []string
	if pd := os.Getenv("PROGRAMDATA"); pd != "" {
		paths = append(paths,
			filepath.Join(pd, "SteelSeries", "SteelSeries Engine 3", "coreProps.json"),
			filepath.Join(pd, "SteelSeries", "GG", "coreProps.json"),
		)
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(cfg, "SteelSeries", "SteelSeries Engine 3", "coreProps.json"))
	}
	return append(paths, "coreProps.json")
}

// fallbackAddrs are probed when no coreProps.json resolves.
var fallbackAddrs = []string{
	"http://127.0.0.1:50647",
	"http://127.0.0.1:51765",
	"http://127.0.0.1:3001",
}

// Discover finds a responding GameSense server. Candidate addresses come
// from every readable coreProps.json plus the common localhost ports; the
// first one answering GET /game_metadata wins.
func Discover() (string, error) {
	var candidates []string
	for _, p := range corePropsPaths() {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var props coreProps
		if err := json.Unmarshal(data, &props); err != nil {
			continue
		}
		for _, addr := range []string{props.Address, props.EncryptedAddress, props.GGEncryptedAddress} {
			if addr != "" {
				candidates = append(candidates, "http://"+addr)
			}
		}
	}
	candidates = append(candidates, fallbackAddrs...)

	for _, url := range candidates {
		if Probe(url) {
			return url, nil
		}
	}
	return "", fmt.Errorf("no responding gamesense server among %d candidates", len(candidates))
}

// Probe checks whether a GameSense server answers at url. 405 counts as
// alive: some builds reject GET on /game_metadata but are otherwise up.
func Probe(url string) bool {
	r := resty.New().SetTimeout(2 * time.Second)
	resp, err := r.R().Get(url + "/game_metadata")
	if err != nil {
		return false
	}
	return resp.StatusCode() == 200 || resp.StatusCode() == 405
}

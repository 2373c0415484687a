package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"
)

var HomeDir = os.Getenv("HOME")
var ConfigLocation = HomeDir + "/.gsum.conf"

// DatabaseLocation overrides the config file when set (the --database flag)
var DatabaseLocation string

type ConfigData struct {
	DatabaseLocation       string   `json:"database_location"`
	NumHasherThreads       int      `json:"num_hasher_threads"`
	IgnorePermissionErrors bool     `json:"ignore_permission_errors"`
	SkipHashFailures       bool     `json:"skip_hash_failures"`
	ExcludePrefixes        []string `json:"exclude_prefixes"`
}

var config = ConfigData{
	DatabaseLocation: HomeDir + "/.gsum.db",
	NumHasherThreads: 4,
}

var loadOnce sync.Once

// Config loads ~/.gsum.conf the first time anything asks for it. Hashing
// stdin shouldn't require a config file to exist, so nothing happens at init
// and a missing file just means defaults.
func Config() ConfigData {
	loadOnce.Do(load)
	return config
}

func load() {
	data, err := os.ReadFile(ConfigLocation)
	if err != nil {
		// no config file, the defaults are fine for everything except maybe
		// where the database goes, and --database covers that
		return
	}
	if len(data) == 0 {
		log.Println("Empty config file. Filling in with defaults!")
		saveConfig()
		return
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		log.Println("Error while loading config file!")
		panic(err)
	}
	sanity()
}

func sanity() {
	if config.NumHasherThreads < 1 {
		panic("NumHasherThreads must be at least 1")
	}
	if config.DatabaseLocation == "" {
		panic("DatabaseLocation must not be empty")
	}
}

func saveConfig() {
	data, err := json.Marshal(config)
	if err != nil {
		panic(err) // impossible. marshal only errors on unrepresentatable datatypes like chan and func
	}
	err = os.WriteFile(ConfigLocation, data, 0644)
	if err != nil {
		// possible
		log.Println("Error while writing config file!")
		panic(err)
	}
}

// ExcludeFromScan says whether the walker should pretend this path doesn't
// exist. The scan root itself always wins over an exclude, asking to scan a
// directory means you want it scanned.
func ExcludeFromScan(scanRoot string, path string) bool {
	for _, prefix := range Config().ExcludePrefixes {
		if strings.HasPrefix(path, prefix) && !strings.HasPrefix(scanRoot, prefix) {
			return true
		}
	}
	return false
}

// SetTestConfig points the config at a throwaway database and resets the
// rest to defaults, for tests
func SetTestConfig(dbPath string) {
	loadOnce.Do(func() {}) // make sure load() never stomps what we set here
	config = ConfigData{
		DatabaseLocation: dbPath,
		NumHasherThreads: 2,
	}
}

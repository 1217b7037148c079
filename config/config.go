package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultExportsSubDir = "exports"
	DefaultStripsSubDir  = "stripped"
)

const (
	defaultListenAddr    = ":8080"
	defaultBatchWorkers  = 4
	defaultBatchQueue    = 4096
	defaultEntropyChunk  = 1024
	defaultMinStringLen  = 4
	defaultChecksumBlock = 64 * 1024
)

type Config struct {
	// HTTP listen address
	ListenAddr string

	// catalog database path (sqlite)
	DatabasePath string

	// storage configuration for generated artifacts
	StoragePath string // primary root for exports and stripped copies
	ExportsPath string // full-calculated path for export files
	StripsPath  string // full-calculated path for stripped copies

	// batch processor settings
	BatchWorkers   int
	BatchQueueSize int

	// analysis defaults
	EntropyChunkSize int
	MinStringLength  int
	ChecksumBlock    int

	// logging
	LogLevel string
	LogFile  string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "filescope.db")

	storage := getEnvOrDefault("STORAGE_PATH", filepath.Join(".", "filescope_storage"))
	absStorage, err := filepath.Abs(storage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for storage '%s': %w", storage, err)
	}

	exportsSubDir := getEnvOrDefault("EXPORTS_SUBDIR", DefaultExportsSubDir)
	absExportsPath := filepath.Join(absStorage, exportsSubDir)

	stripsSubDir := getEnvOrDefault("STRIPS_SUBDIR", DefaultStripsSubDir)
	absStripsPath := filepath.Join(absStorage, stripsSubDir)

	cfg := Config{
		ListenAddr:       getEnvOrDefault("LISTEN_ADDR", defaultListenAddr),
		DatabasePath:     dbPath,
		StoragePath:      absStorage,
		ExportsPath:      absExportsPath,
		StripsPath:       absStripsPath,
		BatchWorkers:     getEnvIntOrDefault("BATCH_WORKERS", defaultBatchWorkers),
		BatchQueueSize:   getEnvIntOrDefault("BATCH_QUEUE_SIZE", defaultBatchQueue),
		EntropyChunkSize: getEnvIntOrDefault("ENTROPY_CHUNK_SIZE", defaultEntropyChunk),
		MinStringLength:  getEnvIntOrDefault("MIN_STRING_LENGTH", defaultMinStringLen),
		ChecksumBlock:    getEnvIntOrDefault("CHECKSUM_BLOCK_SIZE", defaultChecksumBlock),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:          getEnvOrDefault("LOG_FILE", ""),
	}

	return cfg, nil
}

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Server flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-d database DSN
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-max-poll-wait maximum long-poll wait window
//
// Client flags:
//
//	-server document server base URL
//	-adapter-timeout outbound request timeout
//	-poll-wait long-poll wait window
//	-local-db local SQLite file
//	-debounce upload debounce delay
//	-apply-cooldown applying-remote cooldown
//	-retry-interval background upload retry period
//	-upload-retries extra attempts for a failed upload
//	-retry-backoff first upload retry delay
//	-device-id device identifier
//	-log-path client log file
//
// Shared flags:
//
//	-c/-config json file path with configs
//	-hash-key security hash key
//	-version application version
func ParseFlags() *StructuredConfig {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var maxPollWait time.Duration
	var hashKey string
	var version string

	var adapterAddress string
	var adapterTimeout time.Duration
	var pollWait time.Duration
	var localDSN string
	var debounce time.Duration
	var applyCooldown time.Duration
	var retryInterval time.Duration
	var uploadRetries uint64
	var retryBackoff time.Duration
	var deviceID string
	var logPath string

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&maxPollWait, "max-poll-wait", 0, "Maximum long-poll wait window")
	flag.StringVar(&hashKey, "hash-key", "", "Security hash key")
	flag.StringVar(&version, "version", "", "Application version")

	flag.StringVar(&adapterAddress, "server", "", "Document server base URL")
	flag.DurationVar(&adapterTimeout, "adapter-timeout", 0, "Outbound request timeout")
	flag.DurationVar(&pollWait, "poll-wait", 0, "Long-poll wait window")
	flag.StringVar(&localDSN, "local-db", "", "Local SQLite file")
	flag.DurationVar(&debounce, "debounce", 0, "Upload debounce delay")
	flag.DurationVar(&applyCooldown, "apply-cooldown", 0, "Cooldown after applying a remote document")
	flag.DurationVar(&retryInterval, "retry-interval", 0, "Background upload retry period")
	flag.Uint64Var(&uploadRetries, "upload-retries", 0, "Extra attempts for a failed upload")
	flag.DurationVar(&retryBackoff, "retry-backoff", 0, "First upload retry delay")
	flag.StringVar(&deviceID, "device-id", "", "Device identifier")
	flag.StringVar(&logPath, "log-path", "", "Client log file")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			HashKey:       hashKey,
			Version:       version,
			DeviceID:      deviceID,
			LogPath:       logPath,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Local: Local{DSN: localDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
			MaxPollWait:    maxPollWait,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: adapterTimeout,
			PollWait:       pollWait,
		},
		Sync: Sync{
			DebounceDelay: debounce,
			ApplyCooldown: applyCooldown,
			RetryInterval: retryInterval,
			UploadRetries: uploadRetries,
			RetryBackoff:  retryBackoff,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

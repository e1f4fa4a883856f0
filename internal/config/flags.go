// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses args into a partial config.
//
// Flags:
//
//	-a               server listen address host:port
//	-grpc-address    gRPC listen address host:port
//	-d               database DSN
//	-db-driver       database driver (postgres, mysql, sqlite3)
//	-s               server address used by the client
//	-local           client local store path
//	-login/-password client credentials
//	-c/-config       JSON or YAML config file
//	-token-sign-key  token signing key
//	-token-duration  token lifetime (e.g. 1h)
//	-request-timeout request timeout (e.g. 30s)
//	-sync-interval   auto-sync period (e.g. 30s)
//	-max-retries     retry ceiling before dead-lettering
//	-broker          change broker (memory, redis, kafka)
func parseFlags(args []string) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var serverAddress, grpcServerAddress NetAddress

	fs := flag.NewFlagSet(programName(), flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.DB.Driver, "db-driver", "", "Database driver: postgres, mysql, sqlite3")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "s", "", "Server address used by the client")
	fs.StringVar(&cfg.Storage.Local.Path, "local", "", "Client local store path")
	fs.StringVar(&cfg.Adapter.Login, "login", "", "Client login")
	fs.StringVar(&cfg.Adapter.Password, "password", "", "Client password")
	fs.StringVar(&cfg.ConfigFilePath, "c", "", "Config file path (JSON or YAML)")
	fs.StringVar(&cfg.ConfigFilePath, "config", "", "Config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Auto-sync interval (e.g., 30s)")
	fs.IntVar(&cfg.Workers.MaxRetries, "max-retries", 0, "Retries before a queue item is dead-lettered")
	fs.StringVar(&cfg.Broker.Type, "broker", "", "Change broker: memory, redis, kafka")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return cfg, nil
}

func programName() string {
	if len(os.Args) == 0 {
		return "toolkeeper"
	}
	return os.Args[0]
}

// String returns a canonical host:port string for a NetAddress.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// The host must be empty, "localhost" or a valid IP address.
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

	if host != "localhost" && host != "" {
		if net.ParseIP(host) == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

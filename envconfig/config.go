// config.go - Haupt-Konfigurationsfunktionen fuer wortvek
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (WORTVEK_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (WORTVEK_ORIGINS)
// - Threads: Gibt den Default-Threadcount fuer Training und Serving zurueck (WORTVEK_THREADS)
// - NoProgress: Unterdrueckt die Fortschrittsanzeige (WORTVEK_NOPROGRESS)
// - LogLevel: Gibt Log-Level zurueck (WORTVEK_DEBUG)
//
// Utility-Funktionen und AsMap/Values sind ausgelagert in config_utils.go
package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Host gibt Scheme und Host fuer den API-Server zurueck
// Konfigurierbar via WORTVEK_HOST
// Default: http://127.0.0.1:7331
func Host() *url.URL {
	defaultPort := "7331"

	s := strings.TrimSpace(Var("WORTVEK_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte CORS-Origins zurueck
// Konfigurierbar via WORTVEK_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("WORTVEK_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	origins = append(origins,
		"app://*",
		"file://*",
		"tauri://*",
		"vscode-webview://*",
		"vscode-file://*",
	)

	return origins
}

// Threads gibt den Default-Threadcount zurueck
// Konfigurierbar via WORTVEK_THREADS
// Default: Anzahl der logischen CPUs
func Threads() int {
	if s := Var("WORTVEK_THREADS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
		slog.Warn("invalid WORTVEK_THREADS, using CPU count", "value", s)
	}
	return runtime.NumCPU()
}

// NoProgress unterdrueckt die Fortschrittsanzeige beim Training
// Konfigurierbar via WORTVEK_NOPROGRESS
func NoProgress() bool {
	return Bool("WORTVEK_NOPROGRESS")()
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via WORTVEK_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("WORTVEK_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

package main

import (
	"crypto/ed25519"
	"io"
	"log"
	"os"
	"path/filepath"

	"evidenceos/api/server"
	"evidenceos/core"
	"evidenceos/core/audit"
	"evidenceos/core/bundle"
	"evidenceos/core/capture"
	"evidenceos/core/chain"
	"evidenceos/core/config"
	"evidenceos/core/evidence"
	"evidenceos/core/storage"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load(os.Getenv("EVIDENCE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Log to file as well as stdout
	if dir := filepath.Dir(cfg.Server.LogFile); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	logFile, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))

	log.Println("Starting Evidence & Audit Trust Layer")

	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open storage at %s: %v", cfg.Storage.Path, err)
	}
	defer store.Close()

	ledger, err := chain.OpenLedger(store)
	if err != nil {
		log.Fatalf("Failed to load audit chain: %v", err)
	}
	log.Printf("Audit chain loaded: %d nodes\n", ledger.Len())

	evidenceStore, err := evidence.NewStore(store)
	if err != nil {
		log.Fatalf("Failed to load evidence store: %v", err)
	}
	log.Printf("Evidence store loaded: %d records\n", evidenceStore.Len())

	// Verify on startup so tampering of the durable store is surfaced
	// immediately, not on the first auditor request.
	report := chain.Verify(ledger)
	if !report.Valid {
		log.Printf("WARNING: audit chain verification failed with %d errors\n", len(report.Errors))
		for _, e := range report.Errors {
			log.Printf("  node=%s issue=%s\n", e.Node, e.Issue)
		}
	}

	var signingKey ed25519.PrivateKey
	if cfg.Bundle.SignManifest {
		_, priv, err := core.GenerateAndSaveKeypair()
		if err != nil {
			log.Fatalf("Failed to load/generate Ed25519 keypair: %v", err)
		}
		signingKey = priv
	}

	logger := audit.NewStdoutLogger()
	captureSvc := capture.NewService(evidenceStore, ledger, logger)
	bundles := bundle.NewGenerator(ledger, signingKey)

	srv := server.NewServer(store, captureSvc, ledger, bundles, logger, cfg.Server.ListenAddr)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

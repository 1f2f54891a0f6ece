// outreach-mcp is a standalone MCP server for the Outreach contact engine.
// It connects directly to Outreach's SQLite database, serving contact and
// group tools over JSON-RPC stdio so an assistant can look up contacts
// during a conversation.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	outreach "github.com/openadvocacy/outreach"
)

func main() {
	home, _ := os.UserHomeDir()
	defaultDB := filepath.Join(home, ".local", "share", "outreach", "outreach.db")

	dbPath := flag.String("db", defaultDB, "path to outreach database")
	flag.Parse()

	engine, err := outreach.NewEngine(outreach.EngineConfig{
		DBPath: *dbPath,
	})
	if err != nil {
		log.Fatalf("create outreach engine: %v", err)
	}
	defer engine.Close()

	srv := newServer(engine)
	if err := srv.run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

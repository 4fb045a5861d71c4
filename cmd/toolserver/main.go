// toolserver — reference tool-execution backend for chatd.
//
// Serves POST /call_tool over a Postgres database of user profiles and
// transactions, creating and seeding the schema on first start.
//
// Example:
//
//	export DATABASE_URL=postgres://localhost:5432/chatbot_db
//	go run ./cmd/toolserver -addr :8000
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	flagAddr = flag.String("addr", ":8000", "Listen address")
	flagDSN  = flag.String("dsn", "", "Postgres connection string (overrides DATABASE_URL)")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	dsn := *flagDSN
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatalf("no Postgres connection string: set DATABASE_URL or pass -dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewStore(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("prepare schema: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /call_tool", handleCallTool(store))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "toolserver"})
	})

	log.Printf("[toolserver] listening on %s", *flagAddr)
	if err := http.ListenAndServe(*flagAddr, mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

type callToolRequest struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}

func handleCallTool(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req callToolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
			return
		}
		if req.Arguments == nil {
			req.Arguments = map[string]any{}
		}

		result, err := callTool(r.Context(), store, req.ToolName, req.Arguments)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, errBadArguments) {
				status = http.StatusBadRequest
			}
			log.Printf("[toolserver] tool=%s failed: %v", req.ToolName, err)
			writeJSON(w, status, map[string]any{"success": false, "error": fmt.Sprint(err)})
			return
		}

		log.Printf("[toolserver] tool=%s ok (%d chars)", req.ToolName, len(result))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[toolserver] encode response: %v", err)
	}
}

// Package respond writes the JSON envelope every API route answers with.
package respond

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type Envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, Error: msg, Timestamp: time.Now().UTC()})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("respond: encode: %v", err)
	}
}

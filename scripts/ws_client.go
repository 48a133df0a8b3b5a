// Package main runs a demo WebSocket client for optimizer progress.
// It uploads an instance, opens the progress stream under a chosen run
// id, then starts an optimize run with that id and prints the events.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const demoInstance = `[graph]
A;B;1
B;C;2

[bots]
bot1;A

[time horizon]
start;08:00
end;18:00

[orders]
o1;B;C;08:00;0:100;5:0
`

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Upload the demo instance
	resp, err := http.Post(base+"/v1/instances?name=ws-demo", "text/plain", strings.NewReader(demoInstance))
	if err != nil {
		log.Fatal(err)
	}
	var inst struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&inst); err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()
	log.Printf("Instance ID: %s", inst.ID)

	// Connect the progress stream before starting the run
	runID := uuid.New().String()
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/optimize/ws", RawQuery: "run=" + runID}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var evt struct {
				Type string         `json:"type"`
				Data map[string]any `json:"data"`
			}
			if err := c.ReadJSON(&evt); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %v", evt.Type, evt.Data)
			if evt.Type == "done" {
				return
			}
		}
	}()

	// Start the run under the subscribed id
	body, _ := json.Marshal(map[string]any{
		"instanceId":   inst.ID,
		"runId":        runID,
		"algorithm":    "alns",
		"timeBudgetMs": 1000,
	})
	optResp, err := http.Post(base+"/v1/optimize", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	out, _ := io.ReadAll(optResp.Body)
	_ = optResp.Body.Close()
	log.Printf("optimize: %s", out)

	select {
	case <-time.After(5 * time.Second):
	case <-done:
	}
}

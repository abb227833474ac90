// Command sessionprobe drives one gateway session against a running server:
// start_session, an optional audio_input from a file, then end_session,
// printing every message the gateway sends back.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := flag.String("addr", "ws://localhost:8080/api/v1/ws", "gateway websocket URL")
	userID := flag.String("user", "probe-user", "user id for the session")
	audioPath := flag.String("audio", "", "optional audio file to submit")
	format := flag.String("format", "wav", "audio format of the input file")
	timeout := flag.Duration("timeout", 30*time.Second, "read timeout per response")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	send(conn, map[string]any{
		"action":  "start_session",
		"user_id": *userID,
	})
	started := expect(conn, *timeout, "session_started")
	sessionID, _ := started["session_id"].(string)
	if sessionID == "" {
		log.Fatalf("no session_id in response: %v", started)
	}
	log.Printf("session started: %s", sessionID)
	if greeting, ok := started["greeting"].(string); ok {
		fmt.Println("greeting:", greeting)
	}

	if *audioPath != "" {
		data, err := os.ReadFile(*audioPath)
		if err != nil {
			log.Fatalf("read audio: %v", err)
		}
		send(conn, map[string]any{
			"action":     "audio_input",
			"session_id": sessionID,
			"data":       base64.StdEncoding.EncodeToString(data),
			"format":     *format,
		})
		// Drain responses until audio_output or error arrives.
		for {
			msg := read(conn, *timeout)
			action, _ := msg["action"].(string)
			if action == "text_response" {
				fmt.Println("assistant:", msg["text"])
				continue
			}
			log.Printf("received %s", action)
			break
		}
	}

	send(conn, map[string]any{
		"action":     "end_session",
		"session_id": sessionID,
	})
	ended := expect(conn, *timeout, "session_ended")
	log.Printf("session ended after %.2fs", ended["duration"])
}

func send(conn *websocket.Conn, v map[string]any) {
	if err := conn.WriteJSON(v); err != nil {
		log.Fatalf("write %s: %v", v["action"], err)
	}
}

func read(conn *websocket.Conn, timeout time.Duration) map[string]any {
	conn.SetReadDeadline(time.Now().Add(timeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Fatalf("decode: %v", err)
	}
	return msg
}

func expect(conn *websocket.Conn, timeout time.Duration, action string) map[string]any {
	msg := read(conn, timeout)
	if got, _ := msg["action"].(string); got != action {
		log.Fatalf("expected %s, got %v", action, msg)
	}
	return msg
}

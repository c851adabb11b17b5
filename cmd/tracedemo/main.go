// Command tracedemo is the terminal client for the demo backend. Every
// login, register, WebSocket connect and message it sends starts a trace
// that the backend continues.
//
//	tracedemo register --name Ada --email ada@example.com --password secret
//	tracedemo login --email ada@example.com --password secret
//	tracedemo ws
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

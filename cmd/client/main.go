package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/touka-aoi/daytime-server/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "Server address")
	flag.Parse()

	c, err := client.Dial(context.Background(), *addr)
	if err != nil {
		slog.Error("Connection failed", "address", *addr, "error", err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Println("Connected to server...")

	for chunk := range c.Chunks() {
		os.Stdout.Write(chunk)
	}
	if err := c.Err(); err != nil {
		slog.Error("Receive failed", "error", err)
	}
}

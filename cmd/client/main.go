package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"ChordRing/internal/client"
	"ChordRing/internal/domain"

	"github.com/peterh/liner"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "Address of a ring node (entry point)")
	timeout := flag.Duration("timeout", 5*time.Second, "Request timeout (e.g., 5s)")
	bits := flag.Int("bits", 64, "Identifier space size in bits, must match the ring's configuration")
	succCache := flag.Int("succ-cache", 3, "Successor cache size, must match the ring's configuration")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	space, err := domain.NewSpace(*bits, *succCache)
	if err != nil {
		log.Fatalf("invalid identifier space: %v", err)
	}

	pool := client.New(*timeout, 0)
	defer pool.Close()

	currentAddr := *addr
	if err := pool.Ping(context.Background(), currentAddr); err != nil {
		log.Fatalf("failed to reach node at %s: %v", currentAddr, err)
	}

	fmt.Printf("Ring interactive client. Connected to %s\n", currentAddr)
	fmt.Println("Available commands: put/get/lookup/getrt/getversion/use/exit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("ring[%s]> ", currentAddr))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("Aborted")
				continue
			}
			break
		}
		line.AppendHistory(input)

		args := strings.Fields(strings.TrimSpace(input))
		if len(args) == 0 {
			continue
		}
		cmd := args[0]

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)

		switch cmd {

		case "put":
			if len(args) < 3 {
				fmt.Println("Usage: put <key> <value>")
				cancel()
				continue
			}
			key, value := args[1], args[2]
			delay, err := client.Put(ctx, pool, currentAddr, space, key, []byte(value))
			if err != nil {
				fmt.Printf("Put failed (%v) | latency=%s\n", err, delay)
			} else {
				fmt.Printf("Put succeeded (key=%s, value=%s) | latency=%s\n", key, value, delay)
			}

		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <key>")
				cancel()
				continue
			}
			key := args[1]
			val, delay, err := client.Get(ctx, pool, currentAddr, space, key)
			switch {
			case err == nil:
				fmt.Printf("Get succeeded (key=%s, value=%s) | latency=%s\n", key, val, delay)
			case errors.Is(err, client.ErrKeyNotFound):
				fmt.Printf("Key not found: %s | latency=%s\n", key, delay)
			default:
				fmt.Printf("Get failed: %v | latency=%s\n", err, delay)
			}

		case "lookup":
			if len(args) < 2 {
				fmt.Println("Usage: lookup <hex-id>")
				cancel()
				continue
			}
			id, err := space.FromHexString(args[1])
			if err != nil {
				fmt.Printf("Invalid id: %v\n", err)
				cancel()
				continue
			}
			succ, delay, err := client.Lookup(ctx, pool, currentAddr, id)
			if err != nil {
				fmt.Printf("Lookup failed: %v | latency=%s\n", err, delay)
			} else {
				fmt.Printf("Lookup result: successor=%s (%s) | latency=%s\n",
					succ.ID.ToHexString(true), succ.Addr, delay)
			}

		case "getrt":
			rt, delay, err := client.GetRoutingTable(ctx, pool, currentAddr)
			if err != nil {
				fmt.Printf("GetRoutingTable failed: %v | latency=%s\n", err, delay)
				cancel()
				continue
			}
			fmt.Println("Routing table:")
			if rt.Predecessor != nil {
				fmt.Printf("  Predecessor: %s (%s)\n", rt.Predecessor.ID.ToHexString(true), rt.Predecessor.Addr)
			} else {
				fmt.Println("  Predecessor: <none>")
			}
			fmt.Println("  Successor cache:")
			for i, s := range rt.SuccessorList {
				if s == nil {
					fmt.Printf("    [%d] <empty>\n", i)
					continue
				}
				fmt.Printf("    [%d] %s (%s)\n", i, s.ID.ToHexString(true), s.Addr)
			}
			fmt.Printf("Latency: %s\n", delay)

		case "getversion":
			owner := parseOwnerArg(args, space)
			if owner == nil {
				fmt.Println("Usage: getversion <owner-hex-id>")
				cancel()
				continue
			}
			v, delay, err := client.GetStoreVersionView(ctx, pool, currentAddr, owner)
			if err != nil {
				fmt.Printf("GetStoreVersion failed: %v | latency=%s\n", err, delay)
			} else {
				fmt.Printf("Store version: %d (history entries=%d) | latency=%s\n",
					v.VersionNumber, len(v.VersionHistory), delay)
			}

		case "use":
			if len(args) < 2 {
				fmt.Println("Usage: use <addr>")
				cancel()
				continue
			}
			newAddr := args[1]
			if err := pool.Ping(ctx, newAddr); err != nil {
				fmt.Printf("Failed to reach %s: %v\n", newAddr, err)
				cancel()
				continue
			}
			currentAddr = newAddr
			fmt.Printf("Switched connection to %s\n", currentAddr)

		case "exit", "quit":
			fmt.Println("Bye!")
			cancel()
			return

		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}

		cancel()
	}
}

// parseOwnerArg parses args[1] as a hex identifier, returning nil if absent
// or malformed.
func parseOwnerArg(args []string, space domain.Space) domain.ID {
	if len(args) < 2 {
		return nil
	}
	id, err := space.FromHexString(args[1])
	if err != nil {
		return nil
	}
	return id
}

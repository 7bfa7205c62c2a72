package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"pcb-stockroom/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "stock":
		var req app.StockRequest
		decodeStdin(&req)
		res, err := svc.Stock(ctx, req)
		if err != nil {
			log.Fatalf("Stock failed: %v", err)
		}
		printJSON(res.Result)

	case "pick":
		var req app.PickRequest
		decodeStdin(&req)
		res, err := svc.Pick(ctx, req)
		if err != nil {
			log.Fatalf("Pick failed: %v", err)
		}
		printJSON(res.Result)

	case "update":
		var req app.UpdateRecordRequest
		decodeStdin(&req)
		res, err := svc.UpdateRecord(ctx, req)
		if err != nil {
			log.Fatalf("Update failed: %v", err)
		}
		printJSON(res.Record)

	case "lookup":
		if len(args) < 2 {
			log.Fatal("Usage: app lookup <pcn>")
		}
		res, err := svc.LookupPCN(ctx, args[1])
		if err != nil {
			log.Fatalf("Lookup failed: %v", err)
		}
		printJSON(res.Record)

	case "generate", "gen":
		var req app.GeneratePCNRequest
		decodeStdin(&req)
		res, err := svc.GeneratePCN(ctx, req)
		if err != nil {
			log.Fatalf("Generate failed: %v", err)
		}
		printJSON(res.Record)

	case "decode":
		if len(args) < 2 {
			log.Fatal("Usage: app decode \"<scanned string>\"")
		}
		printJSON(svc.DecodeLabel(args[1]).Payload)

	case "log":
		q := logQueryFromArgs(args[1:])
		res, err := svc.GetTransactionLog(ctx, q)
		if err != nil {
			log.Fatalf("Log query failed: %v", err)
		}
		printJSON(res.Entries)

	case "levels", "inventory":
		res, err := svc.ListInventory(ctx)
		if err != nil {
			log.Fatalf("Inventory query failed: %v", err)
		}
		printJSON(res.Records)

	default:
		log.Fatalf("Unknown command: %s (expected stock|pick|update|lookup|generate|decode|log|levels)", args[0])
	}
}

// logQueryFromArgs parses "log pcn 00045", "log job TEST-PART-001", or
// "log from 2025-01-01 to 2025-12-31".
func logQueryFromArgs(args []string) app.LogQuery {
	var q app.LogQuery
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "pcn":
			q.PCN = args[i+1]
		case "job":
			q.Job = args[i+1]
		case "from":
			q.From = args[i+1]
		case "to":
			q.To = args[i+1]
		default:
			log.Fatalf("Unknown log filter: %s", args[i])
		}
	}
	return q
}

func decodeStdin(v any) {
	if err := json.NewDecoder(os.Stdin).Decode(v); err != nil {
		log.Fatalf("Invalid JSON: %v", err)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "encode error:", err)
	}
}

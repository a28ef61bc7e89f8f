package main

import (
	"catalog-backend/cmd/catalog-ingest/commands"
	"catalog-backend/lib/serviceutil"
	"catalog-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	commands.ExecuteContext(serviceutil.SignalContext())
}

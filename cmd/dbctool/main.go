// Command dbctool parses, validates, decodes, encodes, and re-emits
// Vector DBC files from the command line.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reneherrero/godbc/internal/attrschema"
	"github.com/reneherrero/godbc/internal/cansim"
	"github.com/reneherrero/godbc/pkg/dbc"
	"github.com/reneherrero/godbc/pkg/dbcfile"
	"github.com/reneherrero/godbc/pkg/log"
)

var (
	flagFile      string
	flagToDBC     bool
	flagDecode    string
	flagEncode    string
	flagDumpAttrs bool
	flagSimulate  int
	flagExtended  bool
	flagLogLevel  string
	flagLogDate   bool
)

func cliInit() {
	flag.StringVar(&flagFile, "file", "", "path to a .dbc file")
	flag.BoolVar(&flagToDBC, "to-dbc", false, "parse, then re-emit canonical DBC text to stdout")
	flag.StringVar(&flagDecode, "decode", "", "decode one frame: `<id>:<hex bytes>`")
	flag.StringVar(&flagEncode, "encode", "", "encode one frame: `<id>:<name>=<value>[,<name>=<value>...]`")
	flag.BoolVar(&flagDumpAttrs, "dump-attrs", false, "dump the BA_DEF_ attribute table as schema-validated JSON")
	flag.IntVar(&flagSimulate, "simulate", 0, "generate `n` deterministic synthetic frames per message and decode them")
	flag.BoolVar(&flagExtended, "extended", false, "treat -decode/-encode's id as a 29-bit extended CAN id")
	flag.StringVar(&flagLogLevel, "loglevel", "info", "sets the logging level: [debug, info, warn, err]")
	flag.BoolVar(&flagLogDate, "logdate", false, "add date and time to log messages")
	flag.Parse()
}

func main() {
	cliInit()
	log.SetLogLevel(flagLogLevel)
	log.SetLogDateTime(flagLogDate)

	if flagFile == "" {
		log.Fatal("missing required -file flag")
	}

	d, err := dbcfile.Load(flagFile)
	if err != nil {
		log.Fatalf("loading %s: %s", flagFile, err)
	}

	switch {
	case flagToDBC:
		fmt.Print(d.ToDBCString())
	case flagDecode != "":
		runDecode(d, flagDecode)
	case flagEncode != "":
		runEncode(d, flagEncode)
	case flagDumpAttrs:
		runDumpAttrs(d)
	case flagSimulate > 0:
		runSimulate(d, flagSimulate)
	default:
		runSummary(d)
	}
}

func runSummary(d *dbc.Database) {
	signalCount := 0
	for _, m := range d.Messages() {
		signalCount += len(m.Signals)
	}
	log.Infof("%d node(s), %d message(s), %d signal(s)", len(d.Nodes()), len(d.Messages()), signalCount)
}

func runDumpAttrs(d *dbc.Database) {
	data, err := attrschema.DumpJSON(d)
	if err != nil {
		log.Fatalf("dump-attrs: %s", err)
	}
	fmt.Println(string(data))
}

func runSimulate(d *dbc.Database, count int) {
	batch := cansim.Generate(d, int64(count), count)
	log.Infof("simulation run %s: %d frame(s)", batch.RunID, len(batch.Frames))
	for _, f := range batch.Frames {
		decoded, err := d.Decode(f.RawID, f.Payload, f.Extended)
		if err != nil {
			log.Warnf("%s: %s", f.MessageName, err)
			continue
		}
		fmt.Printf("%s (id=%#x):\n", f.MessageName, f.RawID)
		for _, s := range decoded {
			fmt.Printf("  %s = %v %s\n", s.Name, s.Value, s.Unit)
		}
	}
}

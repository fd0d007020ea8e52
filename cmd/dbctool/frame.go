package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/reneherrero/godbc/pkg/dbc"
	"github.com/reneherrero/godbc/pkg/log"
)

// runDecode handles -decode <id>:<hex bytes>.
func runDecode(d *dbc.Database, arg string) {
	idPart, hexPart, ok := strings.Cut(arg, ":")
	if !ok {
		log.Fatalf("-decode: expected <id>:<hex bytes>, got %q", arg)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(idPart), 0, 32)
	if err != nil {
		log.Fatalf("-decode: invalid id %q: %s", idPart, err)
	}
	payload, err := hex.DecodeString(strings.TrimSpace(hexPart))
	if err != nil {
		log.Fatalf("-decode: invalid hex payload %q: %s", hexPart, err)
	}

	decoded, err := d.Decode(uint32(id), payload, flagExtended)
	if err != nil {
		log.Fatalf("-decode: %s", err)
	}
	for _, s := range decoded {
		if s.Unit != "" {
			fmt.Printf("%s = %s %s\n", s.Name, formatFloat(s.Value), s.Unit)
		} else {
			fmt.Printf("%s = %s\n", s.Name, formatFloat(s.Value))
		}
	}
}

// runEncode handles -encode <id>:<name>=<value>[,<name>=<value>...].
func runEncode(d *dbc.Database, arg string) {
	idPart, valuesPart, ok := strings.Cut(arg, ":")
	if !ok {
		log.Fatalf("-encode: expected <id>:<name>=<value>,..., got %q", arg)
	}
	id, err := strconv.ParseUint(strings.TrimSpace(idPart), 0, 32)
	if err != nil {
		log.Fatalf("-encode: invalid id %q: %s", idPart, err)
	}

	var values []dbc.NamedValue
	for _, pair := range strings.Split(valuesPart, ",") {
		name, valStr, ok := strings.Cut(pair, "=")
		if !ok {
			log.Fatalf("-encode: invalid name=value pair %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(valStr), 64)
		if err != nil {
			log.Fatalf("-encode: invalid value %q for %q: %s", valStr, name, err)
		}
		values = append(values, dbc.NamedValue{Name: strings.TrimSpace(name), Value: v})
	}

	payload, err := d.Encode(uint32(id), values, flagExtended)
	if err != nil {
		log.Fatalf("-encode: %s", err)
	}
	fmt.Println(hex.EncodeToString(payload))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

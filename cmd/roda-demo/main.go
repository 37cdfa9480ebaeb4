// Command roda-demo wires a session.Engine to an in-process
// objdict.Store over an in-memory transport and walks through the
// RODA operations: Connect, Ping, Read, Write, EnumerateObjects,
// ObjectInfo, Disconnect. It is the one runnable example tying
// pkg/session and pkg/objdict together; with no networked transport
// in scope, the demo is its own wire-up.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-roda/roda/pkg/datatype"
	"github.com/go-roda/roda/pkg/objdict"
	"github.com/go-roda/roda/pkg/rac"
	"github.com/go-roda/roda/pkg/session"
	log "github.com/sirupsen/logrus"
)

func main() {
	descriptorPath := flag.String("descriptor", "", "path to an INI object dictionary descriptor (default: built-in demo objects)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	store, err := loadStore(*descriptorPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "roda-demo:", err)
		os.Exit(1)
	}

	transport := newLocalTransport(store, 512)
	engine := session.NewEngine()

	if err := engine.Connect(transport); err != nil {
		fatalf("connect: %v", err)
	}
	defer func() {
		if err := engine.Disconnect(); err != nil {
			fatalf("disconnect: %v", err)
		}
	}()

	ready, err := engine.WaitForRODAItfReady(1000)
	if err != nil || !ready {
		fatalf("endpoint never became ready: ready=%v err=%v", ready, err)
	}

	if err := engine.Ping(); err != nil {
		fatalf("ping: %v", err)
	}
	fmt.Println("ping: ok")

	data, sizeInBit, err := engine.Read(rac.SingleSubindex, 0x1000, 0x01, rac.AttrRead)
	if err != nil {
		fatalf("read 1000:01: %v", err)
	}
	fmt.Printf("read 1000:01: %d bytes, %d bit: %v\n", len(data), sizeInBit, data)

	if err := engine.Write(rac.SingleSubindex, 0x1001, 0x01, rac.AttrWrite, []byte{0x2A, 0x00, 0x00, 0x00}, 32); err != nil {
		fatalf("write 1001:01: %v", err)
	}
	fmt.Println("write 1001:01: ok")

	enum, err := engine.EnumerateObjects(0x0000, 0xFFFF, 16, 0)
	if err != nil {
		fatalf("enumerate: %v", err)
	}
	indices, err := enum.Indices()
	if err != nil {
		fatalf("enumerate indices: %v", err)
	}
	fmt.Printf("object indices: %04X\n", indices)

	info, err := engine.ObjectInfo(0x1000, 0x00, 0xFF, true, false, 16)
	if err != nil {
		fatalf("object info 1000: %v", err)
	}
	records, err := info.Records()
	if err != nil {
		fatalf("object info records: %v", err)
	}
	for i, rec := range records {
		fmt.Printf("  1000:%02X %-24s %s\n", info.FirstSubIndex()+uint8(i), rec.Name, datatype.MapToCanonical(rec.DataType))
	}

	_, _, err = engine.Read(rac.SingleSubindex, 0x1000, 0xFE, rac.AttrRead)
	if err != nil {
		fmt.Println("read 1000:FE (expected failure):", err)
	}
}

// loadStore returns a populated demonstration object dictionary: from
// path if given, otherwise a small built-in set of objects exercising
// every family the codec supports.
func loadStore(path string) (*objdict.Store, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open descriptor: %w", err)
		}
		defer f.Close()
		return objdict.LoadDescriptor(f)
	}

	store := objdict.NewStore()
	store.Set(0x1000, 0x00, &objdict.Object{
		Name: "highest sub-index supported", DataType: datatype.Unsigned8,
		Attributes: rac.AttrRead, MaxSizeInBit: 8, Data: []byte{0x01}, SizeInBit: 8,
	})
	store.Set(0x1000, 0x01, &objdict.Object{
		Name: "device type", DataType: datatype.Unsigned32,
		Attributes: rac.AttrRead, MaxSizeInBit: 32, Data: []byte{0x91, 0x00, 0x00, 0x00}, SizeInBit: 32,
	})
	store.Set(0x1001, 0x00, &objdict.Object{
		Name: "highest sub-index supported", DataType: datatype.Unsigned8,
		Attributes: rac.AttrRead, MaxSizeInBit: 8, Data: []byte{0x01}, SizeInBit: 8,
	})
	store.Set(0x1001, 0x01, &objdict.Object{
		Name: "error register", DataType: datatype.Unsigned32,
		Attributes: rac.AttrRead | rac.AttrWrite, MaxSizeInBit: 32, Data: []byte{0x00, 0x00, 0x00, 0x00}, SizeInBit: 32,
	})
	store.Set(0x1008, 0x00, &objdict.Object{
		Name: "manufacturer device name", DataType: datatype.VisibleString,
		Attributes: rac.AttrRead, MaxSizeInBit: 128, Data: []byte("roda-demo\x00\x00\x00\x00\x00\x00\x00"), SizeInBit: 128,
	})
	return store, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "roda-demo: "+format+"\n", args...)
	os.Exit(1)
}

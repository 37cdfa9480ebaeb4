package objdict

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-roda/roda/pkg/bitio"
	"github.com/go-roda/roda/pkg/datatype"
	"github.com/go-roda/roda/pkg/rac"
	"gopkg.in/ini.v1"
)

// matchIndexSection and matchSubindexSection mirror the reference
// implementation's EDS section-name grammar (pkg/od/parser_v1.go):
// "1000" names an object, "1000sub1" names one of its subindices.
var (
	matchIndexSection    = regexp.MustCompile(`^[0-9A-Fa-f]{4}$`)
	matchSubindexSection = regexp.MustCompile(`^([0-9A-Fa-f]{4})sub([0-9A-Fa-f]+)$`)
)

// LoadDescriptor parses an INI-formatted object dictionary descriptor
// (a demonstration analogue of a CANopen EDS file) and returns a Store
// populated from it. Each "XXXXsubYY" section describes one subindex:
// ParameterName, DataType (a decimal datatype.DataType code),
// Attributes (a decimal rac.Attributes bitmask), MaxSizeInBit, and an
// optional DefaultValue in the textual form accepted by
// datatype.Encode.
func LoadDescriptor(source any) (*Store, error) {
	f, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("objdict: load descriptor: %w", err)
	}
	store := NewStore()
	for _, section := range f.Sections() {
		name := section.Name()
		if !matchSubindexSection.MatchString(name) {
			continue
		}
		m := matchSubindexSection.FindStringSubmatch(name)
		idx, err := strconv.ParseUint(m[1], 16, 16)
		if err != nil {
			return nil, fmt.Errorf("objdict: section %q: %w", name, err)
		}
		sub, err := strconv.ParseUint(m[2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("objdict: section %q: %w", name, err)
		}
		obj, err := objectFromSection(section)
		if err != nil {
			return nil, fmt.Errorf("objdict: section %q: %w", name, err)
		}
		store.Set(uint16(idx), uint8(sub), obj)
	}
	return store, nil
}

func objectFromSection(section *ini.Section) (*Object, error) {
	dtCode, err := strconv.ParseUint(section.Key("DataType").Value(), 0, 16)
	if err != nil {
		return nil, fmt.Errorf("DataType: %w", err)
	}
	dt := datatype.DataType(dtCode)

	attrCode, err := strconv.ParseUint(section.Key("Attributes").Value(), 0, 16)
	if err != nil {
		return nil, fmt.Errorf("Attributes: %w", err)
	}

	maxSizeInBit, err := strconv.ParseUint(section.Key("MaxSizeInBit").Value(), 0, 32)
	if err != nil {
		width, ok := datatype.BitWidth(dt)
		if !ok {
			return nil, fmt.Errorf("no MaxSizeInBit and unknown width for %s", dt)
		}
		maxSizeInBit = uint64(width)
	}

	obj := &Object{
		Name:         section.Key("ParameterName").String(),
		DataType:     dt,
		Attributes:   rac.Attributes(attrCode),
		MaxSizeInBit: uint32(maxSizeInBit),
		SizeInBit:    uint32(maxSizeInBit),
	}

	if asm := section.Key("ASM").String(); asm != "" {
		obj.ASM = []byte(asm)
	}

	defaultValue := section.Key("DefaultValue").String()
	if defaultValue == "" {
		obj.Data = make([]byte, (obj.SizeInBit+7)/8)
		return obj, nil
	}
	w := bitio.NewWriter()
	if err := datatype.Encode(w, defaultValue, int(obj.SizeInBit), dt); err != nil {
		return nil, fmt.Errorf("DefaultValue %q: %w", defaultValue, err)
	}
	obj.Data = w.Bytes()
	return obj, nil
}

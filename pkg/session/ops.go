package session

import (
	"fmt"

	"github.com/go-roda/roda/pkg/abort"
	"github.com/go-roda/roda/pkg/rac"
)

// Ping issues a liveness check and blocks until the round trip completes
// or times out.
func (e *Engine) Ping() error {
	req := rac.NewPingRequest(e.maxResponseBudget())
	resp, err := e.sendAndReceive(req)
	if err != nil {
		return err
	}
	if _, ok := resp.(*rac.PingResponse); !ok {
		return newRuntimeError(fmt.Sprintf("session: ping got unexpected response kind %s", resp.Kind()))
	}
	return nil
}

// Read issues a single Read request and returns the data and its exact
// bit length on success, or a RuntimeError describing the remote abort
// code on failure.
func (e *Engine) Read(access rac.AccessType, index uint16, subindex uint8, permissions rac.Attributes) ([]byte, uint32, error) {
	req := rac.NewReadRequest(access, index, subindex, permissions, e.maxResponseBudget())
	resp, err := e.sendAndReceive(req)
	if err != nil {
		return nil, 0, err
	}
	readResp, ok := resp.(*rac.ReadResponse)
	if !ok {
		return nil, 0, newRuntimeError(fmt.Sprintf("session: read got unexpected response kind %s", resp.Kind()))
	}
	if readResp.Result() != abort.OK {
		return nil, 0, newRuntimeError(fmt.Sprintf("session: read %04X:%02X failed: %s", index, subindex, readResp.Result().Description()))
	}
	return readResp.TakeData()
}

// Write issues a single Write request, moving data into the request, and
// returns nil on success or a RuntimeError describing the remote abort
// code on failure.
func (e *Engine) Write(access rac.AccessType, index uint16, subindex uint8, permissions rac.Attributes, data []byte, sizeInBit uint32) error {
	req, err := rac.NewWriteRequest(access, index, subindex, permissions, data, sizeInBit, e.maxResponseBudget())
	if err != nil {
		return err
	}
	resp, err := e.sendAndReceive(req)
	if err != nil {
		return err
	}
	writeResp, ok := resp.(*rac.WriteResponse)
	if !ok {
		return newRuntimeError(fmt.Sprintf("session: write got unexpected response kind %s", resp.Kind()))
	}
	if writeResp.Result() != abort.OK {
		return newRuntimeError(fmt.Sprintf("session: write %04X:%02X failed: %s", index, subindex, writeResp.Result().Description()))
	}
	return nil
}

// EnumerateObjects drives the fragmented ObjectEnum loop to completion,
// or until maxFragments round trips have occurred (maxFragments must be
// > 0). On the maxFragments path it returns the partial accumulator and
// a nil error; callers can resume from the continuation index reported
// by the accumulator's IsComplete.
func (e *Engine) EnumerateObjects(firstIndex, lastIndex uint16, maxFragments int, attrFilter rac.Attributes) (*rac.ObjectEnumResponse, error) {
	if maxFragments <= 0 {
		return nil, newLogicError("session: maxFragments must be > 0")
	}
	var accumulator *rac.ObjectEnumResponse
	next := firstIndex
	for {
		req := rac.NewObjectEnumRequest(next, lastIndex, attrFilter, e.maxResponseBudget())
		resp, err := e.sendAndReceive(req)
		if err != nil {
			return nil, err
		}
		enumResp, ok := resp.(*rac.ObjectEnumResponse)
		if !ok {
			return nil, newRuntimeError(fmt.Sprintf("session: object enum got unexpected response kind %s", resp.Kind()))
		}
		if enumResp.Result() != abort.OK {
			return nil, newRuntimeError(fmt.Sprintf("session: object enum failed: %s", enumResp.Result().Description()))
		}
		if accumulator == nil {
			accumulator = enumResp
		} else if err := accumulator.AddFragment(enumResp); err != nil {
			return nil, err
		}
		complete, err := accumulator.IsComplete(&next)
		if err != nil {
			return nil, err
		}
		if complete {
			return accumulator, nil
		}
		maxFragments--
		if maxFragments == 0 {
			return accumulator, nil
		}
	}
}

// ObjectInfo drives the fragmented ObjectInfo loop to completion, or
// until maxFragments round trips have occurred (maxFragments must be >
// 0). On the maxFragments path it returns the partial accumulator and a
// nil error.
func (e *Engine) ObjectInfo(index uint16, firstSubIndex, lastSubIndex uint8, inclNames, inclASM bool, maxFragments int) (*rac.ObjectInfoResponse, error) {
	if maxFragments <= 0 {
		return nil, newLogicError("session: maxFragments must be > 0")
	}
	var accumulator *rac.ObjectInfoResponse
	next := firstSubIndex
	for {
		req := rac.NewObjectInfoRequest(index, next, lastSubIndex, inclNames, inclASM, e.maxResponseBudget())
		resp, err := e.sendAndReceive(req)
		if err != nil {
			return nil, err
		}
		infoResp, ok := resp.(*rac.ObjectInfoResponse)
		if !ok {
			return nil, newRuntimeError(fmt.Sprintf("session: object info got unexpected response kind %s", resp.Kind()))
		}
		if infoResp.Result() != abort.OK {
			return nil, newRuntimeError(fmt.Sprintf("session: object info failed: %s", infoResp.Result().Description()))
		}
		if accumulator == nil {
			accumulator = infoResp
		} else if err := accumulator.AddFragment(infoResp); err != nil {
			return nil, err
		}
		complete, err := accumulator.IsComplete(&next)
		if err != nil {
			return nil, err
		}
		if complete {
			return accumulator, nil
		}
		maxFragments--
		if maxFragments == 0 {
			return accumulator, nil
		}
	}
}

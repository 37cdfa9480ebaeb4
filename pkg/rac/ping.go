package rac

import "github.com/go-roda/roda/pkg/bitio"

// PingRequest carries no payload beyond the common request fields; it is
// used to verify liveness and round-trip return-stack routing.
type PingRequest struct {
	requestBase
}

// NewPingRequest creates a ping request with the given response size
// budget.
func NewPingRequest(maxResponseSize uint32) *PingRequest {
	return &PingRequest{requestBase: newRequestBase(KindPing, maxResponseSize)}
}

func (req *PingRequest) BinarySize() int { return req.baseBinarySize() }

func (req *PingRequest) ToBinary() []byte {
	w := bitio.NewWriter()
	req.writeHeaderAndStack(w)
	return w.Bytes()
}

func (req *PingRequest) String() string {
	return "Ping request, " + fmtMaxResponseSize(req.maxResponseSize)
}

func newPingRequestFromBinary(h decodedRequestHeader) (*PingRequest, error) {
	return &PingRequest{requestBase: requestBase{kind: KindPing, returnStack: h.returnStack, maxResponseSize: h.maxResponseSize}}, nil
}

// PingResponse carries no payload; a successful round trip is itself
// the signal.
type PingResponse struct {
	responseBase
}

// NewPingResponse creates a ping response inheriting rs as its return
// stack.
func NewPingResponse(rs ReturnStack) *PingResponse {
	return &PingResponse{responseBase: newResponseBase(KindPing, rs)}
}

func (resp *PingResponse) BinarySize() int { return resp.baseBinarySize() }

func (resp *PingResponse) ToBinary() []byte {
	w := bitio.NewWriter()
	resp.writeHeaderAndStack(w)
	return w.Bytes()
}

func (resp *PingResponse) String() string { return "Ping response" }

func newPingResponseFromBinary(h decodedResponseHeader) (*PingResponse, error) {
	return &PingResponse{responseBase: responseBase{kind: KindPing, returnStack: h.returnStack}}, nil
}

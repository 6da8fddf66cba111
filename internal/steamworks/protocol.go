package steamworks

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Bridge actions.
const (
	ActionHello        = "hello"
	ActionInit         = "init"
	ActionRunCallbacks = "run_callbacks"
	ActionShutdown     = "shutdown"
)

// ProtocolVersion is sent with every request.
const ProtocolVersion = 1

// MinAPIVersion is the oldest bridge API farmer can drive.
const MinAPIVersion = 2

// Request is one bridge call. Each connection carries exactly one.
type Request struct {
	Action   string `cbor:"action"`
	Protocol int    `cbor:"protocol"`
	AppID    uint32 `cbor:"app_id,omitempty"`
}

// Response is the bridge's reply. Data is action-specific.
type Response struct {
	OK    bool            `cbor:"ok"`
	Error string          `cbor:"error,omitempty"`
	Data  cbor.RawMessage `cbor:"data,omitempty"`
}

// HelloInfo is the data of a hello reply.
type HelloInfo struct {
	APIVersion int    `cbor:"api_version"`
	Runtime    string `cbor:"runtime,omitempty"`
}

// CallbackBatch is the data of a run_callbacks reply.
type CallbackBatch struct {
	Dispatched int `cbor:"dispatched"`
}

// encMode uses Core Deterministic Encoding so equal values encode to
// identical bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("steamworks: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("steamworks: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v as CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v. Unknown fields are ignored.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder returns a CBOR stream encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a CBOR stream decoder reading from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
